package router_test

import (
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/permissions"
	"gamasa/shared/constant"
	"gamasa/transport/http/router"
)

type route struct {
	method string
	path   string
}

func routes(t *testing.T) []route {
	mux := chi.NewRouter()

	r := router.New(router.DomainHandlers{}, nil)
	r.SetupRoutes(mux)

	var found []route

	err := chi.Walk(mux, func(method, path string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		found = append(found, route{method: method, path: path})

		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, found)

	return found
}

func TestRouter_EveryRouteHasPermissions(t *testing.T) {
	table := permissions.Get()
	require.NotNil(t, table)

	registered := make(map[string]bool)
	for _, endpoint := range table.Endpoints {
		registered[endpoint.Method+" "+endpoint.Path] = true
	}

	for _, rt := range routes(t) {
		assert.True(t, registered[rt.method+" "+rt.path], "%s %s is missing from permissions.json", rt.method, rt.path)
	}
}

func TestRouter_AdminRoutesAreRestricted(t *testing.T) {
	table := permissions.Get()
	require.NotNil(t, table)

	for _, rt := range routes(t) {
		if !strings.HasPrefix(rt.path, "/v1/admin/") {
			continue
		}

		permission := table.FindPermissions(rt.path, rt.method)

		assert.False(t, permission.Skip, "%s %s must not skip auth", rt.method, rt.path)
		assert.NotEmpty(t, permission.Permissions, "%s %s must list its roles", rt.method, rt.path)
		assert.False(t, slices.Contains(permission.Permissions, constant.RoleUser), "%s %s is open to users", rt.method, rt.path)
		assert.False(t, slices.Contains(permission.Permissions, constant.RoleOwner), "%s %s is open to owners", rt.method, rt.path)
	}
}
