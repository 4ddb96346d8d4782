package permissions_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/permissions"
)

func TestPermission_Allows(t *testing.T) {
	admin := permissions.Permission{Permissions: []string{"admin", "superadmin"}}
	anyone := permissions.Permission{}

	assert.True(t, admin.Allows("admin"))
	assert.False(t, admin.Allows("owner"))
	assert.False(t, admin.Allows(""))
	assert.True(t, anyone.Allows("user"))
}

func TestParse(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/properties/","method":"GET","skip":true}]}`))
	require.NoError(t, err)

	assert.True(t, data.FindPermissions("/v1/properties/", http.MethodGet).Skip)
	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/v1/properties/", http.MethodPost))

	_, err = permissions.Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)

	tests := []struct {
		name   string
		method string
		path   string
		public bool
		admin  bool
	}{
		{name: "health", method: http.MethodGet, path: "/health", public: true},
		{name: "login", method: http.MethodPost, path: "/v1/auth/login", public: true},
		{name: "search listings", method: http.MethodGet, path: "/v1/properties/", public: true},
		{name: "listing detail", method: http.MethodGet, path: "/v1/properties/{id}", public: true},
		{name: "create listing", method: http.MethodPost, path: "/v1/properties/"},
		{name: "unlock", method: http.MethodPost, path: "/v1/properties/{id}/unlock"},
		{name: "realtime", method: http.MethodGet, path: "/v1/realtime"},
		{name: "approve payment", method: http.MethodPatch, path: "/v1/admin/payments/{id}/approve", admin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			require.Equal(t, tt.path, permission.Path, "endpoint missing from permissions.json")
			assert.Equal(t, tt.public, permission.Skip)
			assert.Equal(t, tt.admin, !permission.Allows("user"))
		})
	}

	t.Run("admin routes are restricted", func(t *testing.T) {
		for _, endpoint := range data.Endpoints {
			if strings.HasPrefix(endpoint.Path, "/v1/admin") {
				assert.False(t, endpoint.Skip, endpoint.Path)
				assert.False(t, endpoint.Allows("owner"), endpoint.Path)
			}
		}
	})
}
