// Package permissions loads the embedded route table used by the auth and RBAC middleware.
// Endpoints are keyed by method and chi route pattern.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An empty role list admits any signed
// in user.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	once  sync.Once
	index map[string]Permission
}

func key(method, path string) string {
	return method + " " + path
}

// FindPermissions returns the zero Permission for unknown endpoints.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	r.once.Do(r.buildIndex)

	return r.index[key(method, path)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[key(endpoint.Method, endpoint.Path)] = endpoint
	}
}

// Parse decodes a permission table.
func Parse(data []byte) (*PermissionData, error) {
	permissions := &PermissionData{}

	if err := json.Unmarshal(data, permissions); err != nil {
		return nil, err
	}

	return permissions, nil
}

// Get returns the embedded table, or nil when it cannot be decoded.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
