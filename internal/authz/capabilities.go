// Package authz provides the role/resource capability table used to gate
// catalog mutations. Grants are declared in capabilities.yml and looked up
// per (role, resource, capability); there is no implicit fallback.
package authz

import (
	_ "embed"
	"fmt"

	"bookclub/internal/models"

	"gopkg.in/yaml.v3"
)

// Capability is a named permission on a resource type.
type Capability string

const (
	CapView   Capability = "view"
	CapCreate Capability = "create"
	CapEdit   Capability = "edit"
	CapDelete Capability = "delete"
)

// ResourceBooks is the catalog resource gated by the bookshelf capability set.
const ResourceBooks = "books"

//go:embed capabilities.yml
var rawTable []byte

type tableFile struct {
	Resources map[string]map[string][]string `yaml:"resources"`
}

// Table is an immutable capability-set lookup keyed by (role, resource).
type Table struct {
	grants map[string]map[models.Role]map[Capability]struct{}
}

// Load parses the embedded grant declarations.
func Load() (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(rawTable, &file); err != nil {
		return nil, fmt.Errorf("failed to parse capability table: %w", err)
	}

	grants := make(map[string]map[models.Role]map[Capability]struct{}, len(file.Resources))
	for resource, roles := range file.Resources {
		grants[resource] = make(map[models.Role]map[Capability]struct{}, len(roles))
		for role, caps := range roles {
			set := make(map[Capability]struct{}, len(caps))
			for _, c := range caps {
				switch cap := Capability(c); cap {
				case CapView, CapCreate, CapEdit, CapDelete:
					set[cap] = struct{}{}
				default:
					return nil, fmt.Errorf("unknown capability %q for resource %q", c, resource)
				}
			}
			grants[resource][models.Role(role)] = set
		}
	}

	return &Table{grants: grants}, nil
}

// MustLoad loads the embedded table and panics on error. The table ships
// with the binary, so a parse failure is a build defect.
func MustLoad() *Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Allows reports whether role holds the capability on the resource.
func (t *Table) Allows(role models.Role, resource string, cap Capability) bool {
	roles, ok := t.grants[resource]
	if !ok {
		return false
	}
	caps, ok := roles[role]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
