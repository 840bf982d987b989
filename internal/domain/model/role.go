//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const (
	maxRoleNameLen        = 64
	maxRoleDescriptionLen = 255
)

// Role is a named bundle of permissions scoped to one workspace.
type Role struct {
	ID          string    `json:"id"                    db:"id"`
	WorkspaceID string    `json:"workspaceId"           db:"workspace_id"`
	Name        string    `json:"name"                  db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt"             db:"created_at"`
}

// RoleWithPermissions is a role plus the names of the permissions granted to it.
type RoleWithPermissions struct {
	Role
	Permissions []string `json:"permissions" db:"permissions"`
}

// CreateRoleRequest is the body accepted by the role creation endpoint.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

// Normalize trims fields and removes duplicate permission names.
func (r *CreateRoleRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
	r.Permissions = NormalizePermissionNames(r.Permissions)
}

// Validate checks the request after Normalize.
func (r *CreateRoleRequest) Validate() error {
	if r.Name == "" {
		return apperrors.ValidationField("name", "name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxRoleNameLen {
		return apperrors.ValidationField("name", "name cannot exceed 64 characters")
	}
	if strings.EqualFold(r.Name, OwnerRoleName) {
		return apperrors.ValidationField("name", "name OWNER is reserved")
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxRoleDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 255 characters")
	}
	return nil
}

// CreateRoleParams is a validated role creation scoped to a workspace.
type CreateRoleParams struct {
	WorkspaceID string
	Name        string
	Description *string
	Permissions []string
}

// SetRolePermissionsRequest replaces the full grant set of a role.
type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// NormalizePermissionNames upper-cases, trims, and de-duplicates names, preserving order.
func NormalizePermissionNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
