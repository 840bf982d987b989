//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/unievents/unievents-api/internal/errors"
)

// Member binds a user to a workspace with exactly one role.
type Member struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	WorkspaceID string    `json:"workspaceId" db:"workspace_id"`
	RoleID      string    `json:"roleId"      db:"role_id"`
	JoinedAt    time.Time `json:"joinedAt"    db:"joined_at"`
}

// MemberWithRole is a member joined with user and role display fields.
type MemberWithRole struct {
	Member
	UniversityID string `json:"universityId" db:"university_id"`
	Name         string `json:"name"         db:"name"`
	RoleName     string `json:"roleName"     db:"role_name"`
}

// AssignRoleRequest moves a member to another role in the same workspace.
type AssignRoleRequest struct {
	RoleID string `json:"roleId"`
}

// Validate checks that a role was supplied.
func (r *AssignRoleRequest) Validate() error {
	r.RoleID = strings.TrimSpace(r.RoleID)
	if r.RoleID == "" {
		return apperrors.ValidationField("roleId", "roleId is required")
	}
	return nil
}
