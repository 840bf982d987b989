//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const (
	// OwnerRoleName is the role created for the founder of every workspace.
	OwnerRoleName = "OWNER"

	maxWorkspaceNameLen = 100
	minWorkspaceSlugLen = 3
	maxWorkspaceSlugLen = 64
)

var workspaceSlugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Workspace is a tenant. Names are globally unique.
type Workspace struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	CreatedByID string    `json:"createdById" db:"created_by_id"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// CreateWorkspaceRequest is the body accepted by the workspace creation endpoint.
type CreateWorkspaceRequest struct {
	Name string `json:"workspacename"`
	Slug string `json:"workspaceslug"`
}

// Normalize trims surrounding whitespace from all fields.
func (r *CreateWorkspaceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
}

// Validate checks the request after Normalize.
func (r *CreateWorkspaceRequest) Validate() error {
	if r.Name == "" {
		return apperrors.ValidationField("workspacename", "workspacename is required")
	}
	if utf8.RuneCountInString(r.Name) > maxWorkspaceNameLen {
		return apperrors.ValidationField("workspacename", "workspacename cannot exceed 100 characters")
	}
	return ValidateWorkspaceSlug(r.Slug)
}

// ValidateWorkspaceSlug checks the URL slug format: lowercase letters, digits, and single hyphens.
func ValidateWorkspaceSlug(slug string) error {
	if slug == "" {
		return apperrors.ValidationField("workspaceslug", "workspaceslug is required")
	}
	if n := len(slug); n < minWorkspaceSlugLen || n > maxWorkspaceSlugLen {
		return apperrors.ValidationField("workspaceslug", "workspaceslug must be between 3 and 64 characters")
	}
	if !workspaceSlugRe.MatchString(slug) {
		return apperrors.ValidationField("workspaceslug", "workspaceslug may only contain lowercase letters, digits, and hyphens")
	}
	return nil
}

// CreateWorkspaceParams carries a validated request plus the authenticated owner.
type CreateWorkspaceParams struct {
	Name        string
	OwnerUserID string
}

// ProvisionedWorkspace is everything created atomically for a new workspace.
type ProvisionedWorkspace struct {
	Workspace Workspace
	OwnerRole Role
	Member    Member
}

// WorkspaceMembership is a workspace as seen by one of its members.
type WorkspaceMembership struct {
	ID       string    `json:"id"       db:"id"`
	Name     string    `json:"name"     db:"name"`
	RoleID   string    `json:"roleId"   db:"role_id"`
	RoleName string    `json:"roleName" db:"role_name"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}

// WelcomeMessage is the notification text sent to a workspace founder.
func WelcomeMessage(workspaceName string) string {
	return "Welcome to your new workspace: " + workspaceName + "! 🎉"
}
