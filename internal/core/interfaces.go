package core

import (
	"context"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/domain/model"
)

// CreateUserParams groups the fields persisted for a new user.
type CreateUserParams struct {
	UniversityID string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// UserRepository persists credentials. Email and university id are unique.
type UserRepository interface {
	// Create returns data.ErrUserExists when the email or university id is taken.
	Create(ctx context.Context, params CreateUserParams) (*domainauth.User, error)
	GetByID(ctx context.Context, id string) (*domainauth.User, error)
	GetByUniversityID(ctx context.Context, universityID string) (*domainauth.User, error)
}

// SessionRepository is the durable, authoritative session store.
type SessionRepository interface {
	Create(ctx context.Context, sess domainauth.Session) error
	// GetContextByToken resolves a token to its session joined with the owning user.
	GetContextByToken(ctx context.Context, token string) (*domainauth.SessionContext, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// WorkspaceRepository owns workspace lifecycle.
type WorkspaceRepository interface {
	// CreateWithOwner atomically creates the workspace, its OWNER role with every catalog
	// permission, the founding membership, and records it as the user's active workspace.
	CreateWithOwner(ctx context.Context, params model.CreateWorkspaceParams) (*model.ProvisionedWorkspace, error)
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]model.WorkspaceMembership, error)
}

// RoleRepository manages roles and their flat permission grants.
type RoleRepository interface {
	Create(ctx context.Context, params model.CreateRoleParams) (*model.RoleWithPermissions, error)
	GetByID(ctx context.Context, workspaceID, roleID string) (*model.RoleWithPermissions, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.RoleWithPermissions, error)
	SetPermissions(ctx context.Context, roleID string, permissions []string) error
	Grant(ctx context.Context, roleID, permission string) error
	Revoke(ctx context.Context, roleID, permission string) (bool, error)
}

// PermissionCheck identifies a single authorization question.
type PermissionCheck struct {
	UserID      string
	WorkspaceID string
	Permission  string
}

// MemberRepository answers membership and authorization questions.
type MemberRepository interface {
	HasPermission(ctx context.Context, check PermissionCheck) (bool, error)
	Get(ctx context.Context, workspaceID, userID string) (*model.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.MemberWithRole, error)
	UpdateRole(ctx context.Context, member model.Member) error
}

// PermissionRepository manages the global permission catalog.
type PermissionRepository interface {
	UpsertCategory(ctx context.Context, name string) (*model.PermissionCategory, error)
	UpsertPermission(ctx context.Context, seed model.PermissionSeed, categoryID string) (*model.Permission, error)
	ListCatalog(ctx context.Context) ([]model.CatalogCategory, error)
}

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
}
