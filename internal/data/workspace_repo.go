package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/unievents/unievents-api/internal/data/pgxutil"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const ownerRoleDescription = "Workspace owner with full access"

const (
	workspaceInsertQuery = `
		INSERT INTO workspaces (name, created_by_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_by_id, created_at`

	ownerRoleInsertQuery = `
		INSERT INTO roles (workspace_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, description, created_at`

	// Grants every permission in the catalog at this instant.
	grantAllPermissionsQuery = `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1::uuid, id FROM permissions`

	memberInsertQuery = `
		INSERT INTO members (user_id, workspace_id, role_id, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, workspace_id, role_id, joined_at`

	userSetActiveWorkspaceQuery = `
		UPDATE users SET last_active_workspace_id = $1, updated_at = $2 WHERE id = $3`

	workspaceGetByIDQuery = `SELECT id, name, created_by_id, created_at FROM workspaces WHERE id = $1`

	workspaceListForUserQuery = `
		SELECT w.id, w.name, r.id AS role_id, r.name AS role_name, m.joined_at
		FROM members m
		JOIN workspaces w ON w.id = m.workspace_id
		JOIN roles r ON r.id = m.role_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC, w.name`
)

// WorkspaceRepo provides database operations for workspaces.
type WorkspaceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWorkspaceRepo creates a new WorkspaceRepo.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewWorkspaceRepoWithTimeProvider creates a WorkspaceRepo with a custom TimeProvider.
func NewWorkspaceRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *WorkspaceRepo {
	return &WorkspaceRepo{DB: db, timeProvider: tp}
}

// CreateWithOwner provisions a workspace in a single transaction. The unique index on
// workspaces.name decides races: of two concurrent creations with the same name exactly
// one commits and the other receives ErrWorkspaceNameExists with nothing persisted.
func (r *WorkspaceRepo) CreateWithOwner(
	ctx context.Context,
	params model.CreateWorkspaceParams,
) (*model.ProvisionedWorkspace, error) {
	now := r.timeProvider.Now()
	var out model.ProvisionedWorkspace

	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		ws := &out.Workspace
		if err := tx.QueryRowContext(ctx, workspaceInsertQuery, params.Name, params.OwnerUserID, now).
			Scan(&ws.ID, &ws.Name, &ws.CreatedByID, &ws.CreatedAt); err != nil {
			return fmt.Errorf("insert workspace: %w", err)
		}

		role, err := insertOwnerRole(ctx, tx, ws.ID, now)
		if err != nil {
			return err
		}
		out.OwnerRole = *role

		if _, err = tx.ExecContext(ctx, grantAllPermissionsQuery, role.ID); err != nil {
			return fmt.Errorf("grant owner permissions: %w", err)
		}

		m := &out.Member
		if err = tx.QueryRowContext(ctx, memberInsertQuery, params.OwnerUserID, ws.ID, role.ID, now).
			Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.JoinedAt); err != nil {
			return fmt.Errorf("insert owner membership: %w", err)
		}

		res, err := tx.ExecContext(ctx, userSetActiveWorkspaceQuery, ws.ID, now, params.OwnerUserID)
		if err != nil {
			return fmt.Errorf("set active workspace: %w", err)
		}
		if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
			return ErrUserNotFound
		}
		return nil
	}})
	if err != nil {
		return nil, r.mapCreateErr(err)
	}
	return &out, nil
}

func insertOwnerRole(ctx context.Context, tx *sql.Tx, workspaceID string, now time.Time) (*model.Role, error) {
	var (
		role model.Role
		desc sql.NullString
	)
	if err := tx.QueryRowContext(ctx, ownerRoleInsertQuery, workspaceID, model.OwnerRoleName, ownerRoleDescription, now).
		Scan(&role.ID, &role.WorkspaceID, &role.Name, &desc, &role.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert owner role: %w", err)
	}
	if desc.Valid {
		role.Description = &desc.String
	}
	return &role, nil
}

func (r *WorkspaceRepo) mapCreateErr(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return err
	case apperrors.IsUniqueViolation(err, "workspaces_name_key"):
		return ErrWorkspaceNameExists
	case apperrors.IsForeignKey(apperrors.MapDBError(err)):
		// created_by_id or members.user_id referenced a missing user.
		return ErrUserNotFound
	default:
		return fmt.Errorf("create workspace: %w", err)
	}
}

// GetByID returns a workspace by id.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.DB.QueryRowContext(ctx, workspaceGetByIDQuery, id).Scan(&ws.ID, &ws.Name, &ws.CreatedByID, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &ws, nil
}

// ListForUser returns the workspaces a user belongs to with the role they hold.
func (r *WorkspaceRepo) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceMembership, error) {
	var out []model.WorkspaceMembership
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, workspaceListForUserQuery, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WorkspaceMembership])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list workspaces for user: %w", err)
	}
	if out == nil {
		out = []model.WorkspaceMembership{}
	}
	return out, nil
}
