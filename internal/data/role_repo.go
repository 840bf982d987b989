package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/unievents/unievents-api/internal/data/pgxutil"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const (
	roleWithPermissionsSelect = `
		SELECT r.id, r.workspace_id, r.name, r.description, r.created_at,
		       COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}') AS permissions
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id`

	roleGetByIDQuery = roleWithPermissionsSelect + `
		WHERE r.workspace_id = $1 AND r.id = $2
		GROUP BY r.id`

	roleListByWorkspaceQuery = roleWithPermissionsSelect + `
		WHERE r.workspace_id = $1
		GROUP BY r.id
		ORDER BY r.created_at, r.name`

	roleInsertQuery = `
		INSERT INTO roles (workspace_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, description, created_at`

	roleGrantByNamesQuery = `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1::uuid, id FROM permissions WHERE name = ANY($2::text[])
		ON CONFLICT DO NOTHING`

	roleClearPermissionsQuery = `DELETE FROM role_permissions WHERE role_id = $1`

	permissionIDByNameQuery = `SELECT id FROM permissions WHERE name = $1`

	roleGrantQuery = `
		INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	roleRevokeQuery = `
		DELETE FROM role_permissions rp
		USING permissions p
		WHERE rp.permission_id = p.id AND rp.role_id = $1 AND p.name = $2`
)

// RoleRepo manages roles and their permission grants.
type RoleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a role and grants the named permissions atomically.
// Unknown permission names abort the whole creation with ErrPermissionNotFound.
func (r *RoleRepo) Create(ctx context.Context, params model.CreateRoleParams) (*model.RoleWithPermissions, error) {
	var out model.RoleWithPermissions
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		role := &out.Role
		if err := tx.QueryRow(ctx, roleInsertQuery,
			params.WorkspaceID, params.Name, params.Description, r.timeProvider.Now(),
		).Scan(&role.ID, &role.WorkspaceID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return err
		}
		return grantByNames(ctx, tx, role.ID, params.Permissions)
	}})
	if err != nil {
		switch {
		case errors.Is(err, ErrPermissionNotFound):
			return nil, err
		case apperrors.IsUniqueViolation(err, "roles_workspace_id_name_key"):
			return nil, ErrRoleNameExists
		case apperrors.IsForeignKey(apperrors.MapDBError(err)):
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	out.Permissions = slices.Clone(params.Permissions)
	slices.Sort(out.Permissions)
	if out.Permissions == nil {
		out.Permissions = []string{}
	}
	return &out, nil
}

func grantByNames(ctx context.Context, tx pgx.Tx, roleID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, roleGrantByNamesQuery, roleID, names)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != int64(len(names)) {
		return ErrPermissionNotFound
	}
	return nil
}

// GetByID returns a role scoped to a workspace.
func (r *RoleRepo) GetByID(ctx context.Context, workspaceID, roleID string) (*model.RoleWithPermissions, error) {
	var out model.RoleWithPermissions
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, roleGetByIDQuery, workspaceID, roleID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.RoleWithPermissions])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &out, nil
}

// ListByWorkspace returns all roles of a workspace in creation order.
func (r *RoleRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.RoleWithPermissions, error) {
	var out []model.RoleWithPermissions
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, roleListByWorkspaceQuery, workspaceID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.RoleWithPermissions])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if out == nil {
		out = []model.RoleWithPermissions{}
	}
	return out, nil
}

// SetPermissions replaces a role's grant set. The change is atomic.
func (r *RoleRepo) SetPermissions(ctx context.Context, roleID string, permissions []string) error {
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, roleClearPermissionsQuery, roleID); err != nil {
			return err
		}
		return grantByNames(ctx, tx, roleID, permissions)
	}})
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return err
		}
		return fmt.Errorf("set role permissions: %w", err)
	}
	return nil
}

// Grant adds one permission to a role. Granting an already granted permission is a no-op.
func (r *RoleRepo) Grant(ctx context.Context, roleID, permission string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var permissionID string
		if err := conn.QueryRow(ctx, permissionIDByNameQuery, permission).Scan(&permissionID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrPermissionNotFound
			}
			return err
		}
		_, err := conn.Exec(ctx, roleGrantQuery, roleID, permissionID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return err
		}
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// Revoke removes one permission from a role and reports whether it had been granted.
func (r *RoleRepo) Revoke(ctx context.Context, roleID, permission string) (bool, error) {
	var removed bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, roleRevokeQuery, roleID, permission)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("revoke permission: %w", err)
	}
	return removed, nil
}
