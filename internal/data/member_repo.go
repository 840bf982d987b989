package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data/pgxutil"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const (
	// Flat grants: a user holds a permission in a workspace exactly when their
	// membership's role has it. No membership means no permissions.
	memberHasPermissionQuery = `
		SELECT EXISTS (
			SELECT 1
			FROM members m
			JOIN role_permissions rp ON rp.role_id = m.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE m.user_id = $1 AND m.workspace_id = $2 AND p.name = $3
		)`

	memberGetQuery = `
		SELECT id, user_id, workspace_id, role_id, joined_at
		FROM members
		WHERE workspace_id = $1 AND user_id = $2`

	memberListByWorkspaceQuery = `
		SELECT m.id, m.user_id, m.workspace_id, m.role_id, m.joined_at,
		       u.university_id, u.name, r.name AS role_name
		FROM members m
		JOIN users u ON u.id = m.user_id
		JOIN roles r ON r.id = m.role_id
		WHERE m.workspace_id = $1
		ORDER BY m.joined_at, u.name`

	// Locks the workspace's OWNER memberships so concurrent demotions serialize
	// on the owner count.
	memberLockOwnersQuery = `
		SELECT m.user_id, m.role_id
		FROM members m
		JOIN roles r ON r.id = m.role_id
		WHERE m.workspace_id = $1 AND r.name = $2
		FOR UPDATE OF m`

	memberUpdateRoleQuery = `UPDATE members SET role_id = $3 WHERE workspace_id = $1 AND user_id = $2`
)

// MemberRepo answers membership and permission questions.
type MemberRepo struct {
	DB *sql.DB
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{DB: db}
}

// HasPermission evaluates a flat permission check with a single query.
func (r *MemberRepo) HasPermission(ctx context.Context, check core.PermissionCheck) (bool, error) {
	var ok bool
	if err := r.DB.QueryRowContext(ctx, memberHasPermissionQuery,
		check.UserID, check.WorkspaceID, check.Permission,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return ok, nil
}

// Get returns the membership of userID in workspaceID.
func (r *MemberRepo) Get(ctx context.Context, workspaceID, userID string) (*model.Member, error) {
	var m model.Member
	err := r.DB.QueryRowContext(ctx, memberGetQuery, workspaceID, userID).
		Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// ListByWorkspace returns members with their user and role names.
func (r *MemberRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.MemberWithRole, error) {
	var out []model.MemberWithRole
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, memberListByWorkspaceQuery, workspaceID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MemberWithRole])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if out == nil {
		out = []model.MemberWithRole{}
	}
	return out, nil
}

// UpdateRole moves a member to another role. The composite foreign key rejects roles
// from other workspaces, which surfaces as ErrRoleNotFound. Moving the last OWNER off
// the OWNER role fails with ErrLastOwner; the owner rows stay locked until commit.
func (r *MemberRepo) UpdateRole(ctx context.Context, m model.Member) error {
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		if err := keepsAnOwner(ctx, tx, m); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, memberUpdateRoleQuery, m.WorkspaceID, m.UserID, m.RoleID)
		if err != nil {
			if apperrors.IsForeignKey(apperrors.MapDBError(err)) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("update member role: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update member role rows affected: %w", err)
		}
		if n == 0 {
			return ErrMemberNotFound
		}
		return nil
	}})
}

func keepsAnOwner(ctx context.Context, tx *sql.Tx, m model.Member) error {
	rows, err := tx.QueryContext(ctx, memberLockOwnersQuery, m.WorkspaceID, model.OwnerRoleName)
	if err != nil {
		return fmt.Errorf("lock owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	owners, isOwner, ownerRoleID := 0, false, ""
	for rows.Next() {
		var userID, roleID string
		if err := rows.Scan(&userID, &roleID); err != nil {
			return fmt.Errorf("scan owner: %w", err)
		}
		owners++
		ownerRoleID = roleID
		if userID == m.UserID {
			isOwner = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock owners: %w", err)
	}
	if isOwner && owners <= 1 && m.RoleID != ownerRoleID {
		return ErrLastOwner
	}
	return nil
}
