package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/unievents/unievents-api/internal/data/pgxutil"
	"github.com/unievents/unievents-api/internal/domain/model"
)

const (
	// The no-op update makes RETURNING yield the existing row on conflict.
	categoryUpsertQuery = `
		INSERT INTO permission_categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	// Existing labels are left untouched; only missing permissions are created.
	permissionUpsertQuery = `
		INSERT INTO permissions (name, label, category_id) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, label, category_id`

	categoryListQuery   = `SELECT id, name FROM permission_categories ORDER BY name`
	permissionListQuery = `SELECT id, name, label, category_id FROM permissions ORDER BY name`
)

// PermissionRepo manages the global permission catalog.
type PermissionRepo struct {
	DB *sql.DB
}

// NewPermissionRepo creates a new PermissionRepo.
func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{DB: db}
}

// UpsertCategory returns the category named name, creating it when absent.
func (r *PermissionRepo) UpsertCategory(ctx context.Context, name string) (*model.PermissionCategory, error) {
	var c model.PermissionCategory
	if err := r.DB.QueryRowContext(ctx, categoryUpsertQuery, name).Scan(&c.ID, &c.Name); err != nil {
		return nil, fmt.Errorf("upsert permission category %s: %w", name, err)
	}
	return &c, nil
}

// UpsertPermission returns the permission named seed.Name, creating it when absent.
func (r *PermissionRepo) UpsertPermission(
	ctx context.Context,
	seed model.PermissionSeed,
	categoryID string,
) (*model.Permission, error) {
	var p model.Permission
	if err := r.DB.QueryRowContext(ctx, permissionUpsertQuery, seed.Name, seed.Label, categoryID).
		Scan(&p.ID, &p.Name, &p.Label, &p.CategoryID); err != nil {
		return nil, fmt.Errorf("upsert permission %s: %w", seed.Name, err)
	}
	return &p, nil
}

// ListCatalog returns every category with its permissions.
func (r *PermissionRepo) ListCatalog(ctx context.Context) ([]model.CatalogCategory, error) {
	var (
		cats  []model.PermissionCategory
		perms []model.Permission
	)
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, categoryListQuery)
		if err != nil {
			return err
		}
		if cats, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PermissionCategory]); err != nil {
			return err
		}
		rows, err = conn.Query(ctx, permissionListQuery)
		if err != nil {
			return err
		}
		perms, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Permission])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list permission catalog: %w", err)
	}
	return groupCatalog(cats, perms), nil
}

func groupCatalog(cats []model.PermissionCategory, perms []model.Permission) []model.CatalogCategory {
	byCategory := make(map[string][]model.Permission, len(cats))
	for _, p := range perms {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	out := make([]model.CatalogCategory, 0, len(cats))
	for _, c := range cats {
		ps := byCategory[c.ID]
		if ps == nil {
			ps = []model.Permission{}
		}
		out = append(out, model.CatalogCategory{PermissionCategory: c, Permissions: ps})
	}
	return out
}
