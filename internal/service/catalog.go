package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/domain/model"
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	Repo   core.PermissionRepository // Required: permission catalog store
	Logger *slog.Logger              // Optional: structured logger
}

// CatalogService seeds and lists the global permission catalog.
type CatalogService struct {
	repo   core.PermissionRepository
	logger *slog.Logger
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.Repo == nil {
		panic("PermissionRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{repo: opts.Repo, logger: logger.With("component", "catalog_service")}
}

// SeedResult counts the upserted catalog rows.
type SeedResult struct {
	Categories  int
	Permissions int
}

// Seed upserts every category and permission by unique name. Running it again
// leaves the catalog unchanged. A nil seeds slice seeds model.DefaultCatalog.
func (s *CatalogService) Seed(ctx context.Context, seeds []model.CategorySeed) (SeedResult, error) {
	if seeds == nil {
		seeds = model.DefaultCatalog()
	}
	var res SeedResult
	for _, cat := range seeds {
		c, err := s.repo.UpsertCategory(ctx, cat.Name)
		if err != nil {
			return res, fmt.Errorf("upsert category %s: %w", cat.Name, err)
		}
		res.Categories++
		for _, p := range cat.Permissions {
			if _, err := s.repo.UpsertPermission(ctx, p, c.ID); err != nil {
				return res, fmt.Errorf("upsert permission %s: %w", p.Name, err)
			}
			res.Permissions++
		}
	}
	s.logger.InfoContext(ctx, "permission catalog seeded",
		"categories", res.Categories,
		"permissions", res.Permissions,
	)
	return res, nil
}

// List returns the catalog grouped by category.
func (s *CatalogService) List(ctx context.Context) ([]model.CatalogCategory, error) {
	out, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return out, nil
}
