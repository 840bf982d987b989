// Package devseed loads demo data into a development database.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	bcryptadapter "github.com/unievents/unievents-api/internal/adapters/bcrypt"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
	"github.com/unievents/unievents-api/internal/service"
)

// devBcryptCost keeps seeding fast; seeded credentials are public anyway.
const devBcryptCost = 4

// CatalogSeeder upserts the permission catalog.
type CatalogSeeder interface {
	Seed(ctx context.Context, seeds []model.CategorySeed) (service.SeedResult, error)
}

// UserProvisioner creates accounts and resolves existing ones.
type UserProvisioner interface {
	CreateUser(ctx context.Context, in service.RegisterInput, isAdmin bool) (*domainauth.User, error)
	FindByCredentials(ctx context.Context, universityID, secret string) (*domainauth.User, error)
}

// WorkspaceProvisioner creates workspaces with their OWNER role.
type WorkspaceProvisioner interface {
	Create(ctx context.Context, ownerUserID string, req model.CreateWorkspaceRequest) (*model.ProvisionedWorkspace, error)
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Catalog    CatalogSeeder
	Users      UserProvisioner
	Workspaces WorkspaceProvisioner
}

// NewServices constructs all required services for seeding using the provided DB.
// Seeding never touches the session cache.
func NewServices(db *sql.DB) Services {
	users := data.NewUserRepo(db)
	sessions := service.NewSessionService(service.SessionServiceOptions{Repo: data.NewSessionRepo(db)})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:    users,
		Sessions: sessions,
		Hasher:   bcryptadapter.New(devBcryptCost),
	})
	return Services{
		Catalog:    service.NewCatalogService(service.CatalogServiceOptions{Repo: data.NewPermissionRepo(db)}),
		Users:      auth,
		Workspaces: service.NewWorkspaceService(service.WorkspaceServiceOptions{Repo: data.NewWorkspaceRepo(db)}),
	}
}

// DemoUser is a seeded account. Passwords are for local development only.
type DemoUser struct {
	Input   service.RegisterInput
	IsAdmin bool
}

// DemoUsers returns the seeded accounts.
func DemoUsers() []DemoUser {
	return []DemoUser{
		{
			Input: service.RegisterInput{
				Name: "Dev Admin", Email: "admin@unievents.dev", Password: "admin123", UniversityID: "1000001",
			},
			IsAdmin: true,
		},
		{
			Input: service.RegisterInput{
				Name: "Ada Student", Email: "ada@unievents.dev", Password: "student1", UniversityID: "2024001",
			},
		},
		{
			Input: service.RegisterInput{
				Name: "Grace Student", Email: "grace@unievents.dev", Password: "student2", UniversityID: "2024002",
			},
		},
	}
}

// demoWorkspaces maps a workspace to the index of its owner in DemoUsers.
var demoWorkspaces = []struct {
	Request model.CreateWorkspaceRequest
	Owner   int
}{
	{Request: model.CreateWorkspaceRequest{Name: "Computer Science Society", Slug: "cs-society"}, Owner: 1},
	{Request: model.CreateWorkspaceRequest{Name: "Debate Club", Slug: "debate-club"}, Owner: 2},
}

// Run executes the full development seeding workflow. It is idempotent: existing
// users and workspaces are left as they are.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := svcs.Catalog.Seed(ctx, model.DefaultCatalog()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.InfoContext(ctx, "seeded permission catalog")

	failures := 0
	users := make([]*domainauth.User, 0, len(DemoUsers()))
	for _, du := range DemoUsers() {
		u, err := ensureUser(ctx, svcs.Users, du)
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed user", "university_id", du.Input.UniversityID, "error", err)
			failures++
		}
		users = append(users, u)
	}

	for _, dw := range demoWorkspaces {
		owner := users[dw.Owner]
		if owner == nil {
			failures++
			continue
		}
		created, err := ensureWorkspace(ctx, svcs.Workspaces, owner.ID, dw.Request)
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed workspace", "name", dw.Request.Name, "error", err)
			failures++
			continue
		}
		msg := "workspace already exists"
		if created {
			msg = "created workspace"
		}
		logger.InfoContext(ctx, msg, "name", dw.Request.Name, "owner", owner.UniversityID)
	}

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func ensureUser(ctx context.Context, svc UserProvisioner, du DemoUser) (*domainauth.User, error) {
	u, err := svc.CreateUser(ctx, du.Input, du.IsAdmin)
	if err == nil {
		return u, nil
	}
	if !apperrors.IsConflict(err) {
		return nil, err
	}
	// Already seeded; the demo password still resolves the account.
	u, err = svc.FindByCredentials(ctx, du.Input.UniversityID, du.Input.Password)
	if errors.Is(err, domainauth.ErrInvalidCredentials) {
		return nil, fmt.Errorf("user %s exists with a different password", du.Input.UniversityID)
	}
	return u, err
}

func ensureWorkspace(ctx context.Context, svc WorkspaceProvisioner, ownerID string, req model.CreateWorkspaceRequest) (bool, error) {
	if _, err := svc.Create(ctx, ownerID, req); err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
