package devseed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
	authmocks "github.com/unievents/unievents-api/internal/mocks/auth"
	"github.com/unievents/unievents-api/internal/service"
)

type fakeCatalog struct {
	calls int
	err   error
}

func (f *fakeCatalog) Seed(context.Context, []model.CategorySeed) (service.SeedResult, error) {
	f.calls++
	return service.SeedResult{}, f.err
}

type fakeWorkspaces struct {
	byName map[string]string
}

func (f *fakeWorkspaces) Create(_ context.Context, owner string, req model.CreateWorkspaceRequest) (*model.ProvisionedWorkspace, error) {
	if _, ok := f.byName[req.Name]; ok {
		return nil, apperrors.Conflict("exists")
	}
	f.byName[req.Name] = owner
	return &model.ProvisionedWorkspace{}, nil
}

func newTestServices() (Services, *fakeCatalog, *fakeWorkspaces) {
	users := authmocks.NewMemoryUserRepository()
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Repo: authmocks.NewMemorySessionRepository(users),
	})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:    users,
		Sessions: sessions,
		Hasher:   authmocks.PlainHasher{},
	})
	catalog := &fakeCatalog{}
	ws := &fakeWorkspaces{byName: map[string]string{}}
	return Services{Catalog: catalog, Users: auth, Workspaces: ws}, catalog, ws
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_SeedsEverything(t *testing.T) {
	svcs, catalog, ws := newTestServices()

	require.NoError(t, Run(context.Background(), svcs, quietLogger()))
	assert.Equal(t, 1, catalog.calls)
	assert.Len(t, ws.byName, 2)

	admin, err := svcs.Users.FindByCredentials(context.Background(), "1000001", "admin123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

func TestRun_Idempotent(t *testing.T) {
	svcs, catalog, ws := newTestServices()
	ctx := context.Background()

	require.NoError(t, Run(ctx, svcs, quietLogger()))
	owners := map[string]string{}
	for k, v := range ws.byName {
		owners[k] = v
	}

	require.NoError(t, Run(ctx, svcs, quietLogger()))
	assert.Equal(t, 2, catalog.calls)
	assert.Equal(t, owners, ws.byName)
}

func TestRun_CatalogFailureStops(t *testing.T) {
	svcs, catalog, ws := newTestServices()
	catalog.err = errors.New("db down")

	err := Run(context.Background(), svcs, quietLogger())
	require.ErrorContains(t, err, "seed catalog")
	assert.Empty(t, ws.byName)
}

func TestRun_ChangedPasswordCountsAsFailure(t *testing.T) {
	svcs, _, _ := newTestServices()
	ctx := context.Background()

	_, err := svcs.Users.CreateUser(ctx, service.RegisterInput{
		Email: "ada@unievents.dev", Password: "changed1", UniversityID: "2024001",
	}, false)
	require.NoError(t, err)

	err = Run(ctx, svcs, quietLogger())
	require.ErrorContains(t, err, "seed errors")
}
