package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/mocks"
	authmocks "github.com/unievents/unievents-api/internal/mocks/auth"
	"github.com/unievents/unievents-api/internal/observability/metrics"
	"github.com/unievents/unievents-api/internal/ports"
	"github.com/unievents/unievents-api/internal/service"
)

// testEnv wires the real services over in-memory auth stores, an in-memory
// workspace store and gomock RBAC repositories.
type testEnv struct {
	t          *testing.T
	users      *authmocks.MemoryUserRepository
	store      *authmocks.MemorySessionRepository
	cache      *authmocks.MemorySessionCache
	workspaces *memoryWorkspaceRepo
	members    *mocks.MockMemberRepository
	roles      *mocks.MockRoleRepository
	perms      *mocks.MockPermissionRepository
	notes      *mocks.MockNotificationRepository
	sessions   *service.SessionService
	metrics    *metrics.Metrics
	handler    http.Handler
}

type envOptions struct {
	cache   ports.SessionCache
	limiter *LoginLimiter
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	e := &testEnv{
		t:       t,
		users:   authmocks.NewMemoryUserRepository(),
		members: mocks.NewMockMemberRepository(ctrl),
		roles:   mocks.NewMockRoleRepository(ctrl),
		perms:   mocks.NewMockPermissionRepository(ctrl),
		notes:   mocks.NewMockNotificationRepository(ctrl),
		metrics: metrics.New(),
	}
	e.store = authmocks.NewMemorySessionRepository(e.users)
	e.workspaces = newMemoryWorkspaceRepo(e.users)

	cache := opts.cache
	if cache == nil {
		e.cache = authmocks.NewMemorySessionCache()
		cache = e.cache
	}

	e.sessions = service.NewSessionService(service.SessionServiceOptions{
		Repo:    e.store,
		Cache:   cache,
		Metrics: e.metrics,
	})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:    e.users,
		Sessions: e.sessions,
		Hasher:   authmocks.PlainHasher{},
		Metrics:  e.metrics,
	})
	notifier := service.NewNotificationService(service.NotificationServiceOptions{Repo: e.notes})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = notifier.Close(ctx)
	})
	e.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Notification{}, nil).AnyTimes()

	e.handler = NewRouter(RouterServices{
		Auth:          auth,
		Workspaces:    service.NewWorkspaceService(service.WorkspaceServiceOptions{Repo: e.workspaces, Notifier: notifier}),
		Authz:         service.NewAuthorizationService(service.AuthorizationServiceOptions{Members: e.members, Roles: e.roles, Metrics: e.metrics}),
		Catalog:       service.NewCatalogService(service.CatalogServiceOptions{Repo: e.perms}),
		Notifications: notifier,
		Cookies:       SessionCookies{Secure: true},
		LoginLimiter:  opts.limiter,
		Metrics:       e.metrics,
		MetricsPath:   "/metrics",
	})
	return e
}

// addUser stores a user whose password is secret under PlainHasher.
func (e *testEnv) addUser(universityID, secret string) domainauth.User {
	e.t.Helper()
	u, err := e.users.Create(context.Background(), core.CreateUserParams{
		UniversityID: universityID,
		Name:         "User " + universityID,
		Email:        universityID + "@uni.edu",
		PasswordHash: "plain:" + secret,
	})
	require.NoError(e.t, err)
	return *u
}

func (e *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login signs in and returns the three session cookies.
func (e *testEnv) login(universityID, secret string) []*http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/auth/login",
		`{"universityId":"`+universityID+`","password":"`+secret+`"}`)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(e.t, cookies, 3)
	return cookies
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// memoryWorkspaceRepo enforces global name uniqueness under a lock, standing
// in for the database constraint.
type memoryWorkspaceRepo struct {
	users *authmocks.MemoryUserRepository

	mu         sync.Mutex
	workspaces map[string]model.Workspace
	names      map[string]string
	members    map[string][]model.Member
	roles      map[string]model.Role
}

func newMemoryWorkspaceRepo(users *authmocks.MemoryUserRepository) *memoryWorkspaceRepo {
	return &memoryWorkspaceRepo{
		users:      users,
		workspaces: make(map[string]model.Workspace),
		names:      make(map[string]string),
		members:    make(map[string][]model.Member),
		roles:      make(map[string]model.Role),
	}
}

func (r *memoryWorkspaceRepo) CreateWithOwner(ctx context.Context, p model.CreateWorkspaceParams) (*model.ProvisionedWorkspace, error) {
	if _, err := r.users.GetByID(ctx, p.OwnerUserID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.names[p.Name]; taken {
		return nil, data.ErrWorkspaceNameExists
	}

	now := time.Now().UTC()
	ws := model.Workspace{ID: uuid.NewString(), Name: p.Name, CreatedByID: p.OwnerUserID, CreatedAt: now}
	role := model.Role{ID: uuid.NewString(), WorkspaceID: ws.ID, Name: model.OwnerRoleName, CreatedAt: now}
	member := model.Member{ID: uuid.NewString(), UserID: p.OwnerUserID, WorkspaceID: ws.ID, RoleID: role.ID, JoinedAt: now}

	r.workspaces[ws.ID] = ws
	r.names[ws.Name] = ws.ID
	r.roles[ws.ID] = role
	r.members[ws.ID] = append(r.members[ws.ID], member)
	return &model.ProvisionedWorkspace{Workspace: ws, OwnerRole: role, Member: member}, nil
}

func (r *memoryWorkspaceRepo) GetByID(_ context.Context, id string) (*model.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, data.ErrWorkspaceNotFound
	}
	return &ws, nil
}

func (r *memoryWorkspaceRepo) ListForUser(_ context.Context, userID string) ([]model.WorkspaceMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WorkspaceMembership
	for wsID, ms := range r.members {
		for _, m := range ms {
			if m.UserID == userID {
				role := r.roles[wsID]
				out = append(out, model.WorkspaceMembership{
					ID: wsID, Name: r.workspaces[wsID].Name, RoleID: role.ID, RoleName: role.Name, JoinedAt: m.JoinedAt,
				})
			}
		}
	}
	return out, nil
}

func (r *memoryWorkspaceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *memoryWorkspaceRepo) byName(name string) (model.Workspace, model.Role, []model.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.names[name]
	if !ok {
		return model.Workspace{}, model.Role{}, nil, false
	}
	return r.workspaces[id], r.roles[id], r.members[id], true
}
