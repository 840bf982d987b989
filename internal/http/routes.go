package httpx

import (
	"log/slog"
	"net/http"

	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth          AuthServiceInterface
	Workspaces    WorkspaceServiceInterface
	Authz         AuthorizationServiceInterface
	Catalog       CatalogServiceInterface
	Notifications NotificationServiceInterface
	Cookies       SessionCookies

	// Optional: per-IP login throttling; nil disables it.
	LoginLimiter *LoginLimiter
	// Optional: Prometheus collectors; nil disables instrumentation and MetricsPath.
	Metrics     *metrics.Metrics
	MetricsPath string
	// Optional: dependency probes for /readyz.
	Readiness []ReadinessCheck
	Logger    *slog.Logger
}

// NewRouter creates and configures the HTTP router with its middleware stack.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readyHandler(services.Readiness))
	if services.Metrics != nil && services.MetricsPath != "" {
		mux.Handle("GET "+services.MetricsPath, services.Metrics.Handler())
	}

	session := RequireSession(
		CookieSessionValidator{Sessions: services.Auth},
		services.Cookies,
		logger,
	)

	registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, Cookies: services.Cookies, Logger: logger}, services)
	registerWorkspaceRoutes(mux, &WorkspaceHandlers{Svc: services.Workspaces, Logger: logger}, session)
	registerRBACRoutes(mux, &RBACHandlers{Svc: services.Authz, Logger: logger}, rbacRouteConfig{
		Session: session,
		Logger:  logger,
	})

	catalog := &CatalogHandlers{Catalog: services.Catalog, Notifications: services.Notifications, Logger: logger}
	mux.Handle("GET /permissions", session(http.HandlerFunc(catalog.Permissions)))
	mux.Handle("GET /notifications", session(http.HandlerFunc(catalog.ListNotifications)))

	// Instrument must wrap the mux directly so it observes the matched pattern.
	return chain(services.Metrics.Instrument(mux),
		RequestID(),
		Logging(logger),
		Recover(logger),
	)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, services RouterServices) {
	limited := services.LoginLimiter.Middleware(func() {
		services.Metrics.LoginAttempt(metrics.ResultLimited)
	})
	mux.Handle("POST /auth/login", limited(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/me", h.Me)
}

func registerWorkspaceRoutes(mux *http.ServeMux, h *WorkspaceHandlers, session func(http.Handler) http.Handler) {
	mux.Handle("POST /workspace/create", session(http.HandlerFunc(h.Create)))
	mux.Handle("GET /workspaces", session(http.HandlerFunc(h.List)))
}

type rbacRouteConfig struct {
	Session func(http.Handler) http.Handler
	Logger  *slog.Logger
}

func registerRBACRoutes(mux *http.ServeMux, h *RBACHandlers, cfg rbacRouteConfig) {
	member := func(hf http.HandlerFunc) http.Handler {
		return chain(hf, cfg.Session, RequireMembership(h.Svc, cfg.Logger))
	}
	manager := func(hf http.HandlerFunc) http.Handler {
		return chain(hf, cfg.Session, RequirePermission(h.Svc, model.PermManageRoles, cfg.Logger))
	}

	const base = "/workspaces/{workspaceID}"
	mux.Handle("GET "+base+"/roles", member(h.ListRoles))
	mux.Handle("POST "+base+"/roles", manager(h.CreateRole))
	mux.Handle("PUT "+base+"/roles/{roleID}/permissions", manager(h.SetRolePermissions))
	mux.Handle("POST "+base+"/roles/{roleID}/permissions/{permission}", manager(h.GrantPermission))
	mux.Handle("DELETE "+base+"/roles/{roleID}/permissions/{permission}", manager(h.RevokePermission))
	mux.Handle("GET "+base+"/members", member(h.ListMembers))
	mux.Handle("PUT "+base+"/members/{userID}/role", manager(h.AssignRole))
	mux.Handle("GET "+base+"/can/{permission}", cfg.Session(http.HandlerFunc(h.Can)))
}
