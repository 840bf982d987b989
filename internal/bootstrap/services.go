package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/unievents/unievents-api/config"
	"github.com/unievents/unievents-api/internal/data"
	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/observability/metrics"
	"github.com/unievents/unievents-api/internal/service"
)

// notifierDrainTimeout bounds how long shutdown waits for in-flight notifications.
const notifierDrainTimeout = 5 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions      *service.SessionService
	Auth          *service.AuthService
	Authz         *service.AuthorizationService
	Workspaces    *service.WorkspaceService
	Catalog       *service.CatalogService
	Notifications *service.NotificationService
	Metrics       *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users         *data.UserRepo
	Sessions      *data.SessionRepo
	Workspaces    *data.WorkspaceRepo
	Roles         *data.RoleRepo
	Members       *data.MemberRepo
	Permissions   *data.PermissionRepo
	Notifications *data.NotificationRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Users:         data.NewUserRepo(db),
		Sessions:      data.NewSessionRepo(db),
		Workspaces:    data.NewWorkspaceRepo(db),
		Roles:         data.NewRoleRepo(db),
		Members:       data.NewMemberRepo(db),
		Permissions:   data.NewPermissionRepo(db),
		Notifications: data.NewNotificationRepo(db),
	}
}

// NewServices wires repositories and services. Metrics are created only when enabled.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New()
	}

	repos := buildRepositories(deps.DB)
	auth := BuildAuthServices(AuthConfig{
		Auth:        cfg.Auth,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		Users:       repos.Users,
		SessionRepo: repos.Sessions,
		RedisClient: deps.RedisClient,
		Logger:      logger,
		Metrics:     m,
	})

	notifications := service.NewNotificationService(service.NotificationServiceOptions{
		Repo:    repos.Notifications,
		Logger:  logger,
		Metrics: m,
	})

	return ServiceContainer{
		Sessions: auth.Sessions,
		Auth:     auth.Auth,
		Authz: service.NewAuthorizationService(service.AuthorizationServiceOptions{
			Members:      repos.Members,
			Roles:        repos.Roles,
			Logger:       logger,
			Metrics:      m,
			StoreTimeout: cfg.Auth.StoreTimeout,
		}),
		Workspaces: service.NewWorkspaceService(service.WorkspaceServiceOptions{
			Repo:         repos.Workspaces,
			Notifier:     notifications,
			Logger:       logger,
			StoreTimeout: cfg.Auth.StoreTimeout,
		}),
		Catalog: service.NewCatalogService(service.CatalogServiceOptions{
			Repo:   repos.Permissions,
			Logger: logger,
		}),
		Notifications: notifications,
		Metrics:       m,
	}
}

// SeedCatalog upserts the default permission catalog.
func SeedCatalog(ctx context.Context, catalog *service.CatalogService, logger *slog.Logger) error {
	res, err := catalog.Seed(ctx, model.DefaultCatalog())
	if err != nil {
		return fmt.Errorf("seed permission catalog: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "permission catalog seeded",
			"categories", res.Categories,
			"permissions", res.Permissions,
		)
	}
	return nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger

	// Listener overrides HTTP.Addr; tests pass a pre-bound listener.
	Listener net.Listener
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

func newSessionReaperBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSessionReaper,
		name: "session reaper",
		start: func(ctx context.Context) error {
			if cfg.Services.Sessions == nil {
				return errors.New("session service not configured")
			}
			reaper, err := service.NewSessionReaper(service.SessionReaperOptions{
				Sessions: cfg.Services.Sessions,
				Config:   cfg.Config.SessionReaper,
				Logger:   logger,
				Metrics:  cfg.Services.Metrics,
			})
			if err != nil {
				return err
			}
			return reaper.Run(ctx)
		},
	}
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		newSessionReaperBackgroundService(cfg, logger),
	}
}

// RunServicesWithShutdown starts all enabled services and blocks until SIGINT,
// SIGTERM or the first service failure.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunServices(ctx, cfg)
}

// RunServices runs the enabled services until ctx is cancelled or one of them
// fails, then shuts the rest down. A clean shutdown returns nil.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := NewHTTPServer(&HTTPServerConfig{
			Config:      cfg.Config,
			Services:    cfg.Services,
			DB:          cfg.DB,
			RedisClient: cfg.RedisClient,
			Logger:      logger,
		})
		g.Go(func() error {
			return serveHTTP(server, cfg.Listener, logger)
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Server:  server,
				Timeout: cfg.Config.HTTP.ShutdownTimeout,
				Logger:  logger,
			})
		})
	}

	for _, svc := range buildBackgroundServices(cfg, logger) {
		if !enabled[svc.mode] {
			continue
		}
		logger.InfoContext(ctx, "background service started", "service", svc.name, "mode", svc.mode)
		g.Go(func() error {
			if err := svc.start(gctx); err != nil {
				return fmt.Errorf("%s failed: %w", svc.name, err)
			}
			logger.Info(svc.name + " stopped")
			return nil
		})
	}

	runErr := g.Wait()
	if runErr != nil {
		logger.Error("service error", "error", runErr)
	} else {
		logger.Info("services stopped")
	}

	if cfg.Services.Notifications != nil {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifierDrainTimeout)
		defer cancel()
		if err := cfg.Services.Notifications.Close(drainCtx); err != nil {
			logger.Warn("notifications still in flight at shutdown", "error", err)
		}
	}
	return runErr
}

func serveHTTP(server *http.Server, ln net.Listener, logger *slog.Logger) error {
	var err error
	if ln != nil {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		err = server.Serve(ln)
	} else {
		logger.Info("starting HTTP server", "addr", server.Addr)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
