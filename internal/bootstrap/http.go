package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unievents/unievents-api/config"
	httpx "github.com/unievents/unievents-api/internal/http"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := BuildHTTPHandler(cfg, logger)

	// Guard against empty addr to avoid listening on Go default
	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       appCfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      appCfg.HTTP.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// BuildHTTPHandler wires the router with the configured services.
func BuildHTTPHandler(cfg *HTTPServerConfig, logger *slog.Logger) http.Handler {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var limiter *httpx.LoginLimiter
	if appCfg.Auth.LoginThrottled() {
		limiter = httpx.NewLoginLimiter(appCfg.Auth.LoginRatePerSecond, appCfg.Auth.LoginBurst)
		proxies, err := appCfg.HTTP.TrustedProxyPrefixes()
		if err != nil {
			logger.Warn("ignoring trusted proxies", "error", err)
		}
		limiter.TrustProxies(proxies)
	}

	return httpx.NewRouter(httpx.RouterServices{
		Auth:          cfg.Services.Auth,
		Workspaces:    cfg.Services.Workspaces,
		Authz:         cfg.Services.Authz,
		Catalog:       cfg.Services.Catalog,
		Notifications: cfg.Services.Notifications,
		Cookies: httpx.SessionCookies{
			Domain: appCfg.HTTP.CookieDomain,
			Secure: appCfg.HTTP.SecureCookies,
		},
		LoginLimiter: limiter,
		Metrics:      cfg.Services.Metrics,
		MetricsPath:  metricsPath(appCfg, cfg.Services.Metrics),
		Readiness:    readinessChecks(cfg.DB, cfg.RedisClient),
		Logger:       logger,
	})
}

func metricsPath(cfg *config.AppConfig, m *metrics.Metrics) string {
	if m == nil || !cfg.Observability.MetricsEnabled {
		return ""
	}
	return cfg.Observability.MetricsPath
}

// readinessChecks probes Postgres (required) and Redis (optional: the service
// runs degraded without its cache).
func readinessChecks(db *sql.DB, client redis.UniversalClient) []httpx.ReadinessCheck {
	var checks []httpx.ReadinessCheck
	if db != nil {
		checks = append(checks, httpx.ReadinessCheck{
			Name:  "postgres",
			Check: db.PingContext,
		})
	}
	if client != nil {
		checks = append(checks, httpx.ReadinessCheck{
			Name:     "redis",
			Optional: true,
			Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		})
	}
	return checks
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server, waiting up to
// Timeout for in-flight requests.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
