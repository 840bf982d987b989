package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/unievents/unievents-api/config"
	bcryptadapter "github.com/unievents/unievents-api/internal/adapters/bcrypt"
	redisadapter "github.com/unievents/unievents-api/internal/adapters/redis"
	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/observability/metrics"
	"github.com/unievents/unievents-api/internal/ports"
	"github.com/unievents/unievents-api/internal/service"
)

// sessionKeyPrefix namespaces cached session snapshots.
const sessionKeyPrefix = "session:"

// AuthConfig contains configuration for the auth services.
type AuthConfig struct {
	Auth        config.AuthConfig
	KeyPrefix   string
	Users       core.UserRepository
	SessionRepo core.SessionRepository
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// AuthServices bundles the session manager and the credential flow on top of it.
type AuthServices struct {
	Sessions *service.SessionService
	Auth     *service.AuthService
}

// BuildSessionCache returns the Redis session cache, or nil when Redis is not
// configured. A nil cache makes every validation go to Postgres.
//
//nolint:ireturn // callers only need the port.
func BuildSessionCache(client redis.UniversalClient, keyPrefix string) ports.SessionCache {
	if client == nil {
		return nil
	}
	return redisadapter.NewSessionCacheWithPrefix(client, SessionCacheKeyPrefix(keyPrefix))
}

// SessionCacheKeyPrefix returns the Redis key prefix of cached sessions.
func SessionCacheKeyPrefix(keyPrefix string) string {
	return keyPrefix + sessionKeyPrefix
}

// BuildAuthServices wires the session manager and auth service.
func BuildAuthServices(cfg AuthConfig) AuthServices {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache := BuildSessionCache(cfg.RedisClient, cfg.KeyPrefix)
	if cache == nil {
		logger.Warn("session cache disabled: redis client not configured")
	}

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Repo:  cfg.SessionRepo,
		Cache: cache,
		Config: service.SessionConfig{
			TTL:          cfg.Auth.SessionTTL,
			CacheTimeout: cfg.Auth.CacheTimeout,
			StoreTimeout: cfg.Auth.StoreTimeout,
		},
		Logger:  logger,
		Metrics: cfg.Metrics,
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:        cfg.Users,
		Sessions:     sessions,
		Hasher:       bcryptadapter.New(cfg.Auth.BcryptCost),
		Logger:       logger,
		Metrics:      cfg.Metrics,
		StoreTimeout: cfg.Auth.StoreTimeout,
	})

	return AuthServices{Sessions: sessions, Auth: auth}
}
