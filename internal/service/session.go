package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/observability/metrics"
	"github.com/unievents/unievents-api/internal/ports"
)

const (
	// DefaultSessionTTL is the lifetime of every issued session.
	DefaultSessionTTL = 7 * 24 * time.Hour

	defaultCacheTimeout = 250 * time.Millisecond
	defaultStoreTimeout = 3 * time.Second

	sessionTokenBytes = 32
)

// SessionConfig tunes session lifetime and dependency timeouts.
type SessionConfig struct {
	TTL          time.Duration
	CacheTimeout time.Duration
	StoreTimeout time.Duration
	// Clock overrides the time source. Defaults to data.RealTimeProvider.
	Clock data.TimeProvider
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.TTL <= 0 {
		c.TTL = DefaultSessionTTL
	}
	if c.CacheTimeout <= 0 {
		c.CacheTimeout = defaultCacheTimeout
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = defaultStoreTimeout
	}
	if c.Clock == nil {
		c.Clock = &data.RealTimeProvider{}
	}
	return c
}

// storeBound returns ctx limited to d, or to the default store timeout when d is unset.
func storeBound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Repo    core.SessionRepository // Required: durable session store
	Cache   ports.SessionCache     // Optional: best-effort snapshot cache
	Config  SessionConfig
	Logger  *slog.Logger     // Optional: structured logger
	Metrics *metrics.Metrics // Optional: Prometheus collectors
}

// SessionService issues, validates and invalidates sessions. The durable store
// is authoritative; the cache only accelerates Validate and may be absent or down.
type SessionService struct {
	repo    core.SessionRepository
	cache   ports.SessionCache
	cfg     SessionConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	flight  singleflight.Group
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Repo == nil {
		panic("SessionRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		repo:    opts.Repo,
		cache:   opts.Cache,
		cfg:     opts.Config.withDefaults(),
		logger:  logger.With("component", "session_service"),
		metrics: opts.Metrics,
	}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration { return s.cfg.TTL }

// ClientMeta identifies the client a session was issued to.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Create issues a brand-new session for user. Existing sessions of the same user
// stay valid. A cache write failure is logged and never fails the call.
func (s *SessionService) Create(ctx context.Context, user domainauth.User, meta ClientMeta) (*domainauth.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := s.cfg.Clock.Now()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	if err := s.repo.Create(storeCtx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.cacheSet(ctx, token, domainauth.NewSessionContext(sess, user), s.cfg.TTL)
	return &sess, nil
}

// Validate resolves token to the identity it was issued to. Unknown, revoked and
// expired tokens yield domainauth.ErrSessionInvalid; any other error means the
// durable store could not answer.
func (s *SessionService) Validate(ctx context.Context, token string) (domainauth.SessionContext, error) {
	if token == "" {
		return domainauth.SessionContext{}, domainauth.ErrSessionInvalid
	}
	now := s.cfg.Clock.Now()

	if snap, ok := s.cacheGet(ctx, token); ok {
		if snap.ValidAt(now) {
			s.metrics.SessionValidation(metrics.SourceCache, metrics.ResultSuccess)
			return snap, nil
		}
		// Sessions never change, so an expired snapshot means an expired session.
		s.cacheDelete(ctx, token)
		s.metrics.SessionValidation(metrics.SourceCache, metrics.ResultInvalid)
		return domainauth.SessionContext{}, domainauth.ErrSessionInvalid
	}

	v, err, _ := s.flight.Do(token, func() (any, error) {
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
		defer cancel()
		return s.repo.GetContextByToken(storeCtx, token)
	})
	if errors.Is(err, data.ErrSessionNotFound) {
		s.metrics.SessionValidation(metrics.SourceStore, metrics.ResultInvalid)
		return domainauth.SessionContext{}, domainauth.ErrSessionInvalid
	}
	if err != nil {
		s.metrics.SessionValidation(metrics.SourceStore, metrics.ResultError)
		return domainauth.SessionContext{}, fmt.Errorf("lookup session: %w", err)
	}

	sc := *(v.(*domainauth.SessionContext))
	if !sc.ValidAt(now) {
		s.metrics.SessionValidation(metrics.SourceStore, metrics.ResultInvalid)
		return domainauth.SessionContext{}, domainauth.ErrSessionInvalid
	}
	s.metrics.SessionValidation(metrics.SourceStore, metrics.ResultSuccess)
	s.cacheSet(ctx, token, sc, sc.ExpiresAt.Sub(now))
	return sc, nil
}

// Invalidate removes the session from the cache and the durable store. Unknown
// tokens are not an error.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.cacheDelete(ctx, token)

	storeCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	if _, err := s.repo.DeleteByToken(storeCtx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// A Validate that read the row before the delete may have repopulated the cache.
	s.flight.Forget(token)
	s.cacheDelete(ctx, token)
	return nil
}

// PurgeExpired deletes durable sessions that expired at or before now.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.cfg.Clock.Now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	s.logger.InfoContext(ctx, "purged expired sessions", "count", n)
	return n, nil
}

func (s *SessionService) cacheGet(ctx context.Context, token string) (domainauth.SessionContext, bool) {
	if s.cache == nil {
		return domainauth.SessionContext{}, false
	}
	cctx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout)
	defer cancel()
	snap, err := s.cache.Get(cctx, token)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.degraded(ctx, "get", err)
		}
		return domainauth.SessionContext{}, false
	}
	return snap, true
}

func (s *SessionService) cacheSet(ctx context.Context, token string, snap domainauth.SessionContext, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout)
	defer cancel()
	if err := s.cache.Set(cctx, token, snap, ttl); err != nil {
		s.degraded(ctx, "set", err)
	}
}

func (s *SessionService) cacheDelete(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout)
	defer cancel()
	if err := s.cache.Delete(cctx, token); err != nil {
		s.degraded(ctx, "delete", err)
	}
}

func (s *SessionService) degraded(ctx context.Context, op string, err error) {
	s.metrics.CacheDegraded(op, err)
	s.logger.WarnContext(ctx, "session cache degraded", "op", op, "error", err)
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// TokenFingerprint returns a short, non-reversible prefix safe for logs.
func TokenFingerprint(token string) string {
	if len(token) <= 8 {
		return "…"
	}
	return token[:8] + "…"
}
