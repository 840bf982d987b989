package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/unievents/unievents-api/config"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

// ExpiredSessionPurger deletes durable sessions past their expiry.
type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionReaperOptions groups dependencies for SessionReaper.
type SessionReaperOptions struct {
	Sessions ExpiredSessionPurger       // Required: usually *SessionService
	Config   config.SessionReaperConfig // Required: tick interval
	Logger   *slog.Logger               // Optional: structured logger
	Metrics  *metrics.Metrics           // Optional: Prometheus collectors
}

// SessionReaper periodically removes expired sessions. Expired rows are already
// rejected by Validate, so the reaper only bounds table growth.
type SessionReaper struct {
	sessions ExpiredSessionPurger
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewSessionReaper constructs a new SessionReaper.
func NewSessionReaper(opts SessionReaperOptions) (*SessionReaper, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session purger is required")
	}
	opts.Config.Sanitize()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionReaper{
		sessions: opts.Sessions,
		interval: opts.Config.Interval,
		logger:   logger.With("component", "session_reaper"),
		metrics:  opts.Metrics,
	}, nil
}

// Run purges once after a short jitter, then at every interval until ctx is
// cancelled. Returns nil on graceful shutdown.
func (r *SessionReaper) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	// Multiple replicas started together should not purge in lockstep.
	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single purge. Failures are logged and counted; the next
// tick retries.
func (r *SessionReaper) RunOnce(ctx context.Context) int64 {
	if ctx.Err() != nil {
		return 0
	}
	start := time.Now()
	n, err := r.sessions.PurgeExpired(ctx)
	r.metrics.SessionsPurged(n, suppressContextCancellation(err))
	if err != nil {
		if isContextCancellation(err) {
			return n
		}
		r.logger.ErrorContext(ctx, "session purge failed", "error", err)
		return n
	}
	r.logger.DebugContext(ctx, "session purge finished", "deleted", n, "duration_ms", time.Since(start).Milliseconds())
	return n
}

// waitWithJitter sleeps for a random delay up to 10% of the interval.
func (r *SessionReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
