package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

const defaultNotifyTimeout = 5 * time.Second

// ErrNotifierClosed is returned by Notify after Close.
var ErrNotifierClosed = errors.New("notifier closed")

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Repo    core.NotificationRepository // Required: notification store
	Timeout time.Duration               // Optional: per-delivery bound, default 5s
	Logger  *slog.Logger                // Optional: structured logger
	Metrics *metrics.Metrics            // Optional: Prometheus collectors
}

// NotificationService stores user notifications. Deliveries started with
// NotifyAsync are fire-and-forget; Close waits for the ones still in flight.
type NotificationService struct {
	repo    core.NotificationRepository
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	if opts.Repo == nil {
		panic("NotificationRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &NotificationService{
		repo:    opts.Repo,
		timeout: timeout,
		logger:  logger.With("component", "notification_service"),
		metrics: opts.Metrics,
	}
}

// Notify stores a notification synchronously.
func (s *NotificationService) Notify(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.repo.Create(ctx, req)
	if err != nil {
		s.metrics.Notification(metrics.ResultError)
		return nil, fmt.Errorf("create notification: %w", err)
	}
	s.metrics.Notification(metrics.ResultSuccess)
	return n, nil
}

// NotifyAsync stores a notification in the background. The delivery outlives
// the caller's cancellation but not the configured timeout. Failures are logged
// and dropped.
func (s *NotificationService) NotifyAsync(ctx context.Context, req model.CreateNotificationRequest) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "notification dropped after shutdown", "user_id", req.UserID)
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.inflight.Done()
		if _, err := s.Notify(bg, req); err != nil {
			s.logger.WarnContext(bg, "notification delivery failed", "user_id", req.UserID, "error", err)
		}
	}()
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	out, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Close stops accepting async deliveries and waits for in-flight ones or ctx.
func (s *NotificationService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for notifications: %w", ctx.Err())
	}
}
