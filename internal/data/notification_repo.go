package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/unievents/unievents-api/internal/domain/model"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200

	notificationColumns = `id, user_id, workspace_id, message, is_read, created_at`

	notificationInsertQuery = `
		INSERT INTO notifications (user_id, workspace_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	notificationListByUserQuery = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`
)

// NotificationRepo stores user notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a NotificationRepo with a custom TimeProvider.
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

// Create stores a notification for a user.
func (r *NotificationRepo) Create(
	ctx context.Context,
	req model.CreateNotificationRequest,
) (*model.Notification, error) {
	n, err := scanNotification(r.DB.QueryRowContext(ctx, notificationInsertQuery,
		req.UserID, req.WorkspaceID, req.Message, r.timeProvider.Now()))
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	rows, err := r.DB.QueryContext(ctx, notificationListByUserQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.Notification, 0)
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan notification: %w", scanErr)
		}
		out = append(out, *n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func scanNotification(row rowScanner) (*model.Notification, error) {
	var (
		n           model.Notification
		workspaceID sql.NullString
	)
	if err := row.Scan(&n.ID, &n.UserID, &workspaceID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	if workspaceID.Valid {
		n.WorkspaceID = &workspaceID.String
	}
	return &n, nil
}
