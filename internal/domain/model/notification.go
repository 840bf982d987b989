//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// Notification is a message addressed to a single user.
type Notification struct {
	ID          string    `json:"id"                    db:"id"`
	UserID      string    `json:"userId"                db:"user_id"`
	WorkspaceID *string   `json:"workspaceId,omitempty" db:"workspace_id"`
	Message     string    `json:"message"               db:"message"`
	Read        bool      `json:"read"                  db:"is_read"`
	CreatedAt   time.Time `json:"createdAt"             db:"created_at"`
}

// CreateNotificationRequest describes a notification to deliver.
type CreateNotificationRequest struct {
	UserID      string
	WorkspaceID *string
	Message     string
}
