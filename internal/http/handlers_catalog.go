package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/unievents/unievents-api/internal/domain/model"
)

// CatalogServiceInterface lists the permission catalog.
type CatalogServiceInterface interface {
	List(ctx context.Context) ([]model.CatalogCategory, error)
}

// NotificationServiceInterface lists a user's notifications.
type NotificationServiceInterface interface {
	List(ctx context.Context, userID string, limit int) ([]model.Notification, error)
}

// defaultNotificationLimit caps GET /notifications.
const defaultNotificationLimit = 50

// CatalogHandlers serves read-only reference data for signed-in users.
type CatalogHandlers struct {
	Catalog       CatalogServiceInterface
	Notifications NotificationServiceInterface
	Logger        *slog.Logger
}

// Permissions handles GET /permissions.
func (h *CatalogHandlers) Permissions(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.List(r.Context())
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if cats == nil {
		cats = []model.CatalogCategory{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// ListNotifications handles GET /notifications.
func (h *CatalogHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	sc, ok := SessionFromContext(r.Context())
	if !ok {
		WriteAppError(w, r, h.Logger, errNoSessionInContext)
		return
	}
	out, err := h.Notifications.List(r.Context(), sc.UserID, defaultNotificationLimit)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if out == nil {
		out = []model.Notification{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"notifications": out})
}
