package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/unievents/unievents-api/internal/domain/model"
)

// WorkspaceServiceInterface defines the workspace operations used by the handlers.
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, ownerUserID string, req model.CreateWorkspaceRequest) (*model.ProvisionedWorkspace, error)
	ListForUser(ctx context.Context, userID string) ([]model.WorkspaceMembership, error)
}

// WorkspaceHandlers serves workspace provisioning and listing.
type WorkspaceHandlers struct {
	Svc    WorkspaceServiceInterface
	Logger *slog.Logger
}

type createdWorkspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type createWorkspaceResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Workspace createdWorkspace `json:"workspace"`
}

// Create provisions a workspace owned by the caller.
// POST /workspace/create.
func (h *WorkspaceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sc, ok := SessionFromContext(r.Context())
	if !ok {
		WriteAppError(w, r, h.Logger, errNoSessionInContext)
		return
	}

	var req model.CreateWorkspaceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ws, err := h.Svc.Create(r.Context(), sc.UserID, req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}

	req.Normalize()
	WriteJSON(w, http.StatusCreated, createWorkspaceResponse{
		Success: true,
		Message: "Workspace created successfully",
		Workspace: createdWorkspace{
			ID:   ws.Workspace.ID,
			Name: ws.Workspace.Name,
			Slug: req.Slug,
		},
	})
}

// List returns the caller's workspaces with their role in each.
// GET /workspaces.
func (h *WorkspaceHandlers) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := SessionFromContext(r.Context())
	if !ok {
		WriteAppError(w, r, h.Logger, errNoSessionInContext)
		return
	}

	out, err := h.Svc.ListForUser(r.Context(), sc.UserID)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if out == nil {
		out = []model.WorkspaceMembership{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"workspaces": out})
}
