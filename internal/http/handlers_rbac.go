package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/unievents/unievents-api/internal/domain/model"
)

// AuthorizationServiceInterface is the role administration surface plus Authorizer.
type AuthorizationServiceInterface interface {
	Authorizer
	ListRoles(ctx context.Context, workspaceID string) ([]model.RoleWithPermissions, error)
	CreateRole(ctx context.Context, workspaceID string, req model.CreateRoleRequest) (*model.RoleWithPermissions, error)
	SetRolePermissions(ctx context.Context, workspaceID, roleID string, names []string) (*model.RoleWithPermissions, error)
	GrantPermission(ctx context.Context, workspaceID, roleID, permission string) error
	RevokePermission(ctx context.Context, workspaceID, roleID, permission string) (bool, error)
	ListMembers(ctx context.Context, workspaceID string) ([]model.MemberWithRole, error)
	AssignRole(ctx context.Context, workspaceID, userID string, req model.AssignRoleRequest) (*model.Member, error)
}

// RBACHandlers serves workspace roles, grants and memberships. Access checks
// are applied by middleware at registration time.
type RBACHandlers struct {
	Svc    AuthorizationServiceInterface
	Logger *slog.Logger
}

// ListRoles handles GET /workspaces/{workspaceID}/roles.
func (h *RBACHandlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Svc.ListRoles(r.Context(), r.PathValue("workspaceID"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if roles == nil {
		roles = []model.RoleWithPermissions{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

// CreateRole handles POST /workspaces/{workspaceID}/roles.
func (h *RBACHandlers) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	role, err := h.Svc.CreateRole(r.Context(), r.PathValue("workspaceID"), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"role": role})
}

// SetRolePermissions handles PUT /workspaces/{workspaceID}/roles/{roleID}/permissions.
func (h *RBACHandlers) SetRolePermissions(w http.ResponseWriter, r *http.Request) {
	var req model.SetRolePermissionsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	role, err := h.Svc.SetRolePermissions(r.Context(), r.PathValue("workspaceID"), r.PathValue("roleID"), req.Permissions)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"role": role})
}

// GrantPermission handles POST /workspaces/{workspaceID}/roles/{roleID}/permissions/{permission}.
func (h *RBACHandlers) GrantPermission(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.GrantPermission(r.Context(), r.PathValue("workspaceID"), r.PathValue("roleID"), r.PathValue("permission"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RevokePermission handles DELETE /workspaces/{workspaceID}/roles/{roleID}/permissions/{permission}.
func (h *RBACHandlers) RevokePermission(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Svc.RevokePermission(r.Context(), r.PathValue("workspaceID"), r.PathValue("roleID"), r.PathValue("permission"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// ListMembers handles GET /workspaces/{workspaceID}/members.
func (h *RBACHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Svc.ListMembers(r.Context(), r.PathValue("workspaceID"))
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if members == nil {
		members = []model.MemberWithRole{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}

// AssignRole handles PUT /workspaces/{workspaceID}/members/{userID}/role.
func (h *RBACHandlers) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req model.AssignRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.Svc.AssignRole(r.Context(), r.PathValue("workspaceID"), r.PathValue("userID"), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"member": m})
}

type canResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

// Can reports whether the caller holds a permission in the workspace.
// Non-members get allowed=false rather than an error.
// GET /workspaces/{workspaceID}/can/{permission}.
func (h *RBACHandlers) Can(w http.ResponseWriter, r *http.Request) {
	sc, ok := SessionFromContext(r.Context())
	if !ok {
		WriteAppError(w, r, h.Logger, errNoSessionInContext)
		return
	}
	perm := r.PathValue("permission")
	allowed, err := h.Svc.Can(r.Context(), sc.UserID, r.PathValue("workspaceID"), perm)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, canResponse{Permission: perm, Allowed: allowed})
}
