package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

// Client-facing workspace messages.
const (
	MsgWorkspaceExists = "Workspace name already exists. Please choose a different name."
	MsgNoSession       = "Unauthorized - No valid session found"
	MsgSessionExpired  = "Session expired"
)

// WorkspaceServiceOptions groups dependencies for WorkspaceService.
type WorkspaceServiceOptions struct {
	Repo         core.WorkspaceRepository // Required: workspace store
	Notifier     *NotificationService     // Optional: welcome notifications
	Logger       *slog.Logger             // Optional: structured logger
	StoreTimeout time.Duration            // Optional: bound on each store call, defaults to 3s
}

// WorkspaceService provisions workspaces.
type WorkspaceService struct {
	repo     core.WorkspaceRepository
	notifier *NotificationService
	logger   *slog.Logger
	timeout  time.Duration
}

// NewWorkspaceService constructs a new WorkspaceService.
func NewWorkspaceService(opts WorkspaceServiceOptions) *WorkspaceService {
	if opts.Repo == nil {
		panic("WorkspaceRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceService{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		logger:   logger.With("component", "workspace_service"),
		timeout:  opts.StoreTimeout,
	}
}

// Create provisions a workspace with its OWNER role and the owner's membership in
// one transaction. The name is globally unique; concurrent creators of the same
// name are arbitrated by the database and the loser gets a conflict. The welcome
// notification is best effort and never undoes the workspace.
func (s *WorkspaceService) Create(
	ctx context.Context,
	ownerUserID string,
	req model.CreateWorkspaceRequest,
) (*model.ProvisionedWorkspace, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := storeBound(ctx, s.timeout)
	ws, err := s.repo.CreateWithOwner(storeCtx, model.CreateWorkspaceParams{
		Name:        req.Name,
		OwnerUserID: ownerUserID,
	})
	cancel()
	switch {
	case errors.Is(err, data.ErrWorkspaceNameExists):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgWorkspaceExists)
	case errors.Is(err, data.ErrUserNotFound):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, MsgNoSession)
	case err != nil:
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	s.logger.InfoContext(ctx, "workspace created",
		"workspace_id", ws.Workspace.ID,
		"owner_id", ownerUserID,
		"owner_role_id", ws.OwnerRole.ID,
	)

	if s.notifier != nil {
		wsID := ws.Workspace.ID
		s.notifier.NotifyAsync(ctx, model.CreateNotificationRequest{
			UserID:      ownerUserID,
			WorkspaceID: &wsID,
			Message:     model.WelcomeMessage(ws.Workspace.Name),
		})
	}
	return ws, nil
}

// ListForUser returns the workspaces userID belongs to.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceMembership, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	out, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return out, nil
}

// Get returns one workspace.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*model.Workspace, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	ws, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, data.ErrWorkspaceNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Workspace not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return ws, nil
}
