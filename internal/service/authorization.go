package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	"github.com/unievents/unievents-api/internal/domain/model"
	apperrors "github.com/unievents/unievents-api/internal/errors"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

// Client-facing authorization messages.
const (
	MsgNotMember         = "You are not a member of this workspace."
	MsgForbidden         = "You do not have permission to perform this action."
	MsgRoleNotFound      = "Role not found"
	MsgMemberNotFound    = "Member not found"
	MsgRoleExists        = "A role with this name already exists in the workspace."
	MsgUnknownPermission = "One or more permissions do not exist."
	MsgOwnerRoleLocked   = "The OWNER role's permissions cannot be changed."
	MsgLastOwner         = "A workspace must keep at least one OWNER."
)

// AuthorizationServiceOptions groups dependencies for AuthorizationService.
type AuthorizationServiceOptions struct {
	Members      core.MemberRepository // Required: membership and permission lookups
	Roles        core.RoleRepository   // Required: role grants
	Logger       *slog.Logger          // Optional: structured logger
	Metrics      *metrics.Metrics      // Optional: Prometheus collectors
	StoreTimeout time.Duration         // Optional: bound on each operation's store calls, defaults to 3s
}

// AuthorizationService evaluates workspace permissions and administers roles.
// Decisions are never cached: a grant or revoke is visible to the next check.
type AuthorizationService struct {
	members core.MemberRepository
	roles   core.RoleRepository
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewAuthorizationService constructs a new AuthorizationService.
func NewAuthorizationService(opts AuthorizationServiceOptions) *AuthorizationService {
	if opts.Members == nil {
		panic("MemberRepository is required")
	}
	if opts.Roles == nil {
		panic("RoleRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		members: opts.Members,
		roles:   opts.Roles,
		logger:  logger.With("component", "authorization_service"),
		metrics: opts.Metrics,
		timeout: opts.StoreTimeout,
	}
}

// Can reports whether userID may use permission in workspaceID. It fails closed:
// malformed ids, missing membership and lookup errors all deny. A lookup error is
// also returned so callers can tell denial from an outage.
func (s *AuthorizationService) Can(ctx context.Context, userID, workspaceID, permission string) (bool, error) {
	permission = strings.ToUpper(strings.TrimSpace(permission))
	if permission == "" || uuid.Validate(userID) != nil || uuid.Validate(workspaceID) != nil {
		s.metrics.AuthzDecision(permission, false)
		return false, nil
	}

	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	ok, err := s.members.HasPermission(ctx, core.PermissionCheck{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Permission:  permission,
	})
	if err != nil {
		s.metrics.AuthzDecision(permission, false)
		return false, fmt.Errorf("check permission: %w", err)
	}
	s.metrics.AuthzDecision(permission, ok)
	return ok, nil
}

// Authorize is Can expressed as an error: forbidden when denied.
func (s *AuthorizationService) Authorize(ctx context.Context, userID, workspaceID, permission string) error {
	ok, err := s.Can(ctx, userID, workspaceID, permission)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden(MsgForbidden)
	}
	return nil
}

// Membership returns the caller's membership, or forbidden when there is none.
func (s *AuthorizationService) Membership(ctx context.Context, userID, workspaceID string) (*model.Member, error) {
	if uuid.Validate(userID) != nil || uuid.Validate(workspaceID) != nil {
		return nil, apperrors.Forbidden(MsgNotMember)
	}
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	m, err := s.members.Get(ctx, workspaceID, userID)
	if errors.Is(err, data.ErrMemberNotFound) {
		return nil, apperrors.Forbidden(MsgNotMember)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// ListRoles returns the workspace's roles with their grants.
func (s *AuthorizationService) ListRoles(ctx context.Context, workspaceID string) ([]model.RoleWithPermissions, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	roles, err := s.roles.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// CreateRole adds a role with an explicit grant set.
func (s *AuthorizationService) CreateRole(
	ctx context.Context,
	workspaceID string,
	req model.CreateRoleRequest,
) (*model.RoleWithPermissions, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	role, err := s.roles.Create(ctx, model.CreateRoleParams{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return nil, mapRoleError(err, "create role")
	}
	s.logger.InfoContext(ctx, "role created",
		"workspace_id", workspaceID,
		"role_id", role.ID,
		"permissions", len(role.Permissions),
	)
	return role, nil
}

// SetRolePermissions replaces a role's grants.
func (s *AuthorizationService) SetRolePermissions(ctx context.Context, workspaceID, roleID string, names []string) (*model.RoleWithPermissions, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	if _, err := s.editableRole(ctx, workspaceID, roleID); err != nil {
		return nil, err
	}
	if err := s.roles.SetPermissions(ctx, roleID, model.NormalizePermissionNames(names)); err != nil {
		return nil, mapRoleError(err, "set role permissions")
	}
	role, err := s.roles.GetByID(ctx, workspaceID, roleID)
	if err != nil {
		return nil, mapRoleError(err, "reload role")
	}
	return role, nil
}

// GrantPermission adds one grant to a role. Granting twice is a no-op.
func (s *AuthorizationService) GrantPermission(ctx context.Context, workspaceID, roleID, permission string) error {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	if _, err := s.editableRole(ctx, workspaceID, roleID); err != nil {
		return err
	}
	if err := s.roles.Grant(ctx, roleID, strings.ToUpper(strings.TrimSpace(permission))); err != nil {
		return mapRoleError(err, "grant permission")
	}
	return nil
}

// RevokePermission removes one grant from a role and reports whether it existed.
func (s *AuthorizationService) RevokePermission(ctx context.Context, workspaceID, roleID, permission string) (bool, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	if _, err := s.editableRole(ctx, workspaceID, roleID); err != nil {
		return false, err
	}
	removed, err := s.roles.Revoke(ctx, roleID, strings.ToUpper(strings.TrimSpace(permission)))
	if err != nil {
		return false, mapRoleError(err, "revoke permission")
	}
	return removed, nil
}

// ListMembers returns the workspace's members with their role names.
func (s *AuthorizationService) ListMembers(ctx context.Context, workspaceID string) ([]model.MemberWithRole, error) {
	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	members, err := s.members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// AssignRole moves a member to another role of the same workspace. The last
// OWNER cannot be moved away from the OWNER role; the repository enforces this
// atomically with the update.
func (s *AuthorizationService) AssignRole(ctx context.Context, workspaceID, userID string, req model.AssignRoleRequest) (*model.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if uuid.Validate(userID) != nil {
		return nil, apperrors.NotFound(MsgMemberNotFound)
	}
	if uuid.Validate(req.RoleID) != nil {
		return nil, apperrors.NotFound(MsgRoleNotFound)
	}

	ctx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	member, err := s.members.Get(ctx, workspaceID, userID)
	if errors.Is(err, data.ErrMemberNotFound) {
		return nil, apperrors.NotFound(MsgMemberNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}

	target, err := s.roles.GetByID(ctx, workspaceID, req.RoleID)
	if err != nil {
		return nil, mapRoleError(err, "get role")
	}
	if target.ID == member.RoleID {
		return member, nil
	}

	member.RoleID = target.ID
	if err := s.members.UpdateRole(ctx, *member); err != nil {
		switch {
		case errors.Is(err, data.ErrMemberNotFound):
			return nil, apperrors.NotFound(MsgMemberNotFound)
		case errors.Is(err, data.ErrLastOwner):
			return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgLastOwner)
		}
		return nil, mapRoleError(err, "assign role")
	}
	s.logger.InfoContext(ctx, "member role changed",
		"workspace_id", workspaceID,
		"user_id", userID,
		"role_id", target.ID,
	)
	return member, nil
}

// editableRole loads a role of the workspace and rejects changes to OWNER grants.
func (s *AuthorizationService) editableRole(ctx context.Context, workspaceID, roleID string) (*model.RoleWithPermissions, error) {
	if uuid.Validate(roleID) != nil {
		return nil, apperrors.NotFound(MsgRoleNotFound)
	}
	role, err := s.roles.GetByID(ctx, workspaceID, roleID)
	if err != nil {
		return nil, mapRoleError(err, "get role")
	}
	if role.Name == model.OwnerRoleName {
		return nil, apperrors.Forbidden(MsgOwnerRoleLocked)
	}
	return role, nil
}

func mapRoleError(err error, op string) error {
	switch {
	case errors.Is(err, data.ErrRoleNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, MsgRoleNotFound)
	case errors.Is(err, data.ErrRoleNameExists):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgRoleExists)
	case errors.Is(err, data.ErrPermissionNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, MsgUnknownPermission)
	case errors.Is(err, data.ErrWorkspaceNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Workspace not found")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
