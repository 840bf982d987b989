package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with email or university id already exists")

	// Session repository sentinels.
	ErrSessionNotFound = errors.New("session not found")

	// Workspace repository sentinels.
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrWorkspaceNameExists = errors.New("workspace name already exists")

	// Role and membership sentinels.
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleNameExists     = errors.New("role name already exists in workspace")
	ErrMemberNotFound     = errors.New("member not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrLastOwner          = errors.New("workspace must keep at least one owner")
)
