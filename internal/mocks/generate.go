// Package mocks provides gomock implementations of the internal/core repository interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockWorkspaceRepository(ctrl)
//	repo.EXPECT().CreateWithOwner(gomock.Any(), gomock.Any()).Return(ws, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/unievents/unievents-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_repository_mock.go github.com/unievents/unievents-api/internal/core SessionRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=workspace_repository_mock.go github.com/unievents/unievents-api/internal/core WorkspaceRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_repository_mock.go github.com/unievents/unievents-api/internal/core RoleRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=member_repository_mock.go github.com/unievents/unievents-api/internal/core MemberRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=permission_repository_mock.go github.com/unievents/unievents-api/internal/core PermissionRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_repository_mock.go github.com/unievents/unievents-api/internal/core NotificationRepository
