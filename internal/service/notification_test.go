package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unievents/unievents-api/internal/domain/model"
	"github.com/unievents/unievents-api/internal/mocks"
)

func TestNotificationService_AsyncOutlivesCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	svc := NewNotificationService(NotificationServiceOptions{Repo: repo, Timeout: time.Second})

	release := make(chan struct{})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ model.CreateNotificationRequest) (*model.Notification, error) {
			<-release
			assert.NoError(t, ctx.Err())
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return &model.Notification{ID: uuid.NewString()}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	svc.NotifyAsync(ctx, model.CreateNotificationRequest{UserID: uuid.NewString(), Message: "hi"})
	cancel()
	close(release)

	require.NoError(t, svc.Close(context.Background()))
}

func TestNotificationService_CloseHonoursContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	svc := NewNotificationService(NotificationServiceOptions{Repo: repo, Timeout: time.Second})

	release := make(chan struct{})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, model.CreateNotificationRequest) (*model.Notification, error) {
			<-release
			return &model.Notification{}, nil
		})
	svc.NotifyAsync(context.Background(), model.CreateNotificationRequest{UserID: uuid.NewString(), Message: "hi"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, svc.Close(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Close(context.Background()))

	// Dropped after shutdown: no further repository call is expected.
	svc.NotifyAsync(context.Background(), model.CreateNotificationRequest{UserID: uuid.NewString(), Message: "late"})
}

func TestNotificationService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	svc := NewNotificationService(NotificationServiceOptions{Repo: repo})
	userID := uuid.NewString()

	repo.EXPECT().ListByUser(gomock.Any(), userID, 20).Return([]model.Notification{{ID: "n1"}}, nil)
	out, err := svc.List(context.Background(), userID, 20)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
