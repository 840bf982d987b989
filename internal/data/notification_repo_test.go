package data

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/internal/domain/model"
)

var notificationRowColumns = []string{"id", "user_id", "workspace_id", "message", "is_read", "created_at"}

func TestNotificationRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewNotificationRepoWithTimeProvider(db, NewFixedTimeProvider(now))
	ws := "w1"
	msg := model.WelcomeMessage("Acme")

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs("u1", "w1", msg, now).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).AddRow("n1", "u1", "w1", msg, false, now))

	n, err := repo.Create(context.Background(), model.CreateNotificationRequest{UserID: "u1", WorkspaceID: &ws, Message: msg})
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	require.NotNil(t, n.WorkspaceID)
	assert.Equal(t, "w1", *n.WorkspaceID)
	assert.False(t, n.Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepo_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM notifications").
		WithArgs("u1", maxNotificationLimit).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).
			AddRow("n2", "u1", nil, "second", false, now).
			AddRow("n1", "u1", "w1", "first", true, now.Add(-time.Minute)))

	out, err := repo.ListByUser(context.Background(), "u1", 10_000)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[0].WorkspaceID)
	assert.True(t, out[1].Read)

	mock.ExpectQuery("FROM notifications").
		WithArgs("u2", defaultNotificationLimit).
		WillReturnRows(sqlmock.NewRows(notificationRowColumns))
	out, err = repo.ListByUser(context.Background(), "u2", 0)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	assert.NoError(t, mock.ExpectationsWereMet())
}
