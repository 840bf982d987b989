package data

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/internal/core"
)

var userRowColumns = []string{
	"id", "university_id", "name", "email", "password_hash", "is_admin", "last_active_workspace_id", "created_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewUserRepoWithTimeProvider(db, NewFixedTimeProvider(now))

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("2021001", "Ada", "ada@uni.edu", "hash", false, now).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "2021001", "Ada", "ada@uni.edu", "hash", false, nil, now))

	u, err := repo.Create(context.Background(), core.CreateUserParams{
		UniversityID: "2021001", Name: "Ada", Email: "ada@uni.edu", PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Nil(t, u.LastActiveWorkspaceID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
	}{
		{name: "university id taken", constraint: "users_university_id_key"},
		{name: "email taken", constraint: "users_email_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepo(db)

			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			u, err := repo.Create(context.Background(), core.CreateUserParams{UniversityID: "2021001"})
			require.ErrorIs(t, err, ErrUserExists)
			assert.Nil(t, u)
		})
	}
}

func TestUserRepo_GetByUniversityID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE university_id").
		WithArgs("2021001").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "2021001", "Ada", "", "hash", true, "w1", now))

	u, err := repo.GetByUniversityID(context.Background(), "2021001")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	require.NotNil(t, u.LastActiveWorkspaceID)
	assert.Equal(t, "w1", *u.LastActiveWorkspaceID)

	mock.ExpectQuery("FROM users WHERE university_id").
		WithArgs("9999999").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByUniversityID(context.Background(), "9999999")
	assert.ErrorIs(t, err, ErrUserNotFound)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))
	_, err = repo.GetByID(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
