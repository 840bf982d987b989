package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
)

func TestSessionRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := domainauth.Session{
		ID: "s1", Token: "tok", UserID: "u1", IPAddress: "10.0.0.1", UserAgent: "curl",
		CreatedAt: created, ExpiresAt: created.Add(7 * 24 * time.Hour),
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("s1", "tok", "u1", "10.0.0.1", "curl", sess.CreatedAt, sess.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), sess))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_GetContextByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "university_id", "name", "email", "is_admin", "created_at", "expires_at"}

	mock.ExpectQuery("FROM sessions s").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("s1", "u1", "2021001", "Ada", "ada@uni.edu", false, created, created.Add(time.Hour)))

	sc, err := repo.GetContextByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "s1", sc.SessionID)
	assert.Equal(t, "u1", sc.UserID)
	assert.Equal(t, created.Add(time.Hour), sc.ExpiresAt)

	mock.ExpectQuery("FROM sessions s").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetContextByToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	cutoff := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM sessions WHERE token").WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM sessions WHERE token").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM sessions WHERE expires_at").WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 3))

	ok, err := repo.DeleteByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByToken(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
