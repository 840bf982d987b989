package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
)

const (
	sessionInsertQuery = `
		INSERT INTO sessions (id, token, user_id, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	sessionContextByTokenQuery = `
		SELECT s.id, u.id, u.university_id, u.name, COALESCE(u.email, ''), u.is_admin,
		       s.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`

	sessionDeleteByTokenQuery = `DELETE FROM sessions WHERE token = $1`
	sessionDeleteExpiredQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

// SessionRepo is the durable session store.
type SessionRepo struct {
	DB *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// Create persists a new session.
func (r *SessionRepo) Create(ctx context.Context, s domainauth.Session) error {
	if _, err := r.DB.ExecContext(ctx, sessionInsertQuery,
		s.ID, s.Token, s.UserID, s.IPAddress, s.UserAgent, s.CreatedAt, s.ExpiresAt,
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetContextByToken returns the session and user fields for token, expired or not.
// Expiry is judged by the caller against its own clock.
func (r *SessionRepo) GetContextByToken(ctx context.Context, token string) (*domainauth.SessionContext, error) {
	var sc domainauth.SessionContext
	err := r.DB.QueryRowContext(ctx, sessionContextByTokenQuery, token).Scan(
		&sc.SessionID, &sc.UserID, &sc.UniversityID, &sc.Name, &sc.Email, &sc.IsAdmin,
		&sc.CreatedAt, &sc.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sc, nil
}

// DeleteByToken removes a session and reports whether one existed.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, sessionDeleteByTokenQuery, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired purges sessions whose expiry is at or before the cutoff.
func (r *SessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, sessionDeleteExpiredQuery, before)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
