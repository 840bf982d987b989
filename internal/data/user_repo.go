package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unievents/unievents-api/internal/core"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	apperrors "github.com/unievents/unievents-api/internal/errors"
)

const userColumns = `id, university_id, name, COALESCE(email, ''), password_hash, is_admin,
	last_active_workspace_id, created_at`

const (
	userInsertQuery = `
		INSERT INTO users (university_id, name, email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $6)
		RETURNING ` + userColumns

	userGetByIDQuery           = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	userGetByUniversityIDQuery = `SELECT ` + userColumns + ` FROM users WHERE university_id = $1`
)

// UserRepo stores user credentials in Postgres.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo instance with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom TimeProvider (useful for testing).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a user. Uniqueness of email and university id is enforced by the database,
// so two concurrent registrations for the same identity cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, p core.CreateUserParams) (*domainauth.User, error) {
	row := r.DB.QueryRowContext(ctx, userInsertQuery,
		p.UniversityID, p.Name, p.Email, p.PasswordHash, p.IsAdmin, r.timeProvider.Now())
	u, err := scanUser(row)
	if err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID returns the user with the given id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domainauth.User, error) {
	return r.getOne(ctx, userGetByIDQuery, id)
}

// GetByUniversityID returns the user registered under universityID.
func (r *UserRepo) GetByUniversityID(ctx context.Context, universityID string) (*domainauth.User, error) {
	return r.getOne(ctx, userGetByUniversityIDQuery, universityID)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (*domainauth.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domainauth.User, error) {
	var (
		u          domainauth.User
		lastActive sql.NullString
	)
	if err := row.Scan(
		&u.ID, &u.UniversityID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &lastActive, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lastActive.Valid {
		u.LastActiveWorkspaceID = &lastActive.String
	}
	return &u, nil
}
