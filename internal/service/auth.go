package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	apperrors "github.com/unievents/unievents-api/internal/errors"
	"github.com/unievents/unievents-api/internal/observability/metrics"
	"github.com/unievents/unievents-api/internal/ports"
	"github.com/unievents/unievents-api/internal/validation"
)

// Client-facing messages shared with the HTTP layer.
const (
	MsgInvalidInput       = "Invalid input data"
	MsgInvalidCredentials = "Invalid credentials"
	MsgRegisterRequired   = "Email, Password, and University ID are required"
	MsgUserExists         = "User with email or universityId already exists"
)

const (
	minUniversityIDLen = 7
	minPasswordLen     = 6
	maxNameLen         = 100
	maxEmailLen        = 254
	maxPasswordLen     = 72 // bcrypt ignores bytes past 72
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users        core.UserRepository  // Required: credential store
	Sessions     *SessionService      // Required: session manager
	Hasher       ports.PasswordHasher // Required: one-way credential hashing
	Logger       *slog.Logger         // Optional: structured logger
	Metrics      *metrics.Metrics     // Optional: Prometheus collectors
	StoreTimeout time.Duration        // Optional: bound on each store call, defaults to 3s
}

// AuthService registers users and turns credentials into sessions.
type AuthService struct {
	users     core.UserRepository
	sessions  *SessionService
	hasher    ports.PasswordHasher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	dummyHash string
	timeout   time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Sessions == nil {
		panic("SessionService is required")
	}
	if opts.Hasher == nil {
		panic("PasswordHasher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Compared against when the user does not exist so both failure paths cost one hash.
	dummy, err := opts.Hasher.Hash("unievents-dummy-secret")
	if err != nil {
		panic(fmt.Sprintf("hash dummy secret: %v", err))
	}

	return &AuthService{
		users:     opts.Users,
		sessions:  opts.Sessions,
		hasher:    opts.Hasher,
		logger:    logger.With("component", "auth_service"),
		metrics:   opts.Metrics,
		dummyHash: dummy,
		timeout:   opts.StoreTimeout,
	}
}

// RegisterInput is the registration request.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UniversityID string `json:"universityId"`
}

// Normalize trims identity fields and lowercases the email. The password is left untouched.
func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.UniversityID = strings.TrimSpace(in.UniversityID)
}

// Validate checks required fields first, then formats.
func (in *RegisterInput) Validate() error {
	if in.Email == "" || in.Password == "" || in.UniversityID == "" {
		return apperrors.Validation(MsgRegisterRequired)
	}
	return validation.New().
		Validate("universityId", in.UniversityID,
			validation.MinLength("ID is required", minUniversityIDLen),
			validation.Digits("Id must be a numeric value")).
		Validate("email", in.Email, validation.MaxLength("Email", maxEmailLen), validation.Email("Email")).
		Validate("password", in.Password,
			validation.MinLength("Password must be at least 6 characters", minPasswordLen),
			validation.MaxLength("Password", maxPasswordLen)).
		Validate("name", in.Name, validation.MaxLength("Name", maxNameLen)).
		Err(MsgInvalidInput)
}

// Register creates a user with a hashed credential. A duplicate email or
// university id is a conflict and leaves the existing user untouched.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domainauth.User, error) {
	user, err := s.CreateUser(ctx, in, false)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// LoginInput is the login request.
type LoginInput struct {
	UniversityID string `json:"universityId"`
	Password     string `json:"password"`
}

// Validate reports every malformed field at once.
func (in *LoginInput) Validate() error {
	return validation.New().
		Validate("universityId", in.UniversityID,
			validation.MinLength("ID is required", minUniversityIDLen),
			validation.Digits("Id must be a numeric value")).
		Validate("password", in.Password,
			validation.MinLength("Password must be at least 6 characters", minPasswordLen)).
		Err(MsgInvalidInput)
}

// LoginResult is a successful login.
type LoginResult struct {
	User    domainauth.User
	Session domainauth.Session
}

// FindByCredentials returns the user whose university id and secret match.
// Unknown users and wrong secrets both yield domainauth.ErrInvalidCredentials.
func (s *AuthService) FindByCredentials(ctx context.Context, universityID, secret string) (*domainauth.User, error) {
	lookupCtx, cancel := storeBound(ctx, s.timeout)
	user, err := s.users.GetByUniversityID(lookupCtx, universityID)
	cancel()
	if errors.Is(err, data.ErrUserNotFound) {
		_ = s.hasher.Compare(s.dummyHash, secret)
		return nil, domainauth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, secret); err != nil {
		return nil, domainauth.ErrInvalidCredentials
	}
	return user, nil
}

// Login validates input, checks credentials and issues a new session. Each
// login creates a fresh session; earlier sessions of the user stay valid.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta ClientMeta) (*LoginResult, error) {
	if err := in.Validate(); err != nil {
		s.metrics.LoginAttempt(metrics.ResultInvalid)
		return nil, err
	}

	user, err := s.FindByCredentials(ctx, in.UniversityID, in.Password)
	if errors.Is(err, domainauth.ErrInvalidCredentials) {
		s.metrics.LoginAttempt(metrics.ResultDenied)
		s.logger.InfoContext(ctx, "login rejected", "ip", meta.IPAddress)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, MsgInvalidCredentials)
	}
	if err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, *user, meta)
	if err != nil {
		s.metrics.LoginAttempt(metrics.ResultError)
		return nil, fmt.Errorf("login: %w", err)
	}

	s.metrics.LoginAttempt(metrics.ResultSuccess)
	s.logger.InfoContext(ctx, "login succeeded",
		"user_id", user.ID,
		"session_id", sess.ID,
		"token", TokenFingerprint(sess.Token),
	)
	return &LoginResult{User: *user, Session: *sess}, nil
}

// Logout invalidates the session behind token. Missing or unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Validate resolves a session token; see SessionService.Validate.
func (s *AuthService) Validate(ctx context.Context, token string) (domainauth.SessionContext, error) {
	return s.sessions.Validate(ctx, token)
}

// CreateUser provisions an account outside the public registration flow, optionally as admin.
func (s *AuthService) CreateUser(ctx context.Context, in RegisterInput, isAdmin bool) (*domainauth.User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	storeCtx, cancel := storeBound(ctx, s.timeout)
	defer cancel()
	user, err := s.users.Create(storeCtx, core.CreateUserParams{
		UniversityID: in.UniversityID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	})
	if errors.Is(err, data.ErrUserExists) {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgUserExists)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
