package auth

// Package auth contains domain-level types for credentials and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// ErrSessionInvalid is the normal outcome for a token that is unknown, revoked, or expired.
var ErrSessionInvalid = errors.New("session invalid")

// ErrInvalidCredentials is returned when a login attempt does not match a stored user.
// Unknown users and wrong passwords are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID                    string    `json:"id" db:"id"`
	UniversityID          string    `json:"universityId" db:"university_id"`
	Name                  string    `json:"name" db:"name"`
	Email                 string    `json:"email" db:"email"`
	PasswordHash          string    `json:"-" db:"password_hash"`
	IsAdmin               bool      `json:"isAdmin" db:"is_admin"`
	LastActiveWorkspaceID *string   `json:"lastActiveWorkspaceId,omitempty" db:"last_active_workspace_id"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
}

// Session is the durable record behind an opaque session token.
type Session struct {
	ID        string    `json:"id" db:"id"`
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"userId" db:"user_id"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// ValidAt reports whether the session is still usable at now. Expiry is exclusive.
func (s Session) ValidAt(now time.Time) bool { return now.Before(s.ExpiresAt) }

// SessionContext is the authenticated identity resolved from a token.
// It is also the payload stored in the session cache.
type SessionContext struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	UniversityID string    `json:"universityId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ValidAt reports whether the context is still usable at now.
func (c SessionContext) ValidAt(now time.Time) bool { return now.Before(c.ExpiresAt) }

// NewSessionContext combines a session with the user it belongs to.
func NewSessionContext(sess Session, user User) SessionContext {
	return SessionContext{
		SessionID:    sess.ID,
		UserID:       user.ID,
		UniversityID: user.UniversityID,
		Name:         user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    sess.CreatedAt,
		ExpiresAt:    sess.ExpiresAt,
	}
}

// UserInfo is the client-readable user snapshot written to the user_info cookie.
// It is advisory only and must never be used for authorization.
type UserInfo struct {
	UserID       string `json:"userId"`
	UniversityID string `json:"universityId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
}

// NewUserInfo projects the public fields of a user.
func NewUserInfo(u User) UserInfo {
	return UserInfo{
		UserID:       u.ID,
		UniversityID: u.UniversityID,
		Name:         u.Name,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
	}
}

// SessionInfo is the client-readable session snapshot written to the session_info cookie.
// The token is intentionally absent; it only travels in the httpOnly cookie.
type SessionInfo struct {
	SessionID string    `json:"sessionId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewSessionInfo projects the public fields of a session.
func NewSessionInfo(s Session) SessionInfo {
	return SessionInfo{
		SessionID: s.ID,
		IPAddress: s.IPAddress,
		UserAgent: s.UserAgent,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
