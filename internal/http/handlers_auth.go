package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, in service.RegisterInput) (*domainauth.User, error)
	Login(ctx context.Context, in service.LoginInput, meta service.ClientMeta) (*service.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (domainauth.SessionContext, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies SessionCookies
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    domainauth.UserInfo `json:"user"`
}

// Login exchanges university credentials for a session and its cookies.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	res, err := h.Svc.Login(r.Context(), in, ClientMetaFromRequest(r))
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}

	if err := h.Cookies.Set(w, res.User, res.Session); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    domainauth.NewUserInfo(res.User),
	})
}

type registeredUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
}

// Register creates an account. It does not log the user in.
// POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	u, err := h.Svc.Register(r.Context(), in)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    registeredUser{ID: u.ID, Email: u.Email},
	})
}

// Logout invalidates the caller's session, if any, and clears every session cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieSessionToken); err == nil && c.Value != "" {
		if err := h.Svc.Logout(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed",
				"error", err,
				"token", service.TokenFingerprint(c.Value),
			)
		}
	}
	h.Cookies.Clear(w)
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

type meSession struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type meResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *domainauth.UserInfo `json:"user,omitempty"`
	Session       *meSession           `json:"session,omitempty"`
}

// Me reports the caller's identity as re-validated by the session manager.
// GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	validator := CookieSessionValidator{Sessions: h.Svc}
	sc, err := validator.ValidateRequest(r)
	if err != nil {
		if !isSessionInvalid(err) {
			WriteAppError(w, r, h.logger(), err)
			return
		}
		if !errors.Is(err, ErrNoSessionCookie) {
			h.Cookies.Clear(w)
		}
		WriteJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	WriteJSON(w, http.StatusOK, meResponse{
		Authenticated: true,
		User: &domainauth.UserInfo{
			UserID:       sc.UserID,
			UniversityID: sc.UniversityID,
			Name:         sc.Name,
			Email:        sc.Email,
			IsAdmin:      sc.IsAdmin,
		},
		Session: &meSession{ID: sc.SessionID, ExpiresAt: sc.ExpiresAt},
	})
}
