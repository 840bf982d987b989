package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/ports"
)

// Cookie names shared with browser code.
const (
	CookieSessionToken = "session_token"
	CookieUserInfo     = "user_info"
	CookieSessionInfo  = "session_info"
)

// ErrNoSessionCookie is returned when the request carries no session_token at all.
var ErrNoSessionCookie = fmt.Errorf("%w: no session cookie", domainauth.ErrSessionInvalid)

// SessionCookies writes and clears the three session cookies. All three share
// path, domain, SameSite, Secure and lifetime; only session_token is HttpOnly.
type SessionCookies struct {
	Domain string
	Secure bool
}

// Set writes the bearer token plus the advisory user and session snapshots.
func (c SessionCookies) Set(w http.ResponseWriter, user domainauth.User, sess domainauth.Session) error {
	userInfo, err := encodeCookieJSON(domainauth.NewUserInfo(user))
	if err != nil {
		return fmt.Errorf("encode user_info: %w", err)
	}
	sessionInfo, err := encodeCookieJSON(domainauth.NewSessionInfo(sess))
	if err != nil {
		return fmt.Errorf("encode session_info: %w", err)
	}

	maxAge := int(sess.ExpiresAt.Sub(sess.CreatedAt) / time.Second)
	http.SetCookie(w, c.cookie(CookieUserInfo, userInfo, maxAge, sess.ExpiresAt, false))
	http.SetCookie(w, c.cookie(CookieSessionInfo, sessionInfo, maxAge, sess.ExpiresAt, false))
	http.SetCookie(w, c.cookie(CookieSessionToken, sess.Token, maxAge, sess.ExpiresAt, true))
	return nil
}

// Clear expires all three cookies, mirroring the attributes used by Set.
func (c SessionCookies) Clear(w http.ResponseWriter) {
	epoch := time.Unix(0, 0).UTC()
	http.SetCookie(w, c.cookie(CookieUserInfo, "", -1, epoch, false))
	http.SetCookie(w, c.cookie(CookieSessionInfo, "", -1, epoch, false))
	http.SetCookie(w, c.cookie(CookieSessionToken, "", -1, epoch, true))
}

func (c SessionCookies) cookie(name, value string, maxAge int, expires time.Time, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: httpOnly,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Expires:  expires,
	}
}

// encodeCookieJSON produces a value browsers can read back with decodeURIComponent.
func encodeCookieJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return url.PathEscape(string(raw)), nil
}

func decodeCookieJSON(r *http.Request, name string, dst any) bool {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return false
	}
	raw, err := url.PathUnescape(c.Value)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

// CookieIdentityReader parses the client-readable snapshots. The result is
// attacker-controlled and only fit for display.
type CookieIdentityReader struct{}

// ReadIdentity returns the advisory identity when both snapshot cookies parse.
func (CookieIdentityReader) ReadIdentity(r *http.Request) (ports.UntrustedIdentity, bool) {
	var id ports.UntrustedIdentity
	if !decodeCookieJSON(r, CookieUserInfo, &id.User) {
		return ports.UntrustedIdentity{}, false
	}
	if !decodeCookieJSON(r, CookieSessionInfo, &id.Session) {
		return ports.UntrustedIdentity{}, false
	}
	return id, true
}

// SessionResolver resolves an opaque token to a live session.
type SessionResolver interface {
	Validate(ctx context.Context, token string) (domainauth.SessionContext, error)
}

// CookieSessionValidator re-validates session_token against the session manager.
// The snapshot cookies are never consulted.
type CookieSessionValidator struct {
	Sessions SessionResolver
}

// ValidateRequest returns the session behind the request's session_token cookie.
func (v CookieSessionValidator) ValidateRequest(r *http.Request) (domainauth.SessionContext, error) {
	c, err := r.Cookie(CookieSessionToken)
	if err != nil || c.Value == "" {
		return domainauth.SessionContext{}, ErrNoSessionCookie
	}
	return v.Sessions.Validate(r.Context(), c.Value)
}

var (
	_ ports.UntrustedIdentityReader = CookieIdentityReader{}
	_ ports.TrustedSessionValidator = CookieSessionValidator{}
)
