package ports

import (
	"net/http"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
)

// UntrustedIdentity is what the client-readable cookies claim about the caller.
type UntrustedIdentity struct {
	User    domainauth.UserInfo
	Session domainauth.SessionInfo
}

// UntrustedIdentityReader decodes the advisory user_info and session_info
// snapshots. The result is attacker-controllable and must never authorize anything.
type UntrustedIdentityReader interface {
	ReadIdentity(r *http.Request) (UntrustedIdentity, bool)
}

// TrustedSessionValidator resolves the caller from the server-only session token
// by re-validating it against the session manager. It returns
// domainauth.ErrSessionInvalid when the request carries no usable session.
type TrustedSessionValidator interface {
	ValidateRequest(r *http.Request) (domainauth.SessionContext, error)
}
