package httpx

import (
	"context"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/domain/model"
)

// Unexported context key types to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	sessionKey    struct{}
	requestIDKey  struct{}
	membershipKey struct{}
)

// SetSessionInContext returns a child context that carries the validated session.
func SetSessionInContext(ctx context.Context, sc domainauth.SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, sc)
}

// SessionFromContext returns the validated session and whether one is present.
// Only RequireSession puts a session here, so presence implies server-side validation.
func SessionFromContext(ctx context.Context) (domainauth.SessionContext, bool) {
	sc, ok := ctx.Value(sessionKey{}).(domainauth.SessionContext)
	return sc, ok
}

// SetRequestIDInContext returns a child context carrying the request id.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id, or "" outside the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func setMembershipInContext(ctx context.Context, m *model.Member) context.Context {
	return context.WithValue(ctx, membershipKey{}, m)
}

// MembershipFromContext returns the caller's membership resolved by RequireMembership.
func MembershipFromContext(ctx context.Context) (*model.Member, bool) {
	m, ok := ctx.Value(membershipKey{}).(*model.Member)
	return m, ok && m != nil
}
