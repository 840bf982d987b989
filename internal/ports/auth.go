package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
)

// ErrCacheMiss is returned by SessionCache.Get when no snapshot is stored for a token.
var ErrCacheMiss = errors.New("session cache miss")

// SessionCache is a best-effort accelerator in front of the durable session store.
// Callers must tolerate every method failing; the durable store stays authoritative.
type SessionCache interface {
	Set(ctx context.Context, token string, snap domainauth.SessionContext, ttl time.Duration) error
	Get(ctx context.Context, token string) (domainauth.SessionContext, error)
	Delete(ctx context.Context, token string) error
}

// PasswordHasher hashes and verifies secrets with a slow adaptive algorithm.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	// Compare returns nil when secret matches hash.
	Compare(hash, secret string) error
}
