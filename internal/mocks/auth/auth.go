package auth

// Package auth contains simple hand-written test doubles for auth ports and the
// stateful user/session repositories. They are lightweight and suitable for unit
// tests without codegen.

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionCache     = (*MemorySessionCache)(nil)
	_ ports.SessionCache     = (*FailingSessionCache)(nil)
	_ ports.PasswordHasher   = (*PlainHasher)(nil)
	_ core.UserRepository    = (*MemoryUserRepository)(nil)
	_ core.SessionRepository = (*MemorySessionRepository)(nil)
)

// ErrCacheDown is the default error returned by FailingSessionCache.
var ErrCacheDown = errors.New("cache unavailable")

// ErrHashMismatch is returned by PlainHasher.Compare for a wrong secret.
var ErrHashMismatch = errors.New("hash mismatch")

type cacheEntry struct {
	snap      domainauth.SessionContext
	expiresAt time.Time
}

// MemorySessionCache is an in-memory SessionCache honoring TTLs against Now.
type MemorySessionCache struct {
	// Now overrides the clock used for TTL bookkeeping. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	gets    int
	sets    int
	deletes int
}

// NewMemorySessionCache creates an empty cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{entries: make(map[string]cacheEntry)}
}

func (m *MemorySessionCache) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MemorySessionCache) Set(_ context.Context, token string, snap domainauth.SessionContext, ttl time.Duration) error {
	if token == "" {
		return errors.New("token is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]cacheEntry)
	}
	m.sets++
	m.entries[token] = cacheEntry{snap: snap, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessionCache) Get(_ context.Context, token string) (domainauth.SessionContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	e, ok := m.entries[token]
	if !ok || !m.now().Before(e.expiresAt) {
		return domainauth.SessionContext{}, ports.ErrCacheMiss
	}
	return e.snap, nil
}

func (m *MemorySessionCache) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.entries, token)
	return nil
}

// Put stores a snapshot directly, bypassing validation. Useful to plant stale entries.
func (m *MemorySessionCache) Put(token string, snap domainauth.SessionContext, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]cacheEntry)
	}
	m.entries[token] = cacheEntry{snap: snap, expiresAt: expiresAt}
}

// Has reports whether a live entry exists for token.
func (m *MemorySessionCache) Has(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	return ok && m.now().Before(e.expiresAt)
}

// TTL returns the remaining lifetime of the entry for token, or 0.
func (m *MemorySessionCache) TTL(token string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[token]
	if !ok {
		return 0
	}
	return e.expiresAt.Sub(m.now())
}

// Counts returns the number of Get, Set and Delete calls observed.
func (m *MemorySessionCache) Counts() (gets, sets, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.sets, m.deletes
}

// FailingSessionCache fails every call, simulating an unreachable cache.
type FailingSessionCache struct {
	Err   error
	calls atomic.Int64
}

func (f *FailingSessionCache) err() error {
	f.calls.Add(1)
	if f.Err != nil {
		return f.Err
	}
	return ErrCacheDown
}

func (f *FailingSessionCache) Set(context.Context, string, domainauth.SessionContext, time.Duration) error {
	return f.err()
}

func (f *FailingSessionCache) Get(context.Context, string) (domainauth.SessionContext, error) {
	return domainauth.SessionContext{}, f.err()
}

func (f *FailingSessionCache) Delete(context.Context, string) error { return f.err() }

// Calls returns how many times the cache was hit.
func (f *FailingSessionCache) Calls() int64 { return f.calls.Load() }

// PlainHasher is a fast reversible hasher. Never use outside tests.
type PlainHasher struct{}

const plainPrefix = "plain:"

func (PlainHasher) Hash(secret string) (string, error) { return plainPrefix + secret, nil }

func (PlainHasher) Compare(hash, secret string) error {
	if !strings.HasPrefix(hash, plainPrefix) || hash[len(plainPrefix):] != secret {
		return ErrHashMismatch
	}
	return nil
}

// MemoryUserRepository is an in-memory UserRepository enforcing the unique
// university id and email constraints.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domainauth.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domainauth.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, params core.CreateUserParams) (*domainauth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UniversityID == params.UniversityID || (params.Email != "" && u.Email == params.Email) {
			return nil, data.ErrUserExists
		}
	}
	u := domainauth.User{
		ID:           uuid.NewString(),
		UniversityID: params.UniversityID,
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		IsAdmin:      params.IsAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domainauth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByUniversityID(_ context.Context, universityID string) (*domainauth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UniversityID == universityID {
			return &u, nil
		}
	}
	return nil, data.ErrUserNotFound
}

// MemorySessionRepository is an in-memory SessionRepository. Users resolves
// the owner of each session the way the durable store joins users.
type MemorySessionRepository struct {
	Users *MemoryUserRepository
	// Err, when set, is returned by every call.
	Err error

	mu       sync.Mutex
	sessions map[string]domainauth.Session
	lookups  atomic.Int64
}

// NewMemorySessionRepository creates an empty repository backed by users.
func NewMemorySessionRepository(users *MemoryUserRepository) *MemorySessionRepository {
	return &MemorySessionRepository{Users: users, sessions: make(map[string]domainauth.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, sess domainauth.Session) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions == nil {
		r.sessions = make(map[string]domainauth.Session)
	}
	if _, dup := r.sessions[sess.Token]; dup {
		return errors.New("duplicate session token")
	}
	r.sessions[sess.Token] = sess
	return nil
}

func (r *MemorySessionRepository) GetContextByToken(ctx context.Context, token string) (*domainauth.SessionContext, error) {
	r.lookups.Add(1)
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	sess, ok := r.sessions[token]
	r.mu.Unlock()
	if !ok {
		return nil, data.ErrSessionNotFound
	}
	user, err := r.Users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, data.ErrSessionNotFound
	}
	sc := domainauth.NewSessionContext(sess, *user)
	return &sc, nil
}

func (r *MemorySessionRepository) DeleteByToken(_ context.Context, token string) (bool, error) {
	if r.Err != nil {
		return false, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	return ok, nil
}

func (r *MemorySessionRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if !s.ExpiresAt.After(before) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

// Get returns the stored session for token.
func (r *MemorySessionRepository) Get(token string) (domainauth.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	return s, ok
}

// Len returns the number of stored sessions.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Lookups returns how many GetContextByToken calls reached the repository.
func (r *MemorySessionRepository) Lookups() int64 { return r.lookups.Load() }
