package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unievents/unievents-api/internal/core"
	"github.com/unievents/unievents-api/internal/data"
	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/mocks"
	authmocks "github.com/unievents/unievents-api/internal/mocks/auth"
	"github.com/unievents/unievents-api/internal/ports"
)

var testEpoch = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type sessionFixture struct {
	clock    *data.FixedTimeProvider
	users    *authmocks.MemoryUserRepository
	store    *authmocks.MemorySessionRepository
	cache    *authmocks.MemorySessionCache
	sessions *SessionService
	user     domainauth.User
}

func newSessionFixture(t *testing.T, cache ports.SessionCache) *sessionFixture {
	t.Helper()
	f := &sessionFixture{clock: data.NewFixedTimeProvider(testEpoch)}
	f.users = authmocks.NewMemoryUserRepository()
	f.store = authmocks.NewMemorySessionRepository(f.users)

	if cache == nil {
		f.cache = authmocks.NewMemorySessionCache()
		f.cache.Now = f.clock.Now
		cache = f.cache
	}
	f.sessions = NewSessionService(SessionServiceOptions{
		Repo:   f.store,
		Cache:  cache,
		Config: SessionConfig{Clock: f.clock},
	})

	u, err := f.users.Create(context.Background(), core.CreateUserParams{
		UniversityID: "2021001",
		Name:         "Ada",
		Email:        "ada@uni.edu",
		PasswordHash: "plain:secret1",
	})
	require.NoError(t, err)
	f.user = *u
	return f
}

func TestSessionService_Create_SevenDayExpiry(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, f.user, ClientMeta{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, testEpoch, sess.CreatedAt)
	assert.Equal(t, sess.CreatedAt.Add(7*24*time.Hour), sess.ExpiresAt)
	assert.Len(t, sess.Token, 43)
	assert.NotEqual(t, sess.ID, sess.Token)

	stored, ok := f.store.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, *sess, stored)

	assert.True(t, f.cache.Has(sess.Token))
	assert.Equal(t, 7*24*time.Hour, f.cache.TTL(sess.Token))
}

func TestSessionService_Create_TokensAreUnique(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for range 50 {
		sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
		require.NoError(t, err)
		_, dup := seen[sess.Token]
		require.False(t, dup)
		seen[sess.Token] = struct{}{}
	}
	assert.Equal(t, 50, f.store.Len())
}

func TestSessionService_Validate_ExpiryBoundary(t *testing.T) {
	for _, name := range []string{"cache", "store"} {
		t.Run(name, func(t *testing.T) {
			f := newSessionFixture(t, nil)
			ctx := context.Background()

			sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
			require.NoError(t, err)
			if name == "store" {
				require.NoError(t, f.cache.Delete(ctx, sess.Token))
			}

			f.clock.SetTime(sess.ExpiresAt.Add(-time.Microsecond))
			sc, err := f.sessions.Validate(ctx, sess.Token)
			require.NoError(t, err)
			assert.Equal(t, f.user.ID, sc.UserID)
			assert.Equal(t, sess.ID, sc.SessionID)

			if name == "store" {
				require.NoError(t, f.cache.Delete(ctx, sess.Token))
			}
			f.clock.SetTime(sess.ExpiresAt)
			_, err = f.sessions.Validate(ctx, sess.Token)
			require.ErrorIs(t, err, domainauth.ErrSessionInvalid)
		})
	}
}

func TestSessionService_Validate_CacheHitSkipsStore(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)

	sc, err := f.sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "2021001", sc.UniversityID)
	assert.EqualValues(t, 0, f.store.Lookups())
}

func TestSessionService_Validate_MissRepopulatesCache(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)
	require.NoError(t, f.cache.Delete(ctx, sess.Token))

	f.clock.AddTime(24 * time.Hour)
	_, err = f.sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.store.Lookups())
	assert.Equal(t, 6*24*time.Hour, f.cache.TTL(sess.Token))

	_, err = f.sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.store.Lookups())
}

func TestSessionService_CacheDownStillWorks(t *testing.T) {
	failing := &authmocks.FailingSessionCache{}
	f := newSessionFixture(t, failing)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)

	sc, err := f.sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, sc.UserID)

	require.NoError(t, f.sessions.Invalidate(ctx, sess.Token))
	_, err = f.sessions.Validate(ctx, sess.Token)
	require.ErrorIs(t, err, domainauth.ErrSessionInvalid)
	assert.Positive(t, failing.Calls())
}

func TestSessionService_NoCache(t *testing.T) {
	users := authmocks.NewMemoryUserRepository()
	store := authmocks.NewMemorySessionRepository(users)
	svc := NewSessionService(SessionServiceOptions{Repo: store})
	ctx := context.Background()

	u, err := users.Create(ctx, core.CreateUserParams{UniversityID: "2021009"})
	require.NoError(t, err)
	sess, err := svc.Create(ctx, *u, ClientMeta{})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, svc.TTL())
}

func TestSessionService_Validate_UnknownAndEmptyTokens(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	_, err := f.sessions.Validate(ctx, "")
	require.ErrorIs(t, err, domainauth.ErrSessionInvalid)
	_, err = f.sessions.Validate(ctx, "does-not-exist")
	require.ErrorIs(t, err, domainauth.ErrSessionInvalid)
}

func TestSessionService_Validate_StoreErrorIsNotInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSessionRepository(ctrl)
	svc := NewSessionService(SessionServiceOptions{Repo: repo})

	boom := errors.New("connection refused")
	repo.EXPECT().GetContextByToken(gomock.Any(), "tok").Return(nil, boom)

	_, err := svc.Validate(context.Background(), "tok")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domainauth.ErrSessionInvalid)
}

func TestSessionService_Validate_StoreCallIsBounded(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSessionRepository(ctrl)
	svc := NewSessionService(SessionServiceOptions{
		Repo:   repo,
		Config: SessionConfig{StoreTimeout: 20 * time.Millisecond},
	})

	repo.EXPECT().GetContextByToken(gomock.Any(), "slow").DoAndReturn(
		func(ctx context.Context, _ string) (*domainauth.SessionContext, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := svc.Validate(context.Background(), "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionService_Invalidate(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)
	other, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, f.sessions.Invalidate(ctx, sess.Token))
	assert.False(t, f.cache.Has(sess.Token))
	_, ok := f.store.Get(sess.Token)
	assert.False(t, ok)

	_, err = f.sessions.Validate(ctx, sess.Token)
	require.ErrorIs(t, err, domainauth.ErrSessionInvalid)

	// Other sessions of the same user are unaffected.
	_, err = f.sessions.Validate(ctx, other.Token)
	require.NoError(t, err)

	require.NoError(t, f.sessions.Invalidate(ctx, ""))
	require.NoError(t, f.sessions.Invalidate(ctx, "unknown"))
}

func TestSessionService_PurgeExpired(t *testing.T) {
	f := newSessionFixture(t, nil)
	ctx := context.Background()

	_, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)
	f.clock.AddTime(24 * time.Hour)
	live, err := f.sessions.Create(ctx, f.user, ClientMeta{})
	require.NoError(t, err)

	f.clock.AddTime(6 * 24 * time.Hour)
	n, err := f.sessions.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, ok := f.store.Get(live.Token)
	assert.True(t, ok)
}

func TestTokenFingerprint(t *testing.T) {
	assert.Equal(t, "abcdefgh…", TokenFingerprint("abcdefghijkl"))
	assert.Equal(t, "…", TokenFingerprint("short"))
}
