// Package redis provides Redis-based adapters for unievents.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/unievents/unievents-api/internal/domain/auth"
	"github.com/unievents/unievents-api/internal/ports"
)

const defaultKeyPrefix = "session:"

// SessionCache stores session snapshots under "session:<token>" with a TTL.
type SessionCache struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionCache creates a Redis-backed session cache.
func NewSessionCache(client redis.UniversalClient) *SessionCache {
	return &SessionCache{client: client, prefix: defaultKeyPrefix}
}

// NewSessionCacheWithPrefix creates a session cache with a custom key prefix.
func NewSessionCacheWithPrefix(client redis.UniversalClient, prefix string) *SessionCache {
	return &SessionCache{client: client, prefix: prefix}
}

// Set stores snap for token. Non-positive TTLs are rejected so nothing outlives its session.
func (c *SessionCache) Set(ctx context.Context, token string, snap domainauth.SessionContext, ttl time.Duration) error {
	if token == "" {
		return errors.New("session token cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err = c.client.Set(ctx, c.prefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the snapshot for token or ports.ErrCacheMiss.
func (c *SessionCache) Get(ctx context.Context, token string) (domainauth.SessionContext, error) {
	if token == "" {
		return domainauth.SessionContext{}, ports.ErrCacheMiss
	}
	data, err := c.client.Get(ctx, c.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.SessionContext{}, ports.ErrCacheMiss
		}
		return domainauth.SessionContext{}, fmt.Errorf("redis get: %w", err)
	}

	var snap domainauth.SessionContext
	if err = json.Unmarshal(data, &snap); err != nil {
		return domainauth.SessionContext{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return snap, nil
}

// Delete removes the snapshot for token. Missing keys are not an error.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := c.client.Del(ctx, c.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
