package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig groups session and credential settings.
type AuthConfig struct {
	// SessionTTL is the fixed lifetime of a session from creation. Sessions are not sliding.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`

	// BcryptCost is the bcrypt work factor, clamped to bcrypt's supported range.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// CacheTimeout bounds each session cache call; a slow cache is treated as a miss.
	CacheTimeout time.Duration `env:"AUTH_CACHE_TIMEOUT" envDefault:"250ms"`

	// StoreTimeout bounds each durable store call made while serving a request.
	StoreTimeout time.Duration `env:"AUTH_STORE_TIMEOUT" envDefault:"3s"`

	// LoginRatePerSecond and LoginBurst shape the per-client login token bucket.
	// A rate of zero disables login throttling.
	LoginRatePerSecond float64 `env:"AUTH_LOGIN_RATE_PER_SECOND" envDefault:"1"`
	LoginBurst         int     `env:"AUTH_LOGIN_BURST"           envDefault:"5"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = 168 * time.Hour
	}
	if a.BcryptCost < bcrypt.MinCost {
		a.BcryptCost = bcrypt.MinCost
	}
	if a.BcryptCost > bcrypt.MaxCost {
		a.BcryptCost = bcrypt.MaxCost
	}
	if a.CacheTimeout <= 0 {
		a.CacheTimeout = 250 * time.Millisecond
	}
	if a.StoreTimeout <= 0 {
		a.StoreTimeout = 3 * time.Second
	}
	if a.LoginRatePerSecond < 0 {
		a.LoginRatePerSecond = 0
	}
	if a.LoginBurst < 1 {
		a.LoginBurst = 1
	}
}

// LoginThrottled reports whether login requests are rate limited.
func (a *AuthConfig) LoginThrottled() bool {
	return a.LoginRatePerSecond > 0
}
