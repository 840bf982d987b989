package config

import (
	"log/slog"
	"net/netip"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - session-reaper",
			input:    "session-reaper",
			expected: map[ServiceMode]bool{ServiceModeSessionReaper: true},
		},
		{
			name:  "services with spaces and duplicates",
			input: " http , session-reaper , http ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:          true,
				ServiceModeSessionReaper: true,
			},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: " , ,", expectError: true},
		{name: "unknown service", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidServiceModes(t *testing.T) {
	for _, mode := range ValidServiceModes() {
		_, err := ParseServices(string(mode))
		assert.NoError(t, err, mode)
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("NODE_ENV", "")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.CacheTimeout)
	assert.Equal(t, 3*time.Second, cfg.Auth.StoreTimeout)
	assert.True(t, cfg.Auth.LoginThrottled())
	assert.Equal(t, "unievents", cfg.Postgres.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.HTTP.SecureCookies)
	assert.True(t, cfg.SeedCatalogOnStart)
	assert.Equal(t, "/metrics", cfg.Observability.MetricsPath)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsSessionReaperEnabled())
	assert.Equal(t, time.Hour, cfg.SessionReaper.Interval)
	require.NoError(t, cfg.Validate())
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
	assert.False(t, cfg.HTTP.SecureCookies, "dev mode defaults to insecure cookies")
}

func TestAppConfig_SecureCookiesOverride(t *testing.T) {
	t.Setenv("DEV", "true")
	t.Setenv("HTTP_SECURE_COOKIES", "true")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
	assert.True(t, cfg.HTTP.SecureCookies)
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("SERVICES", "http,session-reaper")
	t.Setenv("AUTH_SESSION_TTL", "24h")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SESSION_REAPER_INTERVAL", "10m")
	t.Setenv("LOG_LEVEL", " DEBUG ")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "pg", cfg.Postgres.Host)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.SessionReaper.Interval)
	assert.True(t, cfg.IsSessionReaperEnabled())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestAuthConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   AuthConfig
		want AuthConfig
	}{
		{
			name: "clamps out of range values",
			in:   AuthConfig{SessionTTL: time.Second, BcryptCost: 1, LoginRatePerSecond: -1},
			want: AuthConfig{
				SessionTTL:   168 * time.Hour,
				BcryptCost:   4,
				CacheTimeout: 250 * time.Millisecond,
				StoreTimeout: 3 * time.Second,
				LoginBurst:   1,
			},
		},
		{
			name: "caps bcrypt cost",
			in: AuthConfig{
				SessionTTL: time.Hour, BcryptCost: 99, CacheTimeout: time.Second,
				StoreTimeout: time.Second, LoginRatePerSecond: 2, LoginBurst: 3,
			},
			want: AuthConfig{
				SessionTTL: time.Hour, BcryptCost: 31, CacheTimeout: time.Second,
				StoreTimeout: time.Second, LoginRatePerSecond: 2, LoginBurst: 3,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Sanitize()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestHTTPConfig_Validate(t *testing.T) {
	tests := []struct {
		domain  string
		wantErr bool
	}{
		{domain: "", wantErr: false},
		{domain: "localhost", wantErr: false},
		{domain: "events.uni.edu", wantErr: false},
		{domain: ".Example.com", wantErr: false},
		{domain: "com", wantErr: true},
		{domain: "co.uk", wantErr: true},
		{domain: "github.io", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			h := HTTPConfig{CookieDomain: tt.domain}
			h.Sanitize(false)
			err := h.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHTTPConfig_TrustedProxyPrefixes(t *testing.T) {
	t.Setenv("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7,,::1")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())

	got, err := cfg.HTTP.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("::1/128"),
	}, got)

	bad := HTTPConfig{TrustedProxies: []string{"not-an-ip"}}
	assert.Error(t, bad.Validate())
	bad = HTTPConfig{TrustedProxies: []string{"10.0.0.0/99"}}
	assert.Error(t, bad.Validate())
}

func TestObservabilityConfig_Sanitize(t *testing.T) {
	c := ObservabilityConfig{MetricsPath: " prom "}
	c.Sanitize()
	assert.Equal(t, "/prom", c.MetricsPath)

	c = ObservabilityConfig{}
	c.Sanitize()
	assert.Equal(t, "/metrics", c.MetricsPath)
}

func TestSessionReaperConfig_Sanitize(t *testing.T) {
	r := SessionReaperConfig{Interval: time.Second}
	r.Sanitize()
	assert.Equal(t, time.Minute, r.Interval)
}

func TestAppConfig_ValidateRejectsBadServices(t *testing.T) {
	cfg := AppConfig{Services: "nope"}
	require.Error(t, cfg.Validate())
	assert.False(t, cfg.IsHTTPServerEnabled())
}
