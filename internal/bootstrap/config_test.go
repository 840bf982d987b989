package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/config"
)

func TestGetEnabledServices(t *testing.T) {
	assert.Empty(t, GetEnabledServices(nil))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Equal(t, []string{"http", "session-reaper"},
		GetEnabledServices(&config.AppConfig{Services: "session-reaper,http"}))
}

func TestValidateServiceConfig(t *testing.T) {
	require.Error(t, ValidateServiceConfig(nil))
	require.Error(t, ValidateServiceConfig(&config.AppConfig{Services: ""}))
	require.Error(t, ValidateServiceConfig(&config.AppConfig{Services: "http,rules-engine"}))
	require.NoError(t, ValidateServiceConfig(&config.AppConfig{Services: "http"}))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVICES", "http,session-reaper")
	t.Setenv("AUTH_BCRYPT_COST", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsSessionReaperEnabled())
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestLoadConfig_RejectsPublicSuffixCookieDomain(t *testing.T) {
	t.Setenv("APP_COOKIE_DOMAIN", "edu")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public suffix")
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := initLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	slog.Warn("shown", "component", "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "test", entry["component"])
}
