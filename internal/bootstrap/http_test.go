package bootstrap

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/config"
	"github.com/unievents/unievents-api/internal/observability/metrics"
)

func TestBuildHTTPHandler_Readiness(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := BuildHTTPHandler(&HTTPServerConfig{
		Config: &config.AppConfig{},
		DB:     db,
	}, discardLogger())

	mock.ExpectPing()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "down", body.Checks["postgres"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildHTTPHandler_MetricsEndpoint(t *testing.T) {
	cfg := &config.AppConfig{Observability: config.ObservabilityConfig{MetricsEnabled: true, MetricsPath: "/metrics"}}

	h := BuildHTTPHandler(&HTTPServerConfig{
		Config:   cfg,
		Services: ServiceContainer{Metrics: metrics.New()},
	}, discardLogger())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")

	cfg.Observability.MetricsEnabled = false
	h = BuildHTTPHandler(&HTTPServerConfig{Config: cfg}, discardLogger())
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewHTTPServer_Defaults(t *testing.T) {
	srv := NewHTTPServer(&HTTPServerConfig{Config: &config.AppConfig{
		HTTP: config.HTTPConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 7 * time.Second},
	}})
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 7*time.Second, srv.WriteTimeout)
	assert.NotNil(t, srv.ErrorLog)
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	require.NoError(t, ShutdownHTTPServer(ShutdownConfig{}))
}
