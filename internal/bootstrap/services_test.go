package bootstrap

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unievents/unievents-api/config"
	authmocks "github.com/unievents/unievents-api/internal/mocks/auth"
	"github.com/unievents/unievents-api/internal/service"
)

func memorySessions() *service.SessionService {
	users := authmocks.NewMemoryUserRepository()
	return service.NewSessionService(service.SessionServiceOptions{
		Repo:   authmocks.NewMemorySessionRepository(users),
		Logger: discardLogger(),
	})
}

func runAsync(ctx context.Context, cfg *ServiceOrchestrationConfig) <-chan error {
	done := make(chan error, 1)
	go func() { done <- RunServices(ctx, cfg) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("services did not stop")
		return nil
	}
}

func TestRunServices_RequiresConfig(t *testing.T) {
	require.Error(t, RunServices(context.Background(), nil))
	require.Error(t, RunServices(context.Background(), &ServiceOrchestrationConfig{}))
	require.Error(t, RunServices(context.Background(), &ServiceOrchestrationConfig{
		Config: &config.AppConfig{Services: "scheduler"},
	}))
}

func TestRunServices_SessionReaperStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, &ServiceOrchestrationConfig{
		Config:   &config.AppConfig{Services: "session-reaper"},
		Services: ServiceContainer{Sessions: memorySessions()},
		Logger:   discardLogger(),
	})
	cancel()
	require.NoError(t, waitDone(t, done))
}

func TestRunServices_SessionReaperWithoutSessionsFails(t *testing.T) {
	err := RunServices(context.Background(), &ServiceOrchestrationConfig{
		Config: &config.AppConfig{Services: "session-reaper"},
		Logger: discardLogger(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session reaper failed")
}

func TestRunServices_HTTPServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := runAsync(ctx, &ServiceOrchestrationConfig{
		Config:   &config.AppConfig{Services: "http"},
		Logger:   discardLogger(),
		Listener: ln,
	})

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test helper
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, waitDone(t, done))

	_, err = http.Get(url) //nolint:noctx // test helper
	assert.Error(t, err)
}
