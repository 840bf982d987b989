package ports_test

import (
	"testing"

	"github.com/unievents/unievents-api/internal/adapters/bcrypt"
	"github.com/unievents/unievents-api/internal/adapters/redis"
	mocks "github.com/unievents/unievents-api/internal/mocks/auth"
	"github.com/unievents/unievents-api/internal/ports"
)

// This test only verifies that adapters and doubles conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionCache = (*redis.SessionCache)(nil)
	var _ ports.SessionCache = (*mocks.MemorySessionCache)(nil)
	var _ ports.SessionCache = (*mocks.FailingSessionCache)(nil)
	var _ ports.PasswordHasher = (*bcrypt.Hasher)(nil)
	var _ ports.PasswordHasher = (*mocks.PlainHasher)(nil)
}
