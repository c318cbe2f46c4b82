package testsupport

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"conductor/internal/config"
	"conductor/internal/jobstore"
	"conductor/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJobStore wires a jobstore.Store to a fresh in-process Redis. The
// returned miniredis handle lets tests manipulate clocks and TTLs.
func NewJobStore(t testing.TB, cfg *config.Config) (*jobstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg.Redis.Addr = mr.Addr()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return jobstore.NewWithClient(client, cfg), mr
}
