package testsupport

import (
	"context"
	"testing"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/logging"
)

// MustOpenStore opens an artifacts.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *artifacts.Store {
	t.Helper()

	store, err := artifacts.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("artifacts.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustStore writes one artifact for tests.
func MustStore(t testing.TB, store *artifacts.Store, sessionID string, key artifacts.Key, value any) {
	t.Helper()

	if err := store.Store(context.Background(), sessionID, key, value); err != nil {
		t.Fatalf("store %s/%s: %v", sessionID, key, err)
	}
}
