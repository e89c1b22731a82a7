package testsupport

import (
	"context"
	"testing"

	"rrlfit/internal/config"
	"rrlfit/internal/correction"
	"rrlfit/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveResult persists res and fails the test on error.
func SaveResult(t testing.TB, st *store.Store, res *correction.Result) *store.Run {
	t.Helper()

	run, err := st.SaveResult(context.Background(), res)
	if err != nil {
		t.Fatalf("store.SaveResult: %v", err)
	}
	return run
}
