package testutil

import (
	"testing"

	"github.com/alexanderramin/actai/internal/db"
)

// NewTestStore creates an in-memory SQLite store with all migrations applied.
// The store is closed when the test completes.
func NewTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTestUoW creates a UnitOfWork backed by the given test store.
func NewTestUoW(store *db.Store) db.UnitOfWork {
	return db.NewUnitOfWork(store)
}
