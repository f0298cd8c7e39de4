package testutil

import (
	"bugtracker-api/internal/store/sqlitestore"
)

// NewMemoryStore creates an in-memory sqlite-backed task store.
func NewMemoryStore() (*sqlitestore.Store, error) {
	return sqlitestore.Open(":memory:")
}
