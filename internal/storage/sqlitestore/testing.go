package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestStore opens a migrated store in a temporary directory and closes it
// when the test ends.
func NewTestStore(t testing.TB) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
