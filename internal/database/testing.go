package database

import (
	"context"
	"testing"
)

// SetupTestSQLite opens a migrated in-memory store closed at test cleanup
func SetupTestSQLite(t testing.TB) *SQLiteDB {
	t.Helper()
	db, err := OpenSQLite(context.Background(), MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})
	return db
}
