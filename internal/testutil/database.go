package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing with all
// migrations applied. The database is automatically closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.InMemory)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountSnapshots returns the number of rows in portfolio_snapshot.
func CountSnapshots(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM portfolio_snapshot").Scan(&count); err != nil {
		t.Fatalf("Failed to count snapshots: %v", err)
	}
	return count
}
