// Package testutil provides shared helpers for package tests: an in-memory
// database with the production schema, transaction factories, and HTTP
// request builders.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Transaction log; seq preserves insertion order
		CREATE TABLE ledger_transaction (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id VARCHAR(36) NOT NULL UNIQUE,
			fund_code VARCHAR(20) NOT NULL,
			fund_name VARCHAR(100) NOT NULL,
			type VARCHAR(10) NOT NULL,
			date VARCHAR(10) NOT NULL,
			amount FLOAT NOT NULL,
			shares FLOAT NOT NULL,
			unit_price FLOAT NOT NULL,
			fee FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_ledger_transaction_fund_code ON ledger_transaction(fund_code);

		-- Manually set current prices, keyed by fund code
		CREATE TABLE fund_price (
			fund_code VARCHAR(20) NOT NULL PRIMARY KEY,
			price FLOAT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Single-row sync credential table
		CREATE TABLE sync_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			api_key_enc TEXT NOT NULL,
			document_id TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{
		"ledger_transaction",
		"fund_price",
		"sync_config",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "ledger_transaction", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
