// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Dosada05/swiss-tournament/db"
)

// TestDatabaseURLEnv names the variable that enables the PostgreSQL runs.
const TestDatabaseURLEnv = "TEST_DATABASE_URL"

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// SetupSQLiteDB opens a private in-memory SQLite database with the schema
// created. It is closed when the test ends.
func SetupSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, ":memory:", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupPostgresDB connects to TEST_DATABASE_URL and recreates the schema.
// The test is skipped when the variable is unset.
func SetupPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL test", TestDatabaseURLEnv)
	}

	conn, err := db.Connect(db.DriverPostgres, dsn, 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	if err := db.DropSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
	if err := db.CreateSchema(ctx, conn, db.DriverPostgres); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}
