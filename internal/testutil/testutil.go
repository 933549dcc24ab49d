package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordjourney/internal/db"
	"github.com/vytor/wordjourney/internal/logger"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is configured with foreign keys enabled and WAL mode.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on&_journal_mode=WAL")
	require.NoError(t, err)
	// every pooled connection to :memory: would otherwise be its own database
	sqlDB.SetMaxOpenConns(1)

	log := logger.New(logger.WithLevel(logger.ERROR))
	require.NoError(t, db.Migrate(context.Background(), sqlDB, log), "failed to apply migrations")

	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
