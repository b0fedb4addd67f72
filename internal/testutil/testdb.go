package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory arbor store with the schema applied.
// Each call gets its own database, so tests never see each other's rows.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory store")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW commits for real against database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
