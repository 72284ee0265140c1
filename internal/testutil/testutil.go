package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fkhayef/secretsanta/internal/database"
)

// SetupTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db), "migrate test database")
	return db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
