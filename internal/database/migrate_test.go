package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))

	tables := []string{
		"categories", "subcategories", "tags", "csv_mappings",
		"bank_accounts", "keywords", "transactions", "transaction_tags",
	}
	for _, table := range tables {
		var n int
		err := db.QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&n)
		require.NoError(t, err)
		require.Equal(t, 1, n, "table %s missing", table)
	}

	// A second run is a no-op.
	require.NoError(t, RunMigrations(db))
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))

	_, err = db.Exec(`INSERT INTO subcategories(id, category_id, name) VALUES('s1', 'missing', 'x')`)
	require.Error(t, err, "dangling category reference must be rejected")
}
