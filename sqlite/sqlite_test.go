package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/kbase/sqlite"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		var count int
		err = db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM embeddings").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		var journalMode string
		err = db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopening keeps existing schema", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		first := sqlite.NewDB(dbPath)
		require.NoError(t, first.Open())
		_, err := first.ExecContext(context.Background(),
			"INSERT INTO embeddings (model, text_hash, dimensions, vector, created_at) VALUES ('m', 'h', 0, x'', '2025-01-01T00:00:00Z')")
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second := sqlite.NewDB(dbPath)
		require.NoError(t, second.Open())
		defer second.Close()

		var count int
		err = second.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM embeddings").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
