package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := SetupTestSQLite(t)
	require.NoError(t, db.Ping(context.Background()))

	var n int
	err := db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('rating_snapshots', 'player_ratings', 'value_bets')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOpenSQLiteFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edge.db")

	db, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := SetupTestSQLite(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO rating_snapshots (id, published_at, players) VALUES ('a', 'x', 1)`); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM rating_snapshots`).Scan(&n))
	assert.Zero(t, n)
}

func TestTimeLayoutOrdersLexically(t *testing.T) {
	a := time.Date(2024, 1, 1, 10, 0, 0, 5, time.UTC)
	b := time.Date(2024, 1, 1, 10, 0, 0, 500_000_000, time.FixedZone("CET", 3600))

	assert.Less(t, FormatTime(b), FormatTime(a), "b is 09:00:00.5 UTC")
	parsed, err := ParseTime(FormatTime(a))
	require.NoError(t, err)
	assert.True(t, a.Equal(parsed))
}
