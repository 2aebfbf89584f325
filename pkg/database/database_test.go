package database

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "file with busy timeout and WAL",
			opts: Options{DataSource: "./data/cocina.db", BusyTimeout: 5 * time.Second, JournalMode: "WAL"},
			want: "./data/cocina.db?_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "memory ignores journal mode",
			opts: Options{DataSource: ":memory:", JournalMode: "WAL"},
			want: ":memory:",
		},
		{
			name: "existing query string",
			opts: Options{DataSource: "file:test.db?cache=shared", BusyTimeout: time.Second},
			want: "file:test.db?cache=shared&_busy_timeout=1000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(&tt.opts))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("memory database uses a single connection", func(t *testing.T) {
		db, err := New()
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)

		_, err = db.Exec(`CREATE TABLE t (id INTEGER)`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO t VALUES (1)`)
		require.NoError(t, err)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cocina.db")

		db, err := New(WithDataSource(path), WithJournalMode("WAL"), WithMaxOpenConns(4))
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, 4, db.Stats().MaxOpenConnections)

		var mode string
		require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("empty options are rejected", func(t *testing.T) {
		_, err := New(WithDriver(""))
		assert.Error(t, err)

		_, err = New(WithDataSource(""))
		assert.Error(t, err)
	})

	t.Run("unknown driver fails after retries", func(t *testing.T) {
		_, err := New(WithDriver("nope"), WithRetry(2, time.Millisecond))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")
	})
}
