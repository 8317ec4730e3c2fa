package db

import (
	"testing"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(ON)&_time_format=sqlite", sqliteDSN(":memory:"))

	dsn := sqliteDSN("/tmp/fintrack.db")
	assert.Contains(t, dsn, "file:/tmp/fintrack.db?")
	assert.Contains(t, dsn, "journal_mode(WAL)")
	assert.Contains(t, dsn, "_time_format=sqlite")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.Config{DBDriver: "mysql"})
	assert.EqualError(t, err, `unsupported DB_DRIVER "mysql"`)
}

func TestOpenAndMigrate_SqliteFile(t *testing.T) {
	cfg := config.Config{DBDriver: "sqlite", DBPath: t.TempDir() + "/fintrack.db"}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, "sqlite"))
	require.NoError(t, Migrate(db, "sqlite"))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	assert.Error(t, Migrate(nil, "mysql"))
}
