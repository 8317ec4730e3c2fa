package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database selected by cfg.DBDriver and verifies the connection.
func Open(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.DBDriver {
	case "postgres":
		db, err = sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)
	case "sqlite":
		db, err = sql.Open("sqlite", sqliteDSN(cfg.DBPath))
		if err != nil {
			return nil, err
		}
		// Single writer avoids "database is locked"; an in-memory database also
		// only lives as long as its one connection.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// sqliteDSN stores times as sortable "2006-01-02 15:04:05.999999999-07:00" text.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(ON)&_time_format=sqlite"
	}
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_time_format=sqlite",
		path,
	)
}
