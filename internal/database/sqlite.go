package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS best_time (
		difficulty TEXT PRIMARY KEY
			CHECK (difficulty IN ('easy', 'medium', 'hard')),
		seconds INTEGER NOT NULL CHECK (seconds >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// OpenSQLite opens the local best time store at path and creates its
// tables. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("unable to enable WAL mode: %w", err)
		}
	}
	for _, m := range sqliteMigrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite migration failed: %w", err)
		}
	}
	return db, nil
}
