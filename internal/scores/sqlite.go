package scores

import (
	"context"
	"database/sql"
	"errors"
)

// SQLite keeps best times in the best_time table created by
// database.OpenSQLite.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Load(ctx context.Context, difficulty string) (int, bool, error) {
	var seconds int
	err := s.db.QueryRowContext(ctx,
		`SELECT seconds FROM best_time WHERE difficulty = ?`, difficulty,
	).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return seconds, true, nil
}

func (s *SQLite) SaveIfBetter(ctx context.Context, difficulty string, seconds int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO best_time (difficulty, seconds) VALUES (?, ?)
		ON CONFLICT (difficulty) DO UPDATE
			SET seconds = excluded.seconds, updated_at = CURRENT_TIMESTAMP
			WHERE excluded.seconds < best_time.seconds`,
		difficulty, seconds,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
