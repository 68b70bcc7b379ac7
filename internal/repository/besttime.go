package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/boomsweeper/internal/mines"
)

type BestTime struct {
	Difficulty string             `db:"difficulty"`
	Seconds    int                `db:"seconds"`
	CreatedAt  pgtype.Timestamptz `db:"created_at"`
	UpdatedAt  pgtype.Timestamptz `db:"updated_at"`
}

func (q *Queries) FetchBestTime(ctx context.Context, difficulty string) (*BestTime, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM best_time WHERE difficulty = $1", difficulty,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[BestTime])
}

func (q *Queries) ListBestTimes(ctx context.Context) ([]BestTime, error) {
	rows, _ := q.db.Query(ctx, "SELECT * FROM best_time ORDER BY difficulty")
	return pgx.CollectRows(rows, pgx.RowToStructByName[BestTime])
}

// Load implements scores.Backend.
func (q *Queries) Load(ctx context.Context, difficulty string) (int, bool, error) {
	best, err := q.FetchBestTime(ctx, difficulty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return best.Seconds, true, nil
}

// SaveIfBetter implements scores.Backend.
func (q *Queries) SaveIfBetter(ctx context.Context, difficulty string, seconds int) (bool, error) {
	tag, err := q.db.Exec(
		ctx,
		`INSERT INTO best_time (difficulty, seconds)
		VALUES (@difficulty, @seconds)
		ON CONFLICT (difficulty) DO UPDATE
			SET seconds = EXCLUDED.seconds, updated_at = now()
			WHERE best_time.seconds > EXCLUDED.seconds`,
		pgx.NamedArgs{
			"difficulty": difficulty,
			"seconds":    seconds,
		},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return false, mines.Errorf("best time rejected: %s", pgErr.ConstraintName)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
