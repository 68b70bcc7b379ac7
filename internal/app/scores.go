package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/vancomm/boomsweeper/internal/config"
	"github.com/vancomm/boomsweeper/internal/database"
	"github.com/vancomm/boomsweeper/internal/repository"
	"github.com/vancomm/boomsweeper/internal/scores"
)

// openScores connects the best time store picked by SCORES_BACKEND. The
// returned func releases it.
func openScores(ctx context.Context, logger *slog.Logger) (scores.Backend, func(), error) {
	kind, err := config.NewScoresBackend()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(slog.String("backend", string(kind)))

	switch kind {
	case config.ScoresMemory:
		logger.Warn("best times are kept in memory only")
		return scores.NewMemory(), func() {}, nil

	case config.ScoresSQLite:
		path := config.SQLitePath()
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("best times opened", slog.String("path", path))
		return scores.NewSQLite(db), func() { db.Close() }, nil

	case config.ScoresPostgres:
		pool, migrator, err := database.ConnectAndMigrate(ctx, database.Migrations)
		if err != nil {
			return nil, nil, err
		}
		if version, dirty, err := migrator.Version(); err == nil {
			logger.Info("best times opened",
				slog.Uint64("version", uint64(version)),
				slog.Bool("dirty", dirty),
			)
		}
		return repository.New(pool), pool.Close, nil

	case config.ScoresRedis:
		cfg, err := config.NewRedis()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(cfg.Options)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("unable to reach redis: %w", err)
		}
		logger.Info("best times opened", slog.String("addr", cfg.Options.Addr))
		return scores.NewRedis(client, cfg.Key), func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported scores backend %q", kind)
	}
}
