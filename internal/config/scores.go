package config

import (
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type ScoresBackend string

const (
	ScoresMemory   ScoresBackend = "memory"
	ScoresSQLite   ScoresBackend = "sqlite"
	ScoresPostgres ScoresBackend = "postgres"
	ScoresRedis    ScoresBackend = "redis"
)

// NewScoresBackend reads SCORES_BACKEND, sqlite by default.
func NewScoresBackend() (ScoresBackend, error) {
	backend := ScoresBackend(getenv("SCORES_BACKEND", string(ScoresSQLite)))
	switch backend {
	case ScoresMemory, ScoresSQLite, ScoresPostgres, ScoresRedis:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown SCORES_BACKEND %q", backend)
	}
}

func SQLitePath() string {
	return getenv("SQLITE_PATH", "boomsweeper.db")
}

type Redis struct {
	Options *redis.Options
	Key     string
}

func NewRedis() (*Redis, error) {
	addr, err := lookup("REDIS_ADDR")
	if err != nil {
		return nil, err
	}

	password, err := lookupSecret("REDIS_PASSWORD")
	if err != nil {
		password = ""
	}

	db, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("unable to convert REDIS_DB to int: %w", err)
	}

	config := &Redis{
		Options: &redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		},
		Key: getenv("REDIS_KEY", ""),
	}

	return config, nil
}
