package scores

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "boomsweeper:best_time"

// Redis keeps best times as scores of a sorted set, one member per
// difficulty. Needs redis 6.2 or newer for ZADD LT.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context, difficulty string) (int, bool, error) {
	score, err := r.client.ZScore(ctx, r.key, difficulty).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return int(score), true, nil
}

func (r *Redis) SaveIfBetter(ctx context.Context, difficulty string, seconds int) (bool, error) {
	changed, err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		LT: true,
		Ch: true,
		Members: []redis.Z{
			{Score: float64(seconds), Member: difficulty},
		},
	}).Result()
	if err != nil {
		return false, err
	}
	return changed > 0, nil
}
