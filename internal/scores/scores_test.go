package scores

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/boomsweeper/internal/database"
	"github.com/vancomm/boomsweeper/internal/mines"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	all := map[string]Backend{
		"memory": NewMemory(),
		"sqlite": NewSQLite(db),
	}

	if addr, ok := os.LookupEnv("TEST_REDIS_ADDR"); ok {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { client.Close() })
		key := "boomsweeper:test:" + t.Name()
		require.NoError(t, client.Del(ctx, key).Err())
		all["redis"] = NewRedis(client, key)
	}
	return all
}

func TestBestTimesImprove(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			best := New(backend)

			_, ok, err := best.Get(ctx, "easy")
			require.NoError(t, err)
			assert.False(t, ok)

			improved, err := best.Set(ctx, "easy", 120)
			require.NoError(t, err)
			assert.True(t, improved)

			improved, err = best.Set(ctx, "easy", 200)
			require.NoError(t, err)
			assert.False(t, improved)
			seconds, ok, err := best.Get(ctx, "easy")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 120, seconds)

			improved, err = best.Set(ctx, "easy", 120)
			require.NoError(t, err)
			assert.False(t, improved, "a tie is not an improvement")

			improved, err = best.Set(ctx, "easy", 90)
			require.NoError(t, err)
			assert.True(t, improved)
			seconds, _, _ = best.Get(ctx, "easy")
			assert.Equal(t, 90, seconds)

			_, ok, _ = best.Get(ctx, "hard")
			assert.False(t, ok, "difficulties are kept apart")
		})
	}
}

func TestBestTimesZero(t *testing.T) {
	best := New(NewMemory())
	improved, err := best.Set(context.Background(), "medium", 0)
	require.NoError(t, err)
	assert.True(t, improved)
}

func TestBestTimesInvalid(t *testing.T) {
	ctx := context.Background()
	best := New(NewMemory())

	for _, name := range []string{"", "Easy", "insane", "seven-boom"} {
		_, _, err := best.Get(ctx, name)
		assert.ErrorIs(t, err, mines.ErrInvalidArgument, "get %q", name)
		_, err = best.Set(ctx, name, 10)
		assert.ErrorIs(t, err, mines.ErrInvalidArgument, "set %q", name)
	}

	_, err := best.Set(ctx, "easy", -1)
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)
	_, ok, _ := best.Get(ctx, "easy")
	assert.False(t, ok)
}
