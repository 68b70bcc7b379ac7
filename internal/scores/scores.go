// Package scores keeps the best winning time per difficulty.
package scores

import (
	"context"
	"fmt"

	"github.com/vancomm/boomsweeper/internal/mines"
)

// Backend stores one best time in seconds per difficulty name.
type Backend interface {
	// Load reports false when no time is stored yet.
	Load(ctx context.Context, difficulty string) (int, bool, error)
	// SaveIfBetter stores seconds only when nothing is stored yet or it beats
	// the stored time, and reports whether it did.
	SaveIfBetter(ctx context.Context, difficulty string, seconds int) (bool, error)
}

// BestTimes checks difficulty names and times before they reach a Backend.
type BestTimes struct {
	backend Backend
}

func New(backend Backend) *BestTimes {
	return &BestTimes{backend: backend}
}

func validate(difficulty string) error {
	_, err := mines.LookupDifficulty(difficulty)
	return err
}

func (b *BestTimes) Get(ctx context.Context, difficulty string) (int, bool, error) {
	if err := validate(difficulty); err != nil {
		return 0, false, err
	}
	seconds, ok, err := b.backend.Load(ctx, difficulty)
	if err != nil {
		return 0, false, fmt.Errorf("unable to load best time: %w", err)
	}
	return seconds, ok, nil
}

// Set records a winning time. Only a strictly lower time replaces the stored
// one.
func (b *BestTimes) Set(ctx context.Context, difficulty string, seconds int) (bool, error) {
	if err := validate(difficulty); err != nil {
		return false, err
	}
	if seconds < 0 {
		return false, mines.Errorf("negative time %d", seconds)
	}
	improved, err := b.backend.SaveIfBetter(ctx, difficulty, seconds)
	if err != nil {
		return false, fmt.Errorf("unable to save best time: %w", err)
	}
	return improved, nil
}
