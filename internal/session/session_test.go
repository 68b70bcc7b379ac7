package session

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/boomsweeper/internal/clock"
	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/scores"
)

type recorder struct {
	ticks []mines.Clock
	views []View
}

func (r *recorder) OnTick(c mines.Clock) { r.ticks = append(r.ticks, c) }
func (r *recorder) OnChange(v View)      { r.views = append(r.views, v) }

type fixture struct {
	s     *Session
	clock *clock.Manual
	best  *scores.BestTimes
	rec   *recorder
}

func testOptions(clk clock.Scheduler, best *scores.BestTimes) Options {
	return Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:   clk,
		Best:    best,
		NewRand: func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}
}

func newFixture(t *testing.T, difficulty string) *fixture {
	t.Helper()
	f := &fixture{
		clock: clock.NewManual(),
		best:  scores.New(scores.NewMemory()),
		rec:   &recorder{},
	}
	s, err := New(context.Background(), uuid.New(), difficulty, testOptions(f.clock, f.best))
	require.NoError(t, err)
	s.Subscribe(f.rec)
	f.s = s
	return f
}

// setLayout swaps in a board of '.' and '*' rows with the mines down.
func (f *fixture) setLayout(t *testing.T, layout ...string) {
	t.Helper()
	b, err := mines.NewBoard(len(layout))
	require.NoError(t, err)
	for r, row := range layout {
		for c, ch := range strings.ReplaceAll(row, " ", "") {
			if ch == '*' {
				b.Cell(r, c).IsMine = true
			}
		}
	}
	for c := range b.Cells() {
		if c.IsMine {
			at := c.Coords()
			b.RecomputeAdjacency(at.Row, at.Col)
		}
	}
	f.s.game.Board = b
	f.s.game.MinesPlaced = true
	f.s.game.Flags = b.MineCount()
}

func (f *fixture) apply(t *testing.T, kind Kind, rowcol ...int) View {
	t.Helper()
	a := Action{Kind: kind}
	if len(rowcol) == 2 {
		a.Row, a.Col = rowcol[0], rowcol[1]
	}
	v, err := f.s.Apply(context.Background(), a)
	require.NoError(t, err)
	return v
}

func TestSessionNew(t *testing.T) {
	f := newFixture(t, "medium")
	v := f.s.View()
	assert.Equal(t, f.s.ID, v.ID)
	assert.Equal(t, mines.NotStarted, v.Status)
	assert.Equal(t, 3, v.Lives)
	assert.Equal(t, 30, v.Flags)
	assert.Equal(t, 3, v.Hints)
	assert.Equal(t, 3, v.SafeClicks)
	assert.Nil(t, v.BestTime)
	assert.Zero(t, v.Undos)
	require.Len(t, v.Grid, 144)
	for _, s := range v.Grid {
		assert.Equal(t, mines.Unknown, s)
	}

	_, err := New(context.Background(), uuid.New(), "insane", Options{})
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)
}

func TestSessionLoadsBestTime(t *testing.T) {
	best := scores.New(scores.NewMemory())
	_, err := best.Set(context.Background(), "hard", 300)
	require.NoError(t, err)

	s, err := New(context.Background(), uuid.New(), "hard", testOptions(clock.NewManual(), best))
	require.NoError(t, err)
	v := s.View()
	require.NotNil(t, v.BestTime)
	assert.Equal(t, 300, *v.BestTime)
}

func TestSessionRejectsBadActions(t *testing.T) {
	f := newFixture(t, "medium")
	ctx := context.Background()

	_, err := f.s.Apply(ctx, Action{Kind: Reveal, Row: 12, Col: 0})
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)
	_, err = f.s.Apply(ctx, Action{Kind: Flag, Row: 0, Col: -1})
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)
	_, err = f.s.Apply(ctx, Action{Kind: "chord"})
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)

	assert.Equal(t, mines.NotStarted, f.s.View().Status)
	assert.Empty(t, f.rec.views)
}

func TestSessionClockAndWin(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". . .",
		". . .",
		"* . *",
	)

	v := f.apply(t, Reveal, 1, 1)
	assert.Equal(t, mines.Running, v.Status)

	f.clock.Advance(7 * time.Second)
	require.Len(t, f.rec.ticks, 7)
	assert.Equal(t, mines.Clock{Minutes: 0, Seconds: 7}, f.rec.ticks[6])

	v = f.apply(t, Reveal, 0, 0)
	assert.Equal(t, mines.Running, v.Status)
	v = f.apply(t, Reveal, 2, 1)
	assert.Equal(t, mines.Won, v.Status)
	assert.Equal(t, mines.Clock{Minutes: 0, Seconds: 7}, v.Clock)
	require.NotNil(t, v.BestTime)
	assert.Equal(t, 7, *v.BestTime)

	f.clock.Advance(5 * time.Second)
	assert.Len(t, f.rec.ticks, 7, "the clock stops on a win")

	seconds, ok, err := f.best.Get(context.Background(), "medium")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, seconds)
}

func TestSessionSlowerWinKeepsBest(t *testing.T) {
	f := newFixture(t, "medium")
	_, err := f.best.Set(context.Background(), "medium", 3)
	require.NoError(t, err)
	f.setLayout(t,
		". .",
		". *",
	)

	f.apply(t, Reveal, 0, 0)
	f.clock.Advance(5 * time.Second)
	f.apply(t, Reveal, 0, 1)
	v := f.apply(t, Reveal, 1, 0)
	require.Equal(t, mines.Won, v.Status)
	assert.Nil(t, v.BestTime, "best time is read when the game is set up")

	seconds, _, _ := f.best.Get(context.Background(), "medium")
	assert.Equal(t, 3, seconds)
}

func TestSessionLossStopsClock(t *testing.T) {
	f := newFixture(t, "easy")
	f.setLayout(t,
		". *",
		". .",
	)

	v := f.apply(t, Reveal, 0, 1)
	assert.Equal(t, mines.Lost, v.Status)
	assert.Equal(t, mines.Mine, v.Grid[1])

	f.clock.Advance(3 * time.Second)
	assert.Empty(t, f.rec.ticks)
	assert.Zero(t, f.clock.Pending())
}

func TestSessionHintExpires(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". . . .",
		". . . .",
		". . . .",
		". . . *",
	)

	v := f.apply(t, ArmHint)
	assert.True(t, v.HintArmed)

	v = f.apply(t, Reveal, 0, 0)
	assert.False(t, v.HintArmed)
	assert.Equal(t, 2, v.Hints)
	assert.Equal(t, mines.Peeked, v.Grid[0])
	assert.Equal(t, mines.Peeked, v.Grid[5])
	views := len(f.rec.views)

	f.clock.Advance(2400 * time.Millisecond)
	assert.Equal(t, mines.Peeked, f.s.View().Grid[0])

	f.clock.Advance(100 * time.Millisecond)
	assert.Equal(t, mines.Unknown, f.s.View().Grid[0])
	require.Len(t, f.rec.views, views+1)
	assert.Equal(t, mines.Unknown, f.rec.views[views].Grid[5])
}

func TestSessionHintKeepsRevealedCells(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". . . .",
		". . . .",
		". . . .",
		". . . *",
	)

	f.apply(t, Hint, 3, 2)
	f.apply(t, Reveal, 2, 2)
	f.clock.Advance(HintDuration)

	grid := f.s.View().Grid
	assert.Equal(t, mines.CellState(1), grid[2*4+2], "revealed while peeked")
	assert.Equal(t, mines.Unknown, grid[3*4+3])
}

func TestSessionSafeClickExpires(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		"* * *",
		"* . *",
		"* * *",
	)

	v := f.apply(t, SafeClick)
	assert.Equal(t, mines.SafeClick, v.Grid[4])
	assert.Equal(t, 2, v.SafeClicks)
	assert.Equal(t, mines.NotStarted, v.Status)

	f.clock.Advance(SafeClickDuration)
	assert.Equal(t, mines.Unknown, f.s.View().Grid[4])
}

func TestSessionHintTimerOutlivesReset(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". . . .",
		". . . .",
		". . . .",
		". . . *",
	)

	f.apply(t, Hint, 0, 0)
	f.clock.Advance(1500 * time.Millisecond)
	f.apply(t, Reset)

	v := f.apply(t, Hint, 0, 0)
	require.NotEqual(t, mines.Unknown, v.Grid[0])

	f.clock.Advance(time.Second)
	assert.NotEqual(t, mines.Unknown, f.s.View().Grid[0], "the old hint timer is void")

	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, mines.Unknown, f.s.View().Grid[0])
}

func TestSessionSafeClickTimerOutlivesUndo(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		"* * *",
		"* . *",
		"* * *",
	)

	f.apply(t, Flag, 0, 0)
	v := f.apply(t, SafeClick)
	require.Equal(t, mines.SafeClick, v.Grid[4])
	f.apply(t, Flag, 0, 1)
	f.apply(t, Flag, 0, 2)

	f.clock.Advance(time.Second)
	v = f.apply(t, Undo)
	assert.Equal(t, mines.Unknown, v.Grid[4], "undo drops restored highlights")

	v = f.apply(t, SafeClick)
	require.Equal(t, mines.SafeClick, v.Grid[4])

	f.clock.Advance(time.Second)
	assert.Equal(t, mines.SafeClick, f.s.View().Grid[4], "the old clear timer is void")

	f.clock.Advance(time.Second)
	assert.Equal(t, mines.Unknown, f.s.View().Grid[4])
}

func TestSessionUndo(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		"* . . .",
		". . . .",
		". . . .",
		". . . *",
	)

	f.apply(t, Reveal, 0, 1)
	v := f.apply(t, Reveal, 3, 3)
	require.Equal(t, 2, v.Lives)
	assert.Equal(t, 1, v.Undos)

	v = f.apply(t, Undo)
	assert.Equal(t, 3, v.Lives)
	assert.Equal(t, mines.Unknown, v.Grid[15])
	assert.Equal(t, mines.CellState(1), v.Grid[1])
	assert.Zero(t, v.Undos)

	v = f.apply(t, Undo)
	assert.Equal(t, 3, v.Lives)
	assert.Equal(t, mines.CellState(1), v.Grid[1])

	f.clock.Advance(2 * time.Second)
	assert.Len(t, f.rec.ticks, 2, "the clock keeps running")
}

func TestSessionUndoLossResumesClock(t *testing.T) {
	f := newFixture(t, "easy")
	f.setLayout(t,
		"* . .",
		". . .",
		". . *",
	)

	f.apply(t, Reveal, 0, 1)
	v := f.apply(t, Reveal, 0, 0)
	require.Equal(t, mines.Lost, v.Status)
	f.clock.Advance(time.Second)
	require.Empty(t, f.rec.ticks)

	v = f.apply(t, Undo)
	assert.Equal(t, mines.Running, v.Status)
	assert.Equal(t, 1, v.Lives)
	assert.Equal(t, mines.Unknown, v.Grid[0])

	f.clock.Advance(2 * time.Second)
	assert.Equal(t, []mines.Clock{{Seconds: 1}, {Seconds: 2}}, f.rec.ticks)
}

func TestSessionUndoHidesPeeks(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". . . .",
		". . . .",
		". . . .",
		". . . *",
	)

	f.apply(t, Hint, 0, 0)
	f.apply(t, Flag, 3, 0)
	f.clock.Advance(HintDuration)

	v := f.apply(t, Undo)
	assert.Equal(t, mines.Unknown, v.Grid[0], "the hint had expired")
	assert.Equal(t, mines.Unknown, v.Grid[12])
}

func TestSessionReset(t *testing.T) {
	f := newFixture(t, "medium")
	f.setLayout(t,
		". *",
		". .",
	)
	f.apply(t, Reveal, 0, 0)
	f.clock.Advance(2 * time.Second)
	require.Len(t, f.rec.ticks, 2)

	v := f.apply(t, Reset)
	assert.Equal(t, mines.NotStarted, v.Status)
	assert.Equal(t, mines.Clock{}, v.Clock)
	assert.Zero(t, v.Undos)
	assert.Len(t, v.Grid, 144)

	f.clock.Advance(3 * time.Second)
	assert.Len(t, f.rec.ticks, 2)
}

func TestSessionChangeDifficulty(t *testing.T) {
	f := newFixture(t, "easy")
	ctx := context.Background()

	v, err := f.s.Apply(ctx, Action{Kind: ChangeDifficulty, Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, mines.Hard, v.Difficulty)
	assert.Equal(t, 5, v.Lives)
	assert.Len(t, v.Grid, 256)

	v, err = f.s.Apply(ctx, Action{Kind: ChangeDifficulty, Difficulty: "insane"})
	assert.ErrorIs(t, err, mines.ErrInvalidArgument)
	assert.Equal(t, mines.Hard, v.Difficulty)
}

func TestSessionSevenBoom(t *testing.T) {
	f := newFixture(t, "easy")
	f.apply(t, Reveal, 4, 4)
	ticks := len(f.rec.ticks)

	v := f.apply(t, SevenBoom)
	assert.Equal(t, mines.NotStarted, v.Status)
	assert.Zero(t, v.Undos)
	for _, s := range v.Grid {
		assert.Equal(t, mines.Unknown, s)
	}
	f.clock.Advance(2 * time.Second)
	assert.Len(t, f.rec.ticks, ticks)

	for c := range f.s.game.Board.Cells() {
		if c.IsMine {
			at := c.Coords()
			v = f.apply(t, Flag, at.Row, at.Col)
		}
	}
	assert.Equal(t, mines.Won, v.Status)
	_, ok, _ := f.best.Get(context.Background(), "easy")
	assert.False(t, ok, "seven boom wins are not timed")
}

func TestSessionManualPlacement(t *testing.T) {
	f := newFixture(t, "easy")

	v := f.apply(t, Manual)
	assert.True(t, v.ManualPlacement)

	v = f.apply(t, Paint, 0, 0)
	assert.Equal(t, mines.Painted, v.Grid[0])
	assert.Equal(t, 11, v.MinesLeft)

	v = f.apply(t, Reveal, 0, 1)
	assert.Equal(t, mines.Painted, v.Grid[1])
	assert.Equal(t, 10, v.MinesLeft)
	assert.Equal(t, mines.NotStarted, v.Status)

	v = f.apply(t, Manual)
	assert.False(t, v.ManualPlacement)
	assert.Equal(t, mines.Unknown, v.Grid[0])
	assert.Equal(t, 2, v.Flags)

	// everything but the two painted mines cascades open
	v = f.apply(t, Reveal, 7, 7)
	assert.Equal(t, mines.Won, v.Status)
	assert.Equal(t, 2, f.s.game.Board.MineCount())
	_, ok, _ := f.best.Get(context.Background(), "easy")
	assert.False(t, ok, "hand placed games are not timed")
}

func TestSessionUndoLastPaint(t *testing.T) {
	f := newFixture(t, "easy")
	f.apply(t, Manual)
	for i := range mines.Easy.Mines {
		f.apply(t, Paint, i/8, i%8)
	}
	v := f.apply(t, Undo)
	assert.True(t, v.ManualPlacement)
	assert.Equal(t, 1, v.MinesLeft)

	v = f.apply(t, Reveal, 5, 5)
	assert.Equal(t, mines.Painted, v.Grid[5*8+5])
	assert.False(t, v.ManualPlacement)

	v = f.apply(t, Reveal, 7, 7)
	assert.Equal(t, mines.Running, v.Status)
	assert.Equal(t, mines.Easy.Mines, f.s.game.Board.MineCount())
}

func TestSessionCheat(t *testing.T) {
	f := newFixture(t, "easy")
	f.setLayout(t,
		"* . .",
		". . .",
		". . *",
	)

	v := f.apply(t, Cheat)
	assert.True(t, v.Cheat)
	assert.Equal(t, mines.Grid{
		mines.Mine, 1, 0,
		1, 2, 1,
		0, 1, mines.Mine,
	}, v.Grid)

	v = f.apply(t, Cheat)
	assert.False(t, v.Cheat)
	assert.Equal(t, mines.Unknown, v.Grid[0])

	f.apply(t, Cheat)
	for _, at := range [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}, {2, 0}, {2, 1}} {
		v = f.apply(t, Reveal, at[0], at[1])
	}
	require.Equal(t, mines.Won, v.Status)
	_, ok, _ := f.best.Get(context.Background(), "easy")
	assert.False(t, ok, "cheated games are not timed")

	v = f.apply(t, Reset)
	assert.False(t, v.Cheat)
}

func TestSessionUnsubscribe(t *testing.T) {
	f := newFixture(t, "medium")
	extra := &recorder{}
	unsubscribe := f.s.Subscribe(extra)

	f.apply(t, Flag, 0, 0)
	assert.Len(t, extra.views, 1)
	assert.Len(t, f.rec.views, 1)

	unsubscribe()
	f.apply(t, Flag, 0, 0)
	assert.Len(t, extra.views, 1)
	assert.Len(t, f.rec.views, 2)
}

func TestSessionClose(t *testing.T) {
	f := newFixture(t, "medium")
	f.apply(t, Flag, 0, 0)
	f.s.Close()

	f.clock.Advance(3 * time.Second)
	assert.Empty(t, f.rec.ticks)
}
