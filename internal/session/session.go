// Package session runs games for the service: it serializes player actions,
// keeps the undo history, drives the clock and records best times.
package session

import (
	"context"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/boomsweeper/internal/clock"
	"github.com/vancomm/boomsweeper/internal/mines"
	"github.com/vancomm/boomsweeper/internal/scores"
)

const (
	TickInterval      = time.Second
	HintDuration      = 2500 * time.Millisecond
	SafeClickDuration = 2 * time.Second
)

// Listener gets pushed updates that no action asked for. It is called with
// the session locked and must not call back into it.
type Listener interface {
	OnTick(mines.Clock)
	OnChange(View)
}

type Options struct {
	Logger  *slog.Logger
	Clock   clock.Scheduler
	Best    *scores.BestTimes
	NewRand func() *rand.Rand
	Now     func() time.Time
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Best == nil {
		o.Best = scores.New(scores.NewMemory())
	}
	if o.NewRand == nil {
		o.NewRand = NewRand
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	logger  *slog.Logger
	clock   clock.Scheduler
	best    *scores.BestTimes
	rnd     *rand.Rand
	now     func() time.Time
	game    *mines.Game
	history *mines.History

	ticker   clock.Timer
	tickGen  int
	boardGen int // bumped whenever the board is replaced
	bestTime *int
	novelty  bool // the game no longer counts for a best time
	cheat    bool
	lastSeen time.Time

	listeners    map[int]Listener
	nextListener int
}

func New(ctx context.Context, id uuid.UUID, difficulty string, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	s := &Session{
		ID:        id,
		logger:    opts.Logger.With(slog.String("session", id.String())),
		clock:     opts.Clock,
		best:      opts.Best,
		rnd:       opts.NewRand(),
		now:       opts.Now,
		listeners: make(map[int]Listener),
	}
	if err := s.reset(ctx, difficulty); err != nil {
		return nil, err
	}
	s.lastSeen = s.now()
	return s, nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Touch keeps the session from being swept as idle.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Apply runs one player action and returns the resulting view. Actions the
// game cannot take right now leave it as it is without an error.
func (s *Session) Apply(ctx context.Context, a Action) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	if a.Kind.TargetsCell() && !s.game.Board.InBounds(a.Row, a.Col) {
		return s.view(), mines.Errorf("cell %d:%d is out of the board", a.Row, a.Col)
	}

	if err := s.apply(ctx, a); err != nil {
		return s.view(), err
	}
	v := s.view()
	s.notify(v)
	return v, nil
}

func (s *Session) apply(ctx context.Context, a Action) error {
	g := s.game
	switch a.Kind {
	case Reveal:
		out, err := g.Reveal(a.Row, a.Col)
		if err != nil {
			return err
		}
		s.settle(ctx, out)
	case Flag:
		out, err := g.Flag(a.Row, a.Col)
		if err != nil {
			return err
		}
		s.settle(ctx, out)
	case Hint:
		out, err := g.Hint(a.Row, a.Col)
		if err != nil {
			return err
		}
		s.settle(ctx, out)
	case Paint:
		s.settle(ctx, g.PaintMine(a.Row, a.Col))
	case ArmHint:
		g.ToggleHint()
	case SafeClick:
		at, ok, err := g.SafeClick()
		if err != nil {
			return err
		}
		if ok {
			s.scheduleSafeClickClear(at)
		}
	case Manual:
		if g.ToggleManualPlacement() && g.ManualPlacement {
			s.novelty = true
		}
	case SevenBoom:
		if err := g.SevenBoom(); err != nil {
			return err
		}
		s.stopTicker()
		s.history = mines.NewHistory()
		s.novelty = true
		s.boardGen++
	case Cheat:
		s.cheat = !s.cheat
		if s.cheat {
			s.novelty = true
		}
	case Undo:
		s.undo()
	case Reset:
		return s.reset(ctx, g.Difficulty.Name)
	case ChangeDifficulty:
		return s.reset(ctx, a.Difficulty)
	default:
		return mines.Errorf("unknown action %q", a.Kind)
	}
	return nil
}

// settle follows up on a move: it records it for undo, runs the clock and
// handles the end of the game.
func (s *Session) settle(ctx context.Context, out mines.Outcome) {
	if !out.Changed {
		return
	}
	s.history.Record(s.game)
	if out.Started {
		s.startTicker()
	}
	if len(out.Hinted) > 0 {
		s.scheduleHintHide(out.Hinted)
	}
	switch s.game.Status() {
	case mines.Won:
		s.stopTicker()
		s.recordBestTime(ctx)
	case mines.Lost:
		s.stopTicker()
	}
}

func (s *Session) undo() {
	snap := s.history.Pop()
	if snap == nil {
		return
	}
	s.game.Restore(snap)
	s.boardGen++

	var peeked []mines.Coords
	for c := range s.game.Board.Cells() {
		if c.IsHint {
			peeked = append(peeked, c.Coords())
		}
		if c.IsSafeClick {
			s.game.ClearSafeClick(c.Coords())
		}
	}
	s.game.HideHints(peeked)

	switch {
	case !s.game.TimerRunning:
		s.stopTicker()
	case s.ticker == nil:
		s.startTicker()
	}
	s.logger.Debug("move undone", slog.Int("lives", s.game.Lives))
}

// reset starts over on a fresh game of the given difficulty.
func (s *Session) reset(ctx context.Context, difficulty string) error {
	g, err := mines.NewGame(difficulty, s.rnd)
	if err != nil {
		return err
	}
	s.stopTicker()
	s.game = g
	s.boardGen++
	s.history = mines.NewHistory()
	s.novelty, s.cheat = false, false
	s.loadBestTime(ctx)
	return nil
}

func (s *Session) loadBestTime(ctx context.Context) {
	s.bestTime = nil
	seconds, ok, err := s.best.Get(ctx, s.game.Difficulty.Name)
	if err != nil {
		s.logger.Error("unable to load best time", slog.Any("error", err))
		return
	}
	if ok {
		s.bestTime = &seconds
	}
}

func (s *Session) recordBestTime(ctx context.Context) {
	if s.novelty {
		return
	}
	seconds := s.game.Elapsed
	improved, err := s.best.Set(ctx, s.game.Difficulty.Name, seconds)
	if err != nil {
		s.logger.Error("unable to record best time", slog.Any("error", err))
		return
	}
	if improved {
		s.bestTime = &seconds
		s.logger.Info("new best time",
			slog.String("difficulty", s.game.Difficulty.Name),
			slog.Int("seconds", seconds),
		)
	}
}

func (s *Session) startTicker() {
	s.stopTicker()
	gen := s.tickGen
	s.ticker = s.clock.Every(TickInterval, func() { s.tick(gen) })
}

// stopTicker also invalidates any tick already on its way.
func (s *Session) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.tickGen++
}

func (s *Session) tick(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.tickGen {
		return
	}
	clk := s.game.Tick()
	for _, l := range s.listeners {
		l.OnTick(clk)
	}
}

// Expiry callbacks belong to the board they were scheduled on and do nothing
// once that board has been replaced.
func (s *Session) scheduleHintHide(coords []mines.Coords) {
	gen := s.boardGen
	s.clock.After(HintDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.boardGen {
			return
		}
		if s.game.HideHints(coords) > 0 {
			s.notify(s.view())
		}
	})
}

func (s *Session) scheduleSafeClickClear(at mines.Coords) {
	gen := s.boardGen
	s.clock.After(SafeClickDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.boardGen {
			return
		}
		s.game.ClearSafeClick(at)
		s.notify(s.view())
	})
}

func (s *Session) notify(v View) {
	for _, l := range s.listeners {
		l.OnChange(v)
	}
}

// Subscribe adds l to the session until the returned func is called.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close stops the clock and drops every listener.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTicker()
	clear(s.listeners)
}
