package mines

import "github.com/gammazero/deque"

// Snapshot is the part of a game needed to undo a move. It shares nothing
// with the game it was taken from.
type Snapshot struct {
	Lives      int
	MinesLeft  int
	Flags      int
	SafeClicks int
	Hints      int
	Board      *Board

	MinesPlaced     bool
	ManualPlacement bool
}

func (g *Game) Snapshot() *Snapshot {
	return &Snapshot{
		Lives:      g.Lives,
		MinesLeft:  g.MinesLeft,
		Flags:      g.Flags,
		SafeClicks: g.SafeClicks,
		Hints:      g.Hints,
		Board:      g.Board.Clone(),

		MinesPlaced:     g.MinesPlaced,
		ManualPlacement: g.ManualPlacement,
	}
}

// Restore rolls the game back to s. The snapshot keeps its own board so it
// can be restored again.
func (g *Game) Restore(s *Snapshot) {
	g.Lives = s.Lives
	g.MinesLeft = s.MinesLeft
	g.Flags = s.Flags
	g.SafeClicks = s.SafeClicks
	g.Hints = s.Hints
	g.Board = s.Board.Clone()
	g.MinesPlaced = s.MinesPlaced
	g.ManualPlacement = s.ManualPlacement
	g.HintArmed = false

	switch {
	case g.Lives <= 0:
		g.status = Lost
		g.TimerRunning = false
	case g.status == NotStarted:
	default:
		g.status = Running
		g.TimerRunning = true
		g.CheckVictory()
	}
	g.log().Debug("game restored")
}

// History is an undo stack that lags one record behind: every Record stores
// the snapshot captured by the previous Record, so the top of the stack is
// always the state before the latest move.
type History struct {
	stack deque.Deque[*Snapshot]
	prev  *Snapshot
}

// NewHistory returns an empty history. The zero value is ready to use too;
// the first Record stores a nil snapshot that marks the bottom of the stack.
func NewHistory() *History {
	return &History{}
}

func (h *History) Record(g *Game) {
	h.stack.PushBack(h.prev)
	h.prev = g.Snapshot()
}

// Pop returns the latest stored snapshot or nil when there is nothing left to
// undo. The popped snapshot becomes the state the next Record lags behind.
func (h *History) Pop() *Snapshot {
	if h.stack.Len() == 0 || h.stack.Back() == nil {
		return nil
	}
	s := h.stack.PopBack()
	h.prev = s
	return s
}

// Len is the number of snapshots that can be popped.
func (h *History) Len() int {
	n := 0
	for i := range h.stack.Len() {
		if h.stack.At(i) != nil {
			n++
		}
	}
	return n
}
