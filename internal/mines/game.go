package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type Status int8

const (
	NotStarted Status = iota
	Running
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Game is one play session on a single board.
type Game struct {
	Difficulty Difficulty
	Board      *Board

	Lives      int
	MinesLeft  int // mines still to place while in manual placement mode
	Flags      int
	SafeClicks int
	Hints      int
	Elapsed    int // seconds

	TimerRunning    bool
	MinesPlaced     bool
	HintArmed       bool
	ManualPlacement bool

	status Status
	rnd    *rand.Rand
}

type Clock struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Outcome describes what a single player action did to the game.
type Outcome struct {
	Changed bool
	Started bool
	MineHit bool
	Painted bool
	Hinted  []Coords
	Status  Status
}

func NewGame(difficulty string, r *rand.Rand) (*Game, error) {
	d, err := LookupDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	board, err := NewBoard(d.Side)
	if err != nil {
		return nil, err
	}
	return &Game{
		Difficulty: d,
		Board:      board,
		Lives:      d.Lives,
		MinesLeft:  d.Mines,
		Flags:      d.Mines,
		SafeClicks: d.SafeClicks,
		Hints:      d.Hints,
		rnd:        r,
	}, nil
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Over() bool {
	return g.status == Lost || g.status == Won
}

func (g *Game) log() *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"difficulty": g.Difficulty.Name,
		"status":     g.status.String(),
		"lives":      g.Lives,
	})
}

func (g *Game) placeMines() error {
	if g.MinesPlaced {
		return nil
	}
	if err := g.Board.PlaceRandomMines(g.MinesLeft, g.rnd); err != nil {
		return err
	}
	g.MinesPlaced = true
	return nil
}

// Start places the mines unless they are already down and starts the clock.
// It does nothing once the game is running.
func (g *Game) Start() error {
	if g.status != NotStarted {
		return nil
	}
	if err := g.placeMines(); err != nil {
		return err
	}
	g.ManualPlacement = false
	g.status = Running
	g.TimerRunning = true
	g.log().Debug("game started")
	return nil
}

func (g *Game) playable(row, col int) (*Cell, bool) {
	if g.Over() || g.Lives <= 0 {
		return nil, false
	}
	return g.Board.Cell(row, col), true
}

// Reveal opens the cell at row:col. In manual placement mode it paints a mine
// and with an armed hint it peeks around the cell instead.
func (g *Game) Reveal(row, col int) (Outcome, error) {
	cell, ok := g.playable(row, col)
	if !ok || cell.IsFlagged || !cell.hidden() {
		return g.outcome(), nil
	}
	if g.ManualPlacement {
		return g.PaintMine(row, col), nil
	}

	var out Outcome
	if g.status == NotStarted {
		if err := g.Start(); err != nil {
			return out, err
		}
		out.Started = true
	}

	if g.HintArmed {
		hint, err := g.Hint(row, col)
		hint.Started = out.Started
		return hint, err
	}

	out.Changed = true
	cell.Reveal(false)
	if cell.IsMine {
		out.MineHit = true
		g.TriggerMine()
	} else {
		g.Board.RevealFloodFill(row, col)
		g.CheckVictory()
	}
	out.Status = g.status
	return out, nil
}

// Flag toggles the flag on a hidden cell.
func (g *Game) Flag(row, col int) (Outcome, error) {
	cell, ok := g.playable(row, col)
	if !ok || cell.IsShown {
		return g.outcome(), nil
	}

	var out Outcome
	if g.status == NotStarted && !g.ManualPlacement {
		if err := g.Start(); err != nil {
			return out, err
		}
		out.Started = true
	}

	out.Changed = true
	if cell.ToggleFlag() {
		g.Flags--
	} else {
		g.Flags++
	}
	if g.status == Running {
		g.CheckVictory()
	}
	out.Status = g.status
	return out, nil
}

// ToggleHint arms or disarms the hint for the next revealed cell.
func (g *Game) ToggleHint() bool {
	if g.Over() || (g.Hints <= 0 && !g.HintArmed) {
		return false
	}
	g.HintArmed = !g.HintArmed
	return true
}

// Hint spends one hint to peek at the 3x3 area around row:col.
func (g *Game) Hint(row, col int) (Outcome, error) {
	if _, ok := g.playable(row, col); !ok || g.Hints <= 0 {
		return g.outcome(), nil
	}
	if err := g.placeMines(); err != nil {
		return g.outcome(), err
	}
	g.Hints--
	g.HintArmed = false

	out := Outcome{Changed: true}
	for _, c := range g.Board.RevealHintArea(row, col) {
		out.Hinted = append(out.Hinted, c.coords)
	}
	out.Status = g.status
	return out, nil
}

func (g *Game) HideHints(coords []Coords) int {
	return g.Board.HideHints(coords)
}

// SafeClick highlights a random hidden cell that holds no mine.
func (g *Game) SafeClick() (Coords, bool, error) {
	if g.Over() || g.SafeClicks <= 0 {
		return Coords{}, false, nil
	}
	if err := g.placeMines(); err != nil {
		return Coords{}, false, err
	}
	g.SafeClicks--

	var safe []*Cell
	for c := range g.Board.Cells() {
		if !c.IsMine && !c.IsFlagged && c.hidden() {
			safe = append(safe, c)
		}
	}
	if len(safe) == 0 {
		return Coords{}, false, nil
	}
	cell := safe[g.rnd.IntN(len(safe))]
	cell.IsSafeClick = true
	return cell.coords, true, nil
}

func (g *Game) ClearSafeClick(at Coords) {
	if g.Board.InBounds(at.Row, at.Col) {
		g.Board.Cell(at.Row, at.Col).IsSafeClick = false
	}
}

// ToggleManualPlacement switches manual mine placement on or off. It is only
// available before the game starts and before any mines are down. Leaving the
// mode with some mines already painted keeps them as the final layout.
func (g *Game) ToggleManualPlacement() bool {
	if g.ManualPlacement {
		g.ManualPlacement = false
		if g.MinesLeft < g.Difficulty.Mines {
			g.MinesPlaced = true
			g.Flags = g.Board.MineCount()
		}
		return true
	}
	if g.status != NotStarted || g.MinesPlaced {
		return false
	}
	g.ManualPlacement = true
	return true
}

// PaintMine places a mine by hand at row:col.
func (g *Game) PaintMine(row, col int) Outcome {
	cell, ok := g.playable(row, col)
	if !ok || !g.ManualPlacement || cell.IsMine || cell.IsFlagged || cell.IsShown {
		return g.outcome()
	}
	cell.Reveal(true)
	g.MinesLeft--
	g.Board.RecomputeAdjacency(row, col)
	if g.MinesLeft <= 0 {
		g.ManualPlacement = false
		g.MinesPlaced = true
		g.log().Debug("manual placement done")
	}
	out := g.outcome()
	out.Changed, out.Painted = true, true
	return out
}

// SevenBoom rebuilds the board with the seven boom pattern and stops the
// clock. The game goes back to not started with a full set of lives, hints
// and safe clicks.
func (g *Game) SevenBoom() error {
	if err := g.Board.Reset(g.Difficulty.Side); err != nil {
		return err
	}
	n := g.Board.PlaceSevenBoomMines()
	g.MinesLeft, g.Flags = n, n
	g.Lives = g.Difficulty.Lives
	g.Hints = g.Difficulty.Hints
	g.SafeClicks = g.Difficulty.SafeClicks
	g.MinesPlaced = true
	g.ManualPlacement, g.HintArmed = false, false
	g.TimerRunning = false
	g.Elapsed = 0
	g.status = NotStarted
	return nil
}

// TriggerMine costs a life. Losing the last one ends the game and shows
// every mine.
func (g *Game) TriggerMine() {
	g.Lives--
	if g.Lives > 0 {
		g.log().Debug("mine hit")
		return
	}
	g.Lives = 0
	g.status = Lost
	g.TimerRunning = false
	g.Board.ForEachCell(func(c *Cell) {
		if c.IsMine {
			c.IsShown = true
			c.IsHint = false
		}
	})
	g.log().Info("game lost")
}

// CheckVictory reports whether the board is won. Either every safe cell is
// shown for real, or every mine is flagged and no flag sits on a safe cell.
func (g *Game) CheckVictory() bool {
	var mines, hidden, flaggedMines, wrongFlags int
	g.Board.ForEachCell(func(c *Cell) {
		switch {
		case c.IsMine:
			mines++
			if c.IsFlagged {
				flaggedMines++
			}
		case c.IsFlagged:
			wrongFlags++
			hidden++
		case !c.IsShown || c.IsHint:
			hidden++
		}
	})
	cleared := hidden == 0
	flagged := mines > 0 && flaggedMines == mines && wrongFlags == 0
	if !cleared && !flagged {
		return false
	}
	if g.status != Won {
		g.status = Won
		g.TimerRunning = false
		g.log().WithField("elapsed", g.Elapsed).Info("game won")
	}
	return true
}

// Tick advances the clock by one second while the game runs.
func (g *Game) Tick() Clock {
	if g.TimerRunning {
		g.Elapsed++
	}
	return g.Clock()
}

func (g *Game) Clock() Clock {
	return Clock{Minutes: g.Elapsed / 60, Seconds: g.Elapsed % 60}
}

func (g *Game) outcome() Outcome {
	return Outcome{Status: g.status}
}
