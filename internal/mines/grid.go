package mines

import (
	"strconv"
	"strings"
)

// CellState is what the player may see of one cell.
type CellState int8

const (
	SafeClick   CellState = -4 // hidden, highlighted as safe
	Painted     CellState = -3 // mine placed by hand, manual placement only
	Unknown     CellState = -2
	Flagged     CellState = -1
	Peeked      CellState = 16 // plus the surrounding count, shown by a hint
	PeekedMine  CellState = 32
	Mine        CellState = 64
	FlaggedMine CellState = 65
	/*
	 * 0 to 8 mean the cell is open and hold its surrounding mine count.
	 * Peeked+0 to Peeked+8 are the same for cells only shown by a hint.
	 * Mine is a shown mine, either hit or revealed when the game was lost,
	 * and FlaggedMine one the player had flagged.
	 */
)

func (s CellState) String() string {
	switch {
	case s == SafeClick:
		return "+"
	case s == Painted:
		return "#"
	case s == Unknown:
		return "."
	case s == Flagged:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case Peeked <= s && s <= Peeked+8:
		return "?"
	case s == PeekedMine, s == Mine:
		return "X"
	case s == FlaggedMine:
		return "F"
	default:
		return "!"
	}
}

func (c *Cell) state() CellState {
	switch {
	case c.IsShown && c.IsMine && c.IsFlagged:
		return FlaggedMine
	case c.IsFlagged:
		return Flagged
	case c.IsShown && c.IsHint && c.IsMine:
		return PeekedMine
	case c.IsShown && c.IsHint:
		return Peeked + CellState(c.SurroundingMines)
	case c.IsShown && c.IsMine:
		return Mine
	case c.IsShown:
		return CellState(c.SurroundingMines)
	case c.IsSafeClick:
		return SafeClick
	default:
		return Unknown
	}
}

// Grid is the player's row-major view of a board.
type Grid []CellState

// PlayerGrid hides everything the player has not uncovered. Hand placed mines
// stay visible while manual placement is on.
func (g *Game) PlayerGrid() Grid {
	grid := make(Grid, 0, g.Board.Len())
	for c := range g.Board.Cells() {
		s := c.state()
		if s == Unknown && g.ManualPlacement && c.IsMine {
			s = Painted
		}
		grid = append(grid, s)
	}
	return grid
}

// RevealedGrid shows every cell as if it were open: mines, flagged mines
// and surrounding counts.
func (g *Game) RevealedGrid() Grid {
	grid := make(Grid, 0, g.Board.Len())
	g.Board.ForEachCell(func(c *Cell) {
		switch {
		case c.IsMine && c.IsFlagged:
			grid = append(grid, FlaggedMine)
		case c.IsMine:
			grid = append(grid, Mine)
		default:
			grid = append(grid, CellState(c.SurroundingMines))
		}
	})
	return grid
}

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for i, s := range g {
		b.WriteString(s.String())
		if (i+1)%width == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
