package mines

import "fmt"

type Coords struct {
	Row, Col int
}

func (c Coords) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

type Cell struct {
	coords           Coords
	IsMine           bool
	IsShown          bool
	IsFlagged        bool
	IsHint           bool // shown by a hint, hidden again when it expires
	IsSafeClick      bool
	SurroundingMines int
}

func NewCell(row, col int) (*Cell, error) {
	if row < 0 || col < 0 {
		return nil, ArgumentError{
			fmt.Sprintf("invalid cell coordinates %d:%d", row, col),
		}
	}
	return &Cell{coords: Coords{row, col}}, nil
}

func (c *Cell) Coords() Coords {
	return c.coords
}

// Reveal opens the cell. In manual placement mode it paints a mine instead.
// Flagged cells are left untouched.
func (c *Cell) Reveal(manual bool) {
	if c.IsFlagged {
		return
	}
	if manual {
		c.IsMine = true
		c.SurroundingMines = 0
		return
	}
	c.IsShown = true
	c.IsHint = false
}

// ToggleFlag does not check IsShown, callers do.
func (c *Cell) ToggleFlag() bool {
	c.IsFlagged = !c.IsFlagged
	return c.IsFlagged
}

func (c *Cell) incrementSurroundingMines() {
	c.SurroundingMines++
}

// hidden reports whether the player cannot see the cell permanently.
func (c *Cell) hidden() bool {
	return !c.IsShown || c.IsHint
}

func (c *Cell) Clone() *Cell {
	clone := *c
	return &clone
}

func (c *Cell) String() string {
	switch {
	case c.IsFlagged:
		return "*"
	case c.hidden():
		return "."
	case c.IsMine:
		return "X"
	case c.SurroundingMines == 0:
		return " "
	default:
		return fmt.Sprint(c.SurroundingMines)
	}
}
