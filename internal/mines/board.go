package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

// Board is a square grid of cells stored row-major.
type Board struct {
	side  int
	cells []*Cell
}

func NewBoard(side int) (*Board, error) {
	b := &Board{}
	if err := b.Reset(side); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset rebuilds the grid with fresh cells.
func (b *Board) Reset(side int) error {
	if side <= 0 {
		return ArgumentError{fmt.Sprintf("invalid board side %d", side)}
	}
	cells := make([]*Cell, side*side)
	for i := range cells {
		cells[i] = &Cell{coords: Coords{i / side, i % side}}
	}
	b.side, b.cells = side, cells
	return nil
}

func (b *Board) Side() int {
	return b.side
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.side && 0 <= col && col < b.side
}

// panics [ArgumentError]
func (b *Board) Cell(row, col int) *Cell {
	if !b.InBounds(row, col) {
		panic(ArgumentError{
			fmt.Sprintf("cell %d:%d is out of a %dx%d board", row, col, b.side, b.side),
		})
	}
	return b.cells[row*b.side+col]
}

// Cells yields every cell in row-major order.
func (b *Board) Cells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for _, c := range b.cells {
			if !yield(c) {
				return
			}
		}
	}
}

func (b *Board) ForEachCell(visit func(*Cell)) {
	for c := range b.Cells() {
		visit(c)
	}
}

// neighbors yields the clipped 3x3 area around row:col. The center is
// included when self is set; diagonal cells are skipped unless corners is set.
func (b *Board) neighbors(row, col int, self, corners bool) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 && !self {
					continue
				}
				if dr != 0 && dc != 0 && !corners {
					continue
				}
				r, c := row+dr, col+dc
				if !b.InBounds(r, c) {
					continue
				}
				if !yield(b.cells[r*b.side+c]) {
					return
				}
			}
		}
	}
}

func (b *Board) MineCount() int {
	n := 0
	for c := range b.Cells() {
		if c.IsMine {
			n++
		}
	}
	return n
}

// PlaceRandomMines shuffles every cell index and mines the first n of them,
// then fills in the adjacency counts. It must run once per board.
func (b *Board) PlaceRandomMines(n int, r *rand.Rand) error {
	total := len(b.cells)
	if n < 0 || n >= total {
		return ArgumentError{
			fmt.Sprintf("cannot place %d mines on %d cells", n, total),
		}
	}

	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	r.Shuffle(total, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	placed := indices[:n]
	for _, i := range placed {
		b.cells[i].IsMine = true
	}
	for _, i := range placed {
		b.RecomputeAdjacency(i/b.side, i%b.side)
	}

	Log.WithFields(logrus.Fields{
		"side":  b.side,
		"mines": n,
	}).Debug("placed random mines")
	return nil
}

func isSevenBoom(index int) bool {
	return index%7 == 0 || strings.ContainsRune(strconv.Itoa(index), '7')
}

// PlaceSevenBoomMines mines every cell whose 1-based row-major index is a
// multiple of seven or contains the digit seven. It returns the mine count.
func (b *Board) PlaceSevenBoomMines() int {
	n := 0
	for i, c := range b.cells {
		if isSevenBoom(i + 1) {
			c.IsMine = true
			n++
		}
	}
	for _, c := range b.cells {
		if c.IsMine {
			b.RecomputeAdjacency(c.coords.Row, c.coords.Col)
		}
	}
	Log.WithFields(logrus.Fields{
		"side":  b.side,
		"mines": n,
	}).Debug("placed seven boom mines")
	return n
}

// RecomputeAdjacency increments the count of every non-mine cell around a
// freshly placed mine at row:col.
func (b *Board) RecomputeAdjacency(row, col int) {
	for c := range b.neighbors(row, col, false, true) {
		if !c.IsMine {
			c.incrementSurroundingMines()
		}
	}
}

// RevealFloodFill opens row:col and, when it has no surrounding mines,
// cascades through its cardinal neighbors. Diagonal cells are never entered
// by the cascade even though they take part in the adjacency counts.
func (b *Board) RevealFloodFill(row, col int) {
	target := b.Cell(row, col)
	if target.IsFlagged {
		return
	}
	target.Reveal(false)
	if target.IsMine || target.SurroundingMines != 0 {
		return
	}

	var todo deque.Deque[Coords]
	todo.PushBack(target.coords)
	opened := 1
	for todo.Len() > 0 {
		at := todo.PopFront()
		for c := range b.neighbors(at.Row, at.Col, false, false) {
			if c.IsMine || c.IsFlagged {
				continue
			}
			expand := c.SurroundingMines == 0 && c.hidden()
			if c.hidden() {
				opened++
			}
			c.Reveal(false)
			if expand {
				todo.PushBack(c.coords)
			}
		}
	}

	Log.WithFields(logrus.Fields{
		"origin": target.coords.String(),
		"opened": opened,
	}).Debug("flood fill")
}

// RevealHintArea temporarily shows the hidden, unflagged cells of the 3x3
// area around row:col and returns them.
func (b *Board) RevealHintArea(row, col int) []*Cell {
	b.Cell(row, col) // bounds check
	var hinted []*Cell
	for c := range b.neighbors(row, col, true, true) {
		if c.IsShown || c.IsFlagged {
			continue
		}
		c.IsShown = true
		c.IsHint = true
		hinted = append(hinted, c)
	}
	return hinted
}

// HideHints hides the cells at coords that are still only shown by a hint and
// returns how many were hidden. Coordinates outside the board are ignored.
func (b *Board) HideHints(coords []Coords) int {
	n := 0
	for _, at := range coords {
		if !b.InBounds(at.Row, at.Col) {
			continue
		}
		c := b.cells[at.Row*b.side+at.Col]
		if !c.IsHint {
			continue
		}
		c.IsShown = false
		c.IsHint = false
		n++
	}
	return n
}

func (b *Board) Clone() *Board {
	clone := &Board{side: b.side, cells: make([]*Cell, len(b.cells))}
	for i, c := range b.cells {
		clone.cells[i] = c.Clone()
	}
	return clone
}

func (b *Board) String() string {
	var sb strings.Builder
	for i, c := range b.cells {
		sb.WriteString(c.String())
		if (i+1)%b.side == 0 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
