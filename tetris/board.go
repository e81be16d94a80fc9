package tetris

import "fmt"

// Board is the playfield, also known as the stack.
// Rows are 0 > height-1 top to bottom, columns are 0 > width-1 left to right.
// An Empty cell is free; any other value is the shape that locked there.
type Board struct {
	cells         [][]Shape
	width, height int
}

func NewBoard(width, height int) *Board {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("tetris: invalid board size %dx%d", width, height))
	}
	b := &Board{width: width, height: height}
	b.cells = make([][]Shape, height)
	for i := range b.cells {
		b.cells[i] = make([]Shape, width)
	}
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Cell returns the content of the cell at the given row and column.
func (b *Board) Cell(row, col int) Shape { return b.cells[row][col] }

// Cells returns a copy of the board.
func (b *Board) Cells() [][]Shape {
	c := make([][]Shape, b.height)
	for i := range b.cells {
		c[i] = make([]Shape, b.width)
		copy(c[i], b.cells[i])
	}
	return c
}

// IsValidPlacement reports whether grid fits with its top-left corner at
// column x and row y. Cells above the board (negative rows) are allowed as
// long as their column is in range.
func (b *Board) IsValidPlacement(grid [][]bool, x, y int) bool {
	for ir, r := range grid {
		for ic, c := range r {
			if !c {
				continue
			}
			bx, by := x+ic, y+ir
			if bx < 0 || bx >= b.width || by >= b.height {
				return false
			}
			if by >= 0 && b.cells[by][bx] != Empty {
				return false
			}
		}
	}
	return true
}

// Merge writes the shape into every board cell covered by grid. Cells above
// the board are dropped. The placement must have been validated beforehand.
func (b *Board) Merge(grid [][]bool, x, y int, s Shape) {
	for ir, r := range grid {
		for ic, c := range r {
			if c && y+ir >= 0 {
				b.cells[y+ir][x+ic] = s
			}
		}
	}
}

// FullRows returns the index of every complete row in ascending order.
func (b *Board) FullRows() []int {
	var rows []int
	for i, r := range b.cells {
		full := true
		for _, c := range r {
			if c == Empty {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, i)
		}
	}
	return rows
}

// ClearRows removes the given rows and shifts everything above them down,
// filling the top with empty rows. It returns the number of rows removed.
func (b *Board) ClearRows(rows []int) int {
	if len(rows) == 0 {
		return 0
	}
	remove := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r < 0 || r >= b.height {
			panic(fmt.Sprintf("tetris: row %d out of range", r))
		}
		remove[r] = true
	}

	kept := make([][]Shape, 0, b.height)
	for i, r := range b.cells {
		if !remove[i] {
			kept = append(kept, r)
		}
	}
	cells := make([][]Shape, 0, b.height)
	for range b.height - len(kept) {
		cells = append(cells, make([]Shape, b.width))
	}
	b.cells = append(cells, kept...)

	return len(remove)
}

// Reset empties every cell.
func (b *Board) Reset() {
	for _, r := range b.cells {
		clear(r)
	}
}
