package tetris

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Shape identifies a tetromino in the catalog. The same value is written
// into the Board when a piece locks so the renderer can pick its color.
type Shape int

const (
	Empty Shape = iota
	I
	O
	T
	S
	Z
	J
	L
)

// ShapesCount is the number of shapes in the catalog.
const ShapesCount = 7

type shapeDef struct {
	name  string
	color string
	grid  [][]bool
}

// catalog is indexed by Shape. Grids are never handed out directly.
var catalog = [ShapesCount + 1]shapeDef{
	I: {
		name:  "I",
		color: "cyan",
		grid: [][]bool{
			{true, true, true, true},
		},
	},
	O: {
		name:  "O",
		color: "yellow",
		grid: [][]bool{
			{true, true},
			{true, true},
		},
	},
	T: {
		name:  "T",
		color: "magenta",
		grid: [][]bool{
			{false, true, false},
			{true, true, true},
		},
	},
	S: {
		name:  "S",
		color: "green",
		grid: [][]bool{
			{false, true, true},
			{true, true, false},
		},
	},
	Z: {
		name:  "Z",
		color: "red",
		grid: [][]bool{
			{true, true, false},
			{false, true, true},
		},
	},
	J: {
		name:  "J",
		color: "blue",
		grid: [][]bool{
			{true, false, false},
			{true, true, true},
		},
	},
	L: {
		name:  "L",
		color: "orange",
		grid: [][]bool{
			{false, false, true},
			{true, true, true},
		},
	},
}

func (s Shape) def() shapeDef {
	if s < I || s > L {
		panic(fmt.Sprintf("tetris: shape id %d out of range", int(s)))
	}
	return catalog[s]
}

// Grid returns a copy of the shape's matrix in its spawn orientation.
func (s Shape) Grid() [][]bool { return copyGrid(s.def().grid) }

// Color returns the color tag of the shape. The engine doesn't interpret it.
func (s Shape) Color() string { return s.def().color }

func (s Shape) String() string {
	if s == Empty {
		return ""
	}
	return s.def().name
}

// Tetromino is the piece currently falling (or waiting to fall) on the board.
//
// X and Y are the board column and row of the grid's top-left corner.
// Row 0 is the top of the board, so Y grows while the piece falls.
//
//	.	0 1 2 3 4 5 6 7 8 9		.	0 1 2
//	0	. . . . O . . . . .		0	X O X
//	1	. . . O O O . . . .		1	O O O
//	2	. . . . . . . . . .
type Tetromino struct {
	Grid  [][]bool
	X, Y  int
	Shape Shape
}

// newTetromino spawns a shape horizontally centered on the top row of a board
// with the given width.
func newTetromino(s Shape, width int) *Tetromino {
	grid := s.Grid()
	return &Tetromino{
		Grid:  grid,
		X:     width/2 - len(grid[0])/2,
		Y:     0,
		Shape: s,
	}
}

// rotated returns a new grid rotated clockwise. The tetromino is not modified.
func (t *Tetromino) rotated() [][]bool {
	rows := len(t.Grid)
	cols := len(t.Grid[0])
	r := make([][]bool, cols)
	for c := range cols {
		r[c] = make([]bool, rows)
	}
	for ir, row := range t.Grid {
		for ic, v := range row {
			r[ic][rows-1-ir] = v
		}
	}
	return r
}

func (t *Tetromino) translate(dx, dy int) {
	t.X += dx
	t.Y += dy
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	return &Tetromino{
		Grid:  copyGrid(t.Grid),
		X:     t.X,
		Y:     t.Y,
		Shape: t.Shape,
	}
}

func copyGrid(g [][]bool) [][]bool {
	c := make([][]bool, len(g))
	for i := range g {
		c[i] = slices.Clone(g[i])
	}
	return c
}

// Generator supplies the shape of every new piece.
type Generator interface {
	Draw() Shape
}

type randomGenerator struct {
	rnd *rand.Rand
}

// NewRandom returns a generator that picks every shape uniformly at random,
// so long droughts of a given shape are possible.
func NewRandom(seed uint64) Generator {
	return &randomGenerator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randomGenerator) Draw() Shape { return Shape(r.rnd.IntN(ShapesCount) + 1) }

// Bag is a 7-bag generator: every shape is drawn once before the bag is
// refilled. https://tetris.wiki/Random_Generator
type Bag struct {
	bag   []Shape
	rnd   *rand.Rand
	first bool
}

// NewBag returns a bag seeded for a reproducible sequence.
func NewBag(seed uint64) *Bag {
	b := &Bag{
		rnd:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		first: true,
	}
	b.fill()
	return b
}

func (b *Bag) fill() {
	b.bag = []Shape{I, O, T, S, Z, J, L}
	b.rnd.Shuffle(len(b.bag), func(i, j int) { b.bag[i], b.bag[j] = b.bag[j], b.bag[i] })
	if b.first {
		// the first piece of a game is never S, Z or O.
		for slices.Contains([]Shape{S, Z, O}, b.bag[0]) {
			b.rnd.Shuffle(len(b.bag), func(i, j int) { b.bag[i], b.bag[j] = b.bag[j], b.bag[i] })
		}
		b.first = false
	}
}

// Draw takes the next shape out of the bag, refilling it when empty.
func (b *Bag) Draw() Shape {
	if len(b.bag) == 0 {
		b.fill()
	}
	s := b.bag[0]
	b.bag = b.bag[1:]
	return s
}
