// Package tetris contains the logic of the game: the playfield, the falling
// piece and the rules that move one into the other.
//
// The engine is synchronous and not safe for concurrent use. Game wraps it
// in a single goroutine driven by a ticker for callers that need that.
package tetris

import (
	"time"
)

const (
	DefaultWidth  = 10
	DefaultHeight = 20

	BaseInterval  = 500 * time.Millisecond
	IntervalStep  = 50 * time.Millisecond
	MinInterval   = 100 * time.Millisecond
	LinesPerLevel = 10
)

// points awarded by the number of rows cleared by a single lock.
var points = [...]int{0, 100, 300, 500, 800}

// Cell is a board cell covered by the active tetromino.
type Cell struct {
	Row, Col int
	Shape    Shape
}

// Tetris holds the state of a single game session.
type Tetris struct {
	stack         *Board
	tetromino     *Tetromino
	next          *Tetromino
	gen           Generator
	score         int
	linesClear    int
	interval      time.Duration
	running       bool
	gameOver      bool
	width, height int
}

type Option func(*Tetris)

// WithSize sets the board dimensions. Defaults to 10x20.
func WithSize(width, height int) Option {
	return func(t *Tetris) {
		t.width = width
		t.height = height
	}
}

// WithGenerator sets where new pieces come from.
func WithGenerator(g Generator) Option {
	return func(t *Tetris) { t.gen = g }
}

// WithSeed makes the uniform random generator reproducible.
func WithSeed(seed uint64) Option {
	return func(t *Tetris) { t.gen = NewRandom(seed) }
}

// New returns a game that is already running.
func New(opts ...Option) *Tetris {
	t := &Tetris{
		width:  DefaultWidth,
		height: DefaultHeight,
	}
	for _, o := range opts {
		o(t)
	}
	if t.gen == nil {
		t.gen = NewRandom(uint64(time.Now().UnixNano()))
	}
	t.stack = NewBoard(t.width, t.height)
	t.Reset()
	return t
}

// Reset clears the board and the counters and spawns a new pair of pieces.
func (t *Tetris) Reset() {
	t.stack.Reset()
	t.score = 0
	t.linesClear = 0
	t.interval = BaseInterval
	t.next = newTetromino(t.gen.Draw(), t.width)
	t.spawn()
	t.running = true
	t.gameOver = false
}

// Tick advances the game one step and returns the interval the caller should
// wait before the next tick.
func (t *Tetris) Tick() time.Duration {
	if t.active() {
		t.down()
	}
	return t.interval
}

// Left moves the tetromino one column to the left if possible.
func (t *Tetris) Left() {
	if t.active() {
		t.move(-1, 0)
	}
}

// Right moves the tetromino one column to the right if possible.
func (t *Tetris) Right() {
	if t.active() {
		t.move(1, 0)
	}
}

// Rotate rotates the tetromino clockwise. If the rotated piece doesn't fit
// where it is, nothing happens.
func (t *Tetris) Rotate() {
	if !t.active() {
		return
	}
	r := t.tetromino.rotated()
	if t.stack.IsValidPlacement(r, t.tetromino.X, t.tetromino.Y) {
		t.tetromino.Grid = r
	}
}

// SoftDrop moves the tetromino one row down, locking it if it can't move.
func (t *Tetris) SoftDrop() {
	if t.active() {
		t.down()
	}
}

// HardDrop moves the tetromino down until it's blocked and locks it.
func (t *Tetris) HardDrop() {
	if !t.active() {
		return
	}
	for t.move(0, 1) {
	}
	t.lock()
}

// TogglePause pauses or resumes the game. While paused the tetromino doesn't
// fall and every move is ignored.
func (t *Tetris) TogglePause() {
	if t.gameOver {
		return
	}
	t.running = !t.running
}

func (t *Tetris) active() bool { return t.running && !t.gameOver }

// move commits the translation only if the result is a valid placement.
func (t *Tetris) move(dx, dy int) bool {
	tt := t.tetromino
	if !t.stack.IsValidPlacement(tt.Grid, tt.X+dx, tt.Y+dy) {
		return false
	}
	tt.translate(dx, dy)
	return true
}

func (t *Tetris) down() {
	if !t.move(0, 1) {
		t.lock()
	}
}

// lock merges the tetromino into the stack, clears complete rows and
// brings in the next piece.
func (t *Tetris) lock() {
	tt := t.tetromino
	t.stack.Merge(tt.Grid, tt.X, tt.Y, tt.Shape)
	t.clearLines()
	t.spawn()
	if !t.stack.IsValidPlacement(t.tetromino.Grid, t.tetromino.X, t.tetromino.Y) {
		t.gameOver = true
		t.running = false
	}
}

func (t *Tetris) clearLines() {
	n := t.stack.ClearRows(t.stack.FullRows())
	if n == 0 {
		return
	}
	t.score += points[min(n, len(points)-1)]
	t.linesClear += n
	t.setInterval()
}

func (t *Tetris) setInterval() {
	t.interval = max(MinInterval, BaseInterval-time.Duration(t.linesClear/LinesPerLevel)*IntervalStep)
}

func (t *Tetris) spawn() {
	t.tetromino = t.next
	t.next = newTetromino(t.gen.Draw(), t.width)
}

// Apply runs the command matching the action. Unknown actions are ignored.
func (t *Tetris) Apply(a Action) {
	switch a {
	case MoveLeft:
		t.Left()
	case MoveRight:
		t.Right()
	case MoveDown:
		t.SoftDrop()
	case DropDown:
		t.HardDrop()
	case RotateRight:
		t.Rotate()
	case Pause:
		t.TogglePause()
	case Restart:
		t.Reset()
	}
}

// BoardCells returns a copy of the stack without the active tetromino.
func (t *Tetris) BoardCells() [][]Shape { return t.stack.Cells() }

// ActiveCells returns the visible cells of the active tetromino. It's empty
// once the game is over.
func (t *Tetris) ActiveCells() []Cell {
	if t.gameOver || t.tetromino == nil {
		return nil
	}
	var cells []Cell
	for ir, r := range t.tetromino.Grid {
		for ic, c := range r {
			if c && t.tetromino.Y+ir >= 0 {
				cells = append(cells, Cell{Row: t.tetromino.Y + ir, Col: t.tetromino.X + ic, Shape: t.tetromino.Shape})
			}
		}
	}
	return cells
}

// NextShape returns the shape that spawns after the active tetromino locks.
func (t *Tetris) NextShape() Shape { return t.next.Shape }

// Score returns the points earned since the last reset.
func (t *Tetris) Score() int { return t.score }

// LinesCleared returns the rows cleared since the last reset.
func (t *Tetris) LinesCleared() int { return t.linesClear }

// Level goes up by one every LinesPerLevel cleared rows, starting at 1.
func (t *Tetris) Level() int { return t.linesClear/LinesPerLevel + 1 }

// TickInterval returns how long to wait between ticks at the current speed.
func (t *Tetris) TickInterval() time.Duration { return t.interval }

// IsRunning reports whether the game is neither paused nor over.
func (t *Tetris) IsRunning() bool { return t.running }

// IsGameOver reports whether a spawned tetromino didn't fit.
func (t *Tetris) IsGameOver() bool { return t.gameOver }

// Tetromino returns a copy of the active tetromino.
func (t *Tetris) Tetromino() *Tetromino { return t.tetromino.copy() }
