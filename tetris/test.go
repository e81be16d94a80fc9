package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	d           time.Duration
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *MockTicker) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
	m.stop = false
	m.d = d
}

func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}

func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// Interval returns the duration of the last Reset.
func (m *MockTicker) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d
}

type sequence struct {
	shapes []Shape
	i      int
}

// NewSequence returns a generator that cycles over the given shapes.
func NewSequence(shapes ...Shape) Generator {
	return &sequence{shapes: shapes}
}

func (s *sequence) Draw() Shape {
	shape := s.shapes[s.i%len(s.shapes)]
	s.i++
	return shape
}

// NewTestTetris creates a game where every tetromino has the given shape.
func NewTestTetris(shape Shape) *Tetris {
	return New(WithGenerator(NewSequence(shape)))
}

// NewTestGame creates a game where every tetromino has the given shape and
// returns it with its manual ticker.
func NewTestGame(shape Shape) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return NewConfigurableGame(ticker, slog.Default(), WithGenerator(NewSequence(shape))), ticker
}
