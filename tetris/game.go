package tetris

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	MoveLeft    Action = "left"     // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"    // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"     // Moves the Tetromino one step down.
	DropDown    Action = "drop"     // Drops the Tetromino down the stack.
	RotateRight Action = "rotatecw" // Rotates the Tetromino clockwise.
	Pause       Action = "pause"    // Pauses or resumes the game.
	Restart     Action = "restart"  // Starts over with an empty stack.
)

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	t := &wrappedTicker{ticker: time.NewTicker(d)}
	t.ticker.Stop()
	return t
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Tetris session in its own goroutine. Ticks and actions are
// applied one at a time, and a Snapshot is published after each of them.
type Game struct {
	updateCh chan *Snapshot
	actionCh chan Action
	tetris   *Tetris
	ticker   Ticker
	logger   *slog.Logger
	session  string
	doneCh   chan struct{} // closed by Stop.
	exitCh   chan struct{} // closed when the session's goroutine returns.
	mu       sync.Mutex
}

func NewGame(l *slog.Logger, opts ...Option) *Game {
	return NewConfigurableGame(newWrappedTicker(BaseInterval), l, opts...)
}

func NewConfigurableGame(ticker Ticker, l *slog.Logger, opts ...Option) *Game {
	if l == nil {
		l = slog.Default()
	}
	return &Game{
		updateCh: make(chan *Snapshot),
		actionCh: make(chan Action),
		tetris:   New(opts...),
		ticker:   ticker,
		logger:   l,
	}
}

// Start ends the previous session, if any, and begins a new one. It blocks
// until the first snapshot is read from Updates() or the session is stopped.
func (g *Game) Start() {
	g.Stop()
	g.mu.Lock()
	prev := g.exitCh
	g.mu.Unlock()
	if prev != nil {
		<-prev
	}

	g.mu.Lock()
	g.tetris.Reset()
	session := uuid.New().String()
	doneCh, exitCh := make(chan struct{}), make(chan struct{})
	g.session, g.doneCh, g.exitCh = session, doneCh, exitCh
	g.mu.Unlock()

	g.logger.Info("game started", slog.String("session", session))
	select {
	case g.updateCh <- g.tetris.Snapshot():
	case <-doneCh:
		g.logger.Info("game stopped", slog.String("session", session))
		close(exitCh)
		return
	}
	go g.listen(session, doneCh, exitCh)
}

// Stop ends the current session. It does nothing if the session already
// finished or never started.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.doneCh == nil {
		return
	}
	select {
	case <-g.exitCh:
	default:
		g.ticker.Stop()
		close(g.doneCh)
	}
	g.doneCh = nil
}

// Action sends an action to the running session. It's dropped if there's
// no session or it already finished.
func (g *Game) Action(a Action) {
	g.mu.Lock()
	exitCh := g.exitCh
	g.mu.Unlock()
	if exitCh == nil {
		return
	}
	select {
	case g.actionCh <- a:
	case <-exitCh:
	}
}

func (g *Game) Updates() <-chan *Snapshot { return g.updateCh }

// Session returns the id of the current session.
func (g *Game) Session() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

func (g *Game) listen(session string, doneCh <-chan struct{}, exitCh chan struct{}) {
	defer close(exitCh)
	interval := g.tetris.TickInterval()
	g.ticker.Reset(interval)
	for {
		select {
		case <-g.ticker.C():
			if d := g.tetris.Tick(); d != interval {
				interval = d
				g.ticker.Reset(interval)
				g.logger.Debug("tick interval changed", slog.String("session", session), slog.Duration("interval", interval))
			}
		case a := <-g.actionCh:
			wasRunning := g.tetris.IsRunning()
			g.tetris.Apply(a)
			switch {
			case wasRunning && !g.tetris.IsRunning() && !g.tetris.IsGameOver():
				g.ticker.Stop()
			case !wasRunning && g.tetris.IsRunning(), interval != g.tetris.TickInterval():
				// the action resumed, restarted or sped up the game.
				interval = g.tetris.TickInterval()
				g.ticker.Reset(interval)
			}
		case <-doneCh:
			g.ticker.Stop()
			g.logger.Info("game stopped", slog.String("session", session))
			return
		}

		s := g.tetris.Snapshot()
		if s.GameOver {
			g.ticker.Stop()
			g.logger.Info("game over",
				slog.String("session", session),
				slog.Int("score", s.Score),
				slog.Int("lines", s.Lines),
			)
		}
		select {
		case g.updateCh <- s:
		case <-doneCh:
			g.ticker.Stop()
			g.logger.Info("game stopped", slog.String("session", session))
			return
		}
		if s.GameOver {
			return
		}
	}
}
