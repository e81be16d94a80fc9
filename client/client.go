package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"blockfall/tetris"

	"github.com/eiannone/keyboard"
)

type clientState int

const (
	lobby clientState = iota
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type tetrisGame interface {
	Start()
	Updates() <-chan *tetris.Snapshot
	Action(tetris.Action)
	Stop()
}

type renderer interface {
	game(*tetris.Snapshot)
	lobby(message)
}

type Client struct {
	tetris  tetrisGame
	render  renderer
	options *Options
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	state   *state
	quitCh  chan struct{} // closed when Start returns.
}

type Options struct {
	// Name is shown on top of the board.
	Name string
	// Seed makes the sequence of tetrominos reproducible. Zero means random.
	Seed uint64
	// Bag draws tetrominos from a shuffled bag of seven instead of uniformly at random.
	Bag bool
	// SnapshotPath, when set, is where the final state of every game is written.
	SnapshotPath string
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	var opts []tetris.Option
	switch {
	case o.Bag:
		opts = append(opts, tetris.WithGenerator(tetris.NewBag(o.Seed)))
	case o.Seed != 0:
		opts = append(opts, tetris.WithSeed(o.Seed))
	}
	return &Client{
		tetris:  tetris.NewGame(l, opts...),
		render:  newRender(l, o.Name),
		options: o,
		logger:  l,
		kbCh:    kb,
		state:   &state{current: lobby},
	}, nil
}

// Start shows the lobby and blocks until the user quits.
func (c *Client) Start() {
	c.render.game(nil)
	c.render.lobby(defaultLobby())
	c.quitCh = make(chan struct{})
	defer close(c.quitCh)
	var wg sync.WaitGroup
	wg.Add(1)
	go c.listenKB(&wg)
	wg.Wait()
}

// Close releases the keyboard.
func (c *Client) Close() error {
	if err := keyboard.Close(); err != nil {
		return fmt.Errorf("failed to close keyboard: %w", err)
	}
	return nil
}

func (c *Client) listenKB(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			if c.state.get() == playing {
				c.tetris.Stop()
			}
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.state.set(playing)
				go c.listenTetris()
			case 'q':
				return
			default:
				continue
			}
		case playing:
			var a tetris.Action
			switch {
			case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
				a = tetris.MoveDown
			case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
				a = tetris.MoveLeft
			case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
				a = tetris.MoveRight
			case event.Key == keyboard.KeyArrowUp || event.Rune == 'e':
				a = tetris.RotateRight
			case event.Key == keyboard.KeySpace:
				a = tetris.DropDown
			case event.Rune == 'p':
				a = tetris.Pause
			case event.Rune == 'r':
				a = tetris.Restart
			default:
				continue
			}
			c.tetris.Action(a)
		}
	}
}

func (c *Client) listenTetris() {
	go c.tetris.Start()
	for {
		select {
		case u := <-c.tetris.Updates():
			c.render.game(u)
			if u.GameOver {
				c.saveSnapshot(u)
				c.render.lobby(gameOver(u.Score))
				c.state.set(lobby)
				return
			}
		case <-c.quitCh:
			return
		}
	}
}

func (c *Client) saveSnapshot(s *tetris.Snapshot) {
	if c.options == nil || c.options.SnapshotPath == "" {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		c.logger.Error("unable to encode snapshot", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(c.options.SnapshotPath, b, 0o600); err != nil {
		c.logger.Error("unable to write snapshot", slog.String("error", err.Error()), slog.String("path", c.options.SnapshotPath))
		return
	}
	c.logger.Debug("snapshot written", slog.String("path", c.options.SnapshotPath))
}
