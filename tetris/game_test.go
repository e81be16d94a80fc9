package tetris

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStartStop(t *testing.T) {
	game, ticker := NewTestGame(J)
	go func() {
		for range game.Updates() {
		}
	}()
	game.Start()
	time.Sleep(50 * time.Millisecond)
	if !ticker.IsReset() {
		t.Errorf("Expected ticker to be reset")
	}
	if _, err := uuid.Parse(game.Session()); err != nil {
		t.Errorf("Expected a session id, got %q: %v", game.Session(), err)
	}
	game.Stop()
	if !ticker.IsStop() {
		t.Errorf("Expected ticker to be stopped")
	}
}

func TestUpdates(t *testing.T) {
	game, ticker := NewTestGame(O)
	go game.Start()
	s := <-game.Updates()
	if s.Active[0].Row != 0 {
		t.Fatalf("wanted the first snapshot to have the tetromino on row 0, got %d", s.Active[0].Row)
	}

	t.Run("tick moves the tetromino down", func(t *testing.T) {
		ticker.Tick()
		s := <-game.Updates()
		if s.Active[0].Row != 1 {
			t.Errorf("wanted tetromino on row 1, got %d", s.Active[0].Row)
		}
	})

	t.Run("actions are applied", func(t *testing.T) {
		game.Action(MoveLeft)
		s := <-game.Updates()
		if s.Active[0].Col != 3 {
			t.Errorf("wanted tetromino on column 3, got %d", s.Active[0].Col)
		}
	})

	t.Run("pause stops the ticker and resume resets it", func(t *testing.T) {
		game.Action(Pause)
		s := <-game.Updates()
		if s.Running {
			t.Errorf("wanted the game to be paused")
		}
		if !ticker.IsStop() {
			t.Errorf("wanted ticker to be stopped")
		}
		game.Action(Pause)
		s = <-game.Updates()
		if !s.Running {
			t.Errorf("wanted the game to be running")
		}
		if ticker.IsStop() || ticker.Interval() != BaseInterval {
			t.Errorf("wanted ticker to be reset to %v, got stopped %t, %v", BaseInterval, ticker.IsStop(), ticker.Interval())
		}
	})

	t.Run("clearing lines speeds up the ticker", func(t *testing.T) {
		game.tetris.stack.Reset()
		for c := 1; c < DefaultWidth; c++ {
			game.tetris.stack.cells[19][c] = L
		}
		game.tetris.linesClear = 9
		game.tetris.tetromino = &Tetromino{Grid: [][]bool{{true}}, X: 0, Y: 0, Shape: I}
		game.Action(DropDown)
		s := <-game.Updates()
		if s.Lines != 10 {
			t.Fatalf("wanted 10 lines, got %d", s.Lines)
		}
		if ticker.Interval() != 450*time.Millisecond {
			t.Errorf("wanted ticker to be reset to 450ms, got %v", ticker.Interval())
		}
	})

	t.Run("game over stops the ticker", func(t *testing.T) {
		game.tetris.stack.cells[2][4] = S
		game.Action(DropDown)
		s := <-game.Updates()
		if !s.GameOver {
			t.Fatalf("wanted game over")
		}
		if !ticker.IsStop() {
			t.Errorf("wanted ticker to be stopped")
		}
	})
}

func nextUpdate(t *testing.T, game *Game) *Snapshot {
	t.Helper()
	select {
	case s := <-game.Updates():
		return s
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for an update")
		return nil
	}
}

// gameOver drops an O onto a blocked spawn area so the next one can't spawn.
func gameOver(t *testing.T, game *Game) {
	t.Helper()
	game.tetris.stack.cells[2][4] = S
	game.Action(DropDown)
	if s := nextUpdate(t, game); !s.GameOver {
		t.Fatalf("wanted game over")
	}
}

func TestStartAgain(t *testing.T) {
	tests := []struct {
		name   string
		before func(t *testing.T, game *Game)
	}{
		{
			name: "after game over",
			before: func(t *testing.T, game *Game) {
				go game.Start()
				nextUpdate(t, game)
				gameOver(t, game)
			},
		},
		{
			name: "stopped after game over",
			before: func(t *testing.T, game *Game) {
				go game.Start()
				nextUpdate(t, game)
				gameOver(t, game)
				game.Stop()
			},
		},
		{
			name: "after a stopped session",
			before: func(t *testing.T, game *Game) {
				go game.Start()
				nextUpdate(t, game)
				game.Stop()
				game.Stop()
			},
		},
		{
			name:   "stopped before the first start",
			before: func(t *testing.T, game *Game) { game.Stop() },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, ticker := NewTestGame(O)
			tt.before(t, game)
			previous := game.Session()

			go game.Start()
			s := nextUpdate(t, game)
			if s.GameOver || !s.Running || s.Score != 0 {
				t.Fatalf("wanted a fresh game, got %+v", s)
			}
			if game.Session() == previous {
				t.Errorf("wanted a new session id, got %q again", previous)
			}

			game.Action(MoveLeft)
			s = nextUpdate(t, game)
			if s.Active[0].Col != 3 {
				t.Errorf("wanted tetromino on column 3, got %d", s.Active[0].Col)
			}
			ticker.Tick()
			s = nextUpdate(t, game)
			if s.Active[0].Row != 1 {
				t.Errorf("wanted tetromino on row 1, got %d", s.Active[0].Row)
			}
			game.Stop()
		})
	}
}

func TestStopEndsTheSession(t *testing.T) {
	t.Run("while nobody reads the updates", func(t *testing.T) {
		game, ticker := NewTestGame(O)
		go game.Start()
		nextUpdate(t, game)
		// the snapshot of this tick is never read.
		ticker.Tick()
		game.Stop()

		done := make(chan struct{})
		go func() { game.Action(MoveLeft); close(done) }()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("wanted the action to be dropped once the session is stopped")
		}
		if !ticker.IsStop() {
			t.Errorf("wanted ticker to be stopped")
		}
	})

	t.Run("before the first update is read", func(t *testing.T) {
		game, _ := NewTestGame(O)
		started := make(chan struct{})
		go func() { game.Start(); close(started) }()
		for game.Session() == "" {
			time.Sleep(time.Millisecond)
		}
		game.Stop()
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatalf("wanted Start to return once the session is stopped")
		}
		// no session is running, so nothing blocks.
		game.Action(MoveLeft)
	})

	t.Run("actions without a session are dropped", func(t *testing.T) {
		game, _ := NewTestGame(O)
		game.Action(MoveLeft)
	})
}
