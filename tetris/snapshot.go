package tetris

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshot is a copy of the game state that's safe to read concurrently.
type Snapshot struct {
	Board    [][]Shape
	Active   []Cell
	Next     Shape
	Score    int
	Lines    int
	Level    int
	Interval time.Duration
	Running  bool
	GameOver bool
}

// Snapshot returns a copy of the current state.
func (t *Tetris) Snapshot() *Snapshot {
	return &Snapshot{
		Board:    t.BoardCells(),
		Active:   t.ActiveCells(),
		Next:     t.NextShape(),
		Score:    t.score,
		Lines:    t.linesClear,
		Level:    t.Level(),
		Interval: t.interval,
		Running:  t.running,
		GameOver: t.gameOver,
	}
}

// Proto encodes the snapshot as a protobuf Struct. Board rows are strings with
// one letter per cell and '.' for empty cells.
func (s *Snapshot) Proto() (*structpb.Struct, error) {
	rows := make([]any, len(s.Board))
	for i, r := range s.Board {
		b := make([]byte, len(r))
		for j, c := range r {
			b[j] = '.'
			if c != Empty {
				b[j] = c.String()[0]
			}
		}
		rows[i] = string(b)
	}
	active := make([]any, len(s.Active))
	for i, c := range s.Active {
		active[i] = map[string]any{"row": c.Row, "col": c.Col, "shape": c.Shape.String()}
	}
	next := ""
	if s.Next != Empty {
		next = s.Next.String()
	}

	st, err := structpb.NewStruct(map[string]any{
		"board":       rows,
		"active":      active,
		"next":        next,
		"score":       s.Score,
		"lines":       s.Lines,
		"level":       s.Level,
		"interval_ms": s.Interval.Milliseconds(),
		"running":     s.Running,
		"game_over":   s.GameOver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return st, nil
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	st, err := s.Proto()
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(st)
}
