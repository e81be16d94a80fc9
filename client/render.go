package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"blockfall/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos = "\033[H" // Reset cursor position to 0,0
)

//go:embed "layout.tmpl"
var layout string

// colorMap translates the color tag of every shape to its ASCII color.
var colorMap = map[string]string{
	tetris.I.Color(): Cyan,
	tetris.J.Color(): Blue,
	tetris.L.Color(): Orange,
	tetris.O.Color(): Yellow,
	tetris.S.Color(): Green,
	tetris.Z.Color(): Red,
	tetris.T.Color(): Magenta,
}

type templateData struct {
	Game *tetris.Snapshot
	Name string
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData
}

func newRender(l *slog.Logger, name string) *render {
	return &render{
		writer:       os.Stdout,
		logger:       l,
		template:     loadTemplate(),
		templateData: &templateData{Name: name, Game: &tetris.Snapshot{}},
	}
}

type message []string

func defaultLobby() message {
	return message{
		"+--------------------+",
		"|  Terminal  Tetris  |",
		"|                    |",
		"| (p)lay     (q)uit  |",
		"+--------------------+",
	}
}

func gameOver(score int) message {
	return message{
		"+--------------------+",
		"|    Game Over :)    |",
		fmt.Sprintf("| score %12d |", score),
		"| (p)lay     (q)uit  |",
		"+--------------------+",
	}
}

// lobby prints the message on top of the board.
func (r *render) lobby(m message) {
	for i, l := range m {
		fmt.Fprintf(r.writer, "\033[%d;2H%s", 9+i, l)
	}
}

// game renders the snapshot. A nil snapshot renders the last one again.
func (r *render) game(s *tetris.Snapshot) {
	if s != nil {
		r.templateData.Game = s
	}
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in game()", slog.String("error", err.Error()))
	}
}

func loadTemplate() *template.Template {
	funcMap := template.FuncMap{
		"board":     board,
		"nextPiece": nextPiece,
		"status":    status,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	return template.Must(template.New("layout").Funcs(funcMap).Parse(l))
}

func cell(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s.Color()])
}

// board renders every row of the stack with the active tetromino on top.
// Empty cells are two spaces wide, like the filled ones.
func board(td *templateData) []string {
	height, width := tetris.DefaultHeight, tetris.DefaultWidth
	if len(td.Game.Board) > 0 {
		height, width = len(td.Game.Board), len(td.Game.Board[0])
	}
	rendered := make([][]string, height)
	for y := range rendered {
		rendered[y] = make([]string, width)
		for x := range rendered[y] {
			rendered[y][x] = "  "
			if y < len(td.Game.Board) && td.Game.Board[y][x] != tetris.Empty {
				rendered[y][x] = cell(td.Game.Board[y][x])
			}
		}
	}
	for _, c := range td.Game.Active {
		rendered[c.Row][c.Col] = cell(c.Shape)
	}

	rows := make([]string, height)
	for i, r := range rendered {
		rows[i] = strings.Join(r, "")
	}
	return rows
}

// nextPiece renders the two rows of the next tetromino.
func nextPiece(td *templateData) []string {
	rendered := []string{strings.Repeat(" ", 8), strings.Repeat(" ", 8)}
	if td.Game.Next == tetris.Empty {
		return rendered
	}
	for i, r := range td.Game.Next.Grid() {
		row := []string{"  ", "  ", "  ", "  "}
		for iv, v := range r {
			if v {
				row[iv] = cell(td.Game.Next)
			}
		}
		rendered[i] = strings.Join(row, "")
	}
	return rendered
}

func status(td *templateData) string {
	switch {
	case td.Game.GameOver:
		return "GAME OVER"
	case len(td.Game.Board) > 0 && !td.Game.Running:
		return "PAUSED   "
	default:
		return "         "
	}
}
