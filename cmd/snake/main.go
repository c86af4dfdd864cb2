// Command snake is a turn-based terminal driver: every key press is one move.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snakeboard/game"
	"github.com/brensch/snakeboard/rules"
	"github.com/brensch/snakeboard/stats"
	"github.com/brensch/snakeboard/store"
)

var keyMoves = map[string]game.Direction{
	"up": game.Up, "k": game.Up, "w": game.Up,
	"down": game.Down, "j": game.Down, "s": game.Down,
	"left": game.Left, "h": game.Left, "a": game.Left,
	"right": game.Right, "l": game.Right, "d": game.Right,
}

type model struct {
	rows, cols int32
	rng        *rand.Rand
	board      *game.Board
	sample     *stats.Sample
	seed       int64
	runs       []store.RunRow
	over       bool
	status     string
	err        error
}

func newModel(rows, cols int32, seed int64) (model, error) {
	sample, err := stats.NewSample(rules.ObservationColumns...)
	if err != nil {
		return model{}, err
	}
	m := model{rows: rows, cols: cols, rng: rand.New(rand.NewSource(seed)), sample: sample, seed: seed}
	return m.restart()
}

func (m model) restart() (model, error) {
	b, err := game.NewBoard(m.rows, m.cols, game.WithRand(m.rng))
	if err != nil {
		return m, err
	}
	m.board = b
	m.over = false
	m.status = "arrows / hjkl / wasd to move, q to quit"
	return m, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		if m.over {
			next, err := m.restart()
			if err != nil {
				next.err = err
				return next, tea.Quit
			}
			return next, nil
		}
	}

	move, ok := keyMoves[key.String()]
	if !ok || m.over {
		return m, nil
	}

	step, err := rules.Step(m.board, move, m.rng, true)
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		m.status = fmt.Sprintf("can't reverse into %s", move)
		return m, nil
	case err != nil:
		m.err = err
		return m, tea.Quit
	}

	if step.Ate {
		m.status = fmt.Sprintf("yum! score %d", m.board.Score())
	}
	if step.Terminal {
		m.over = true
		res := rules.Result{
			Score:   m.board.Score(),
			Moves:   m.board.MoveCount(),
			Length:  m.board.Len(),
			Outcome: m.board.Outcome(),
			Filled:  step.Filled,
		}
		if err := m.sample.Record(res.Observation()); err != nil {
			m.err = err
			return m, tea.Quit
		}
		runID := fmt.Sprintf("tui_%d_%d", m.seed, len(m.runs)+1)
		m.runs = append(m.runs, store.NewRunRow(runID, m.seed, m.board, res, "keyboard"))
		m.status = gameOverText(res) + "  r to restart, q to quit"
	}
	return m, nil
}

func gameOverText(res rules.Result) string {
	if res.Filled {
		return fmt.Sprintf("board filled! score %d in %d moves.", res.Score, res.Moves)
	}
	return fmt.Sprintf("game over (%s): score %d in %d moves.", strings.ReplaceAll(res.Outcome.String(), "_", " "), res.Score, res.Moves)
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(m.board.Render())
	fmt.Fprintf(&sb, "\nScore: %d  Moves: %d  Length: %d\n", m.board.Score(), m.board.MoveCount(), m.board.Len())
	if n := m.sample.Len(); n > 0 {
		mean, _ := m.sample.Mean("score")
		best := 0.0
		for _, row := range m.sample.Rows() {
			best = max(best, row[0])
		}
		fmt.Fprintf(&sb, "Games: %d  Mean score: %.2f  Best: %.0f\n", n, mean, best)
	}
	sb.WriteString(m.status)
	sb.WriteString("\n")
	return sb.String()
}

func main() {
	rows := flag.Int("rows", 10, "Board rows")
	cols := flag.Int("cols", 10, "Board columns")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	outDir := flag.String("out-dir", "", "Directory to save finished games as .parquet on exit (empty = don't save)")
	flag.Parse()

	r, c, err := game.Dimensions(*rows, *cols)
	if err != nil {
		log.Fatalf("Invalid -rows/-cols: %v", err)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	m, err := newModel(r, c, *seed)
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		log.Fatal(err)
	}
	fm, ok := final.(model)
	if !ok {
		return
	}
	if err := saveRuns(*outDir, fm.runs); err != nil {
		log.Printf("Failed to save games: %v", err)
	}
	if fm.err != nil {
		log.Fatalf("Game error: %v", fm.err)
	}
}

// saveRuns writes the session's finished games as one parquet file.
func saveRuns(outDir string, runs []store.RunRow) error {
	if outDir == "" || len(runs) == 0 {
		return nil
	}
	path, err := store.WriteRunsParquetAtomic(outDir, runs)
	if err != nil {
		return err
	}
	log.Printf("Saved %d games to %s", len(runs), path)
	return nil
}
