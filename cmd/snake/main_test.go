package main

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snakeboard/game"
	"github.com/brensch/snakeboard/store"
)

func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	next, _ := m.Update(key)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModel_PlaysUntilWall(t *testing.T) {
	m, err := newModel(10, 10, 5)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.board.MoveCount() != 0 {
		t.Fatalf("reversal was applied")
	}

	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if !m.over || m.board.Outcome() != game.OutcomeWallCollision {
		t.Fatalf("over=%v outcome=%v head=%v", m.over, m.board.Outcome(), m.board.Head())
	}
	if m.sample.Len() != 1 {
		t.Fatalf("sample len=%d want=1", m.sample.Len())
	}
	if m.View() == "" {
		t.Fatalf("empty view")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.over || m.board.MoveCount() != 0 {
		t.Fatalf("restart failed: over=%v moves=%d", m.over, m.board.MoveCount())
	}
}

func TestModel_SavesFinishedGames(t *testing.T) {
	m, err := newModel(10, 10, 5)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if len(m.runs) != 1 || m.runs[0].OutcomeName != "wall_collision" || m.runs[0].Chooser != "keyboard" {
		t.Fatalf("runs=%+v", m.runs)
	}

	dir := t.TempDir()
	if err := saveRuns(dir, m.runs); err != nil {
		t.Fatalf("saveRuns: %v", err)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if len(files) != 1 {
		t.Fatalf("files=%v", files)
	}
	got, err := store.ReadRuns(files[0])
	if err != nil || len(got) != 1 || got[0].Moves != m.board.MoveCount() {
		t.Fatalf("read back %+v err=%v", got, err)
	}
	if err := saveRuns("", m.runs); err != nil {
		t.Fatalf("saveRuns without dir: %v", err)
	}
}
