package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestPrettyJSONHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, nil)).With("worker", 3).WithGroup("game")
	logger.Info("game over", "score", 4, slog.Group("head", "row", 1, "col", 2))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not one JSON object: %v\n%s", err, buf.String())
	}
	if got["msg"] != "game over" || got["level"] != "INFO" {
		t.Fatalf("header=%v", got)
	}
	if got["worker"] != float64(3) {
		t.Fatalf("worker attr missing: %v", got)
	}
	g, ok := got["game"].(map[string]any)
	if !ok || g["score"] != float64(4) {
		t.Fatalf("game group=%v", got["game"])
	}
	head, ok := g["head"].(map[string]any)
	if !ok || head["row"] != float64(1) || head["col"] != float64(2) {
		t.Fatalf("head group=%v", g["head"])
	}
}

func TestPrettyJSONHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn not logged")
	}
}

func TestNew_Formats(t *testing.T) {
	for _, f := range []string{"", "pretty", "json", "text"} {
		if _, err := New(&bytes.Buffer{}, f, slog.LevelInfo); err != nil {
			t.Fatalf("New(%q): %v", f, err)
		}
	}
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("unknown format accepted")
	}
	if l, err := ParseLevel("debug"); err != nil || l != slog.LevelDebug {
		t.Fatalf("ParseLevel=%v,%v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("bad level accepted")
	}
}
