// Package store persists finished-run records as Parquet and summarises them with DuckDB.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/snakeboard/game"
	"github.com/brensch/snakeboard/rules"
)

const schemaName = "snake_run_v1"

// RunRow is one finished game.
//
// Outcome is the numeric game.Outcome; OutcomeName is its string form for readers
// that do not link this package.
type RunRow struct {
	RunID       string `parquet:"run_id"`
	Seed        int64  `parquet:"seed"`
	Rows        int32  `parquet:"rows"`
	Cols        int32  `parquet:"cols"`
	Score       int32  `parquet:"score"`
	Moves       int32  `parquet:"moves"`
	Length      int32  `parquet:"length"`
	Outcome     int32  `parquet:"outcome"`
	OutcomeName string `parquet:"outcome_name,dict"`
	Filled      bool   `parquet:"filled"`
	Truncated   bool   `parquet:"truncated"`
	Chooser     string `parquet:"chooser,dict"`
	FinishedNs  int64  `parquet:"finished_ns"`
}

// NewRunRow builds a row from a board's dimensions and its game result.
func NewRunRow(runID string, seed int64, b *game.Board, res rules.Result, chooser string) RunRow {
	return RunRow{
		RunID:       runID,
		Seed:        seed,
		Rows:        b.Rows(),
		Cols:        b.Cols(),
		Score:       res.Score,
		Moves:       res.Moves,
		Length:      int32(res.Length),
		Outcome:     int32(res.Outcome),
		OutcomeName: res.Outcome.String(),
		Filled:      res.Filled,
		Truncated:   res.Truncated,
		Chooser:     chooser,
		FinishedNs:  time.Now().UnixNano(),
	}
}

func writeOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	}
}

// WriteRunsParquetAtomic writes rows into outDir/tmp and then renames the file
// into outDir, so readers never observe a partially written file.
// The returned path is the final parquet file path.
func WriteRunsParquetAtomic(outDir string, rows []RunRow) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("runs_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writeOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadRuns loads every row of a run file.
func ReadRuns(path string) ([]RunRow, error) {
	rows, err := parquet.ReadFile[RunRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
