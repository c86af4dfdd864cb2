package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"
)

// BatchWriter streams RunRows into a sequence of parquet files under outDir.
// Rows go to outDir/tmp until Flush, which moves the file into outDir; the
// next Write opens a fresh file. Not safe for concurrent use.
type BatchWriter struct {
	outDir string
	tmpDir string
	prefix string
	seq    int

	cur *openBatch

	files  []string
	total  int
	closed bool
}

type openBatch struct {
	tmpPath string
	outPath string
	file    *os.File
	writer  *parquet.GenericWriter[RunRow]
	rows    int
}

func NewBatchWriter(outDir string) (*BatchWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	return &BatchWriter{
		outDir: absOut,
		tmpDir: tmpDir,
		prefix: fmt.Sprintf("runs_%d", time.Now().UnixNano()),
	}, nil
}

func (b *BatchWriter) open() error {
	name := fmt.Sprintf("%s_%04d.parquet", b.prefix, b.seq)
	b.seq++
	tmpPath := filepath.Join(b.tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp parquet: %w", err)
	}
	b.cur = &openBatch{
		tmpPath: tmpPath,
		outPath: filepath.Join(b.outDir, name),
		file:    f,
		writer:  parquet.NewGenericWriter[RunRow](f, writeOptions()...),
	}
	return nil
}

// Write appends rows to the current file, opening one if needed.
func (b *BatchWriter) Write(rows ...RunRow) error {
	if b.closed {
		return fmt.Errorf("batch writer is closed")
	}
	if len(rows) == 0 {
		return nil
	}
	if b.cur == nil {
		if err := b.open(); err != nil {
			return err
		}
	}
	if _, err := b.cur.writer.Write(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	b.cur.rows += len(rows)
	b.total += len(rows)
	return nil
}

// Pending is the number of rows in the file not yet flushed.
func (b *BatchWriter) Pending() int {
	if b.cur == nil {
		return 0
	}
	return b.cur.rows
}

// Flush finalizes the current file and moves it into outDir.
// With nothing pending it returns an empty path.
func (b *BatchWriter) Flush() (outPath string, rows int, err error) {
	cur := b.cur
	if cur == nil {
		return "", 0, nil
	}
	b.cur = nil

	closeErr := cur.writer.Close()
	_ = cur.file.Sync()
	fileErr := cur.file.Close()
	if closeErr != nil {
		_ = os.Remove(cur.tmpPath)
		return "", 0, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		_ = os.Remove(cur.tmpPath)
		return "", 0, fmt.Errorf("close parquet file: %w", fileErr)
	}
	if err := os.Rename(cur.tmpPath, cur.outPath); err != nil {
		return "", 0, fmt.Errorf("rename parquet: %w", err)
	}
	b.files = append(b.files, cur.outPath)
	return cur.outPath, cur.rows, nil
}

// Close flushes any pending rows. Further writes fail.
func (b *BatchWriter) Close() (outPath string, rows int, err error) {
	if b.closed {
		return "", 0, nil
	}
	b.closed = true
	return b.Flush()
}

// Files lists every finalized file in write order.
func (b *BatchWriter) Files() []string { return slices.Clone(b.files) }

// Rows is the total number of rows written across all files.
func (b *BatchWriter) Rows() int { return b.total }
