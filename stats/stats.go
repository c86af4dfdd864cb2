// Package stats records one numeric observation per finished run and
// summarises columns of them.
package stats

import (
	"fmt"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Field is one named measurement in an observation.
type Field struct {
	Name  string
	Value float64
}

// Observation is an ordered set of named measurements, e.g. score, moves, outcome.
type Observation []Field

// Sink accepts one observation per completed run.
type Sink interface {
	Record(obs Observation) error
}

// Sample is an append-only table of observations with fixed columns.
// It is safe for concurrent use.
type Sample struct {
	mu      sync.RWMutex
	columns []string
	index   map[string]int
	// data is column-major: data[c][row].
	data [][]float64
}

// NewSample creates an empty sample with the given column names.
func NewSample(columns ...string) (*Sample, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	return &Sample{
		columns: slices.Clone(columns),
		index:   index,
		data:    make([][]float64, len(columns)),
	}, nil
}

// Insert appends one row. Values are positional and must match Columns.
func (s *Sample) Insert(values ...float64) error {
	if len(values) != len(s.columns) {
		return fmt.Errorf("observation has %d values, sample has %d columns", len(values), len(s.columns))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c, v := range values {
		s.data[c] = append(s.data[c], v)
	}
	return nil
}

// Record appends one row from named fields. Every column must be present exactly once.
func (s *Sample) Record(obs Observation) error {
	row := make([]float64, len(s.columns))
	set := make([]bool, len(s.columns))
	for _, f := range obs {
		c, ok := s.index[f.Name]
		if !ok {
			return fmt.Errorf("unknown column %q", f.Name)
		}
		if set[c] {
			return fmt.Errorf("column %q given twice", f.Name)
		}
		row[c] = f.Value
		set[c] = true
	}
	for c, ok := range set {
		if !ok {
			return fmt.Errorf("missing column %q", s.columns[c])
		}
	}
	return s.Insert(row...)
}

// Columns returns the column names in order.
func (s *Sample) Columns() []string {
	return slices.Clone(s.columns)
}

// Len is the number of recorded rows.
func (s *Sample) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[0])
}

func (s *Sample) column(name string) ([]float64, error) {
	c, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	return s.data[c], nil
}

// Mean is the arithmetic mean of a column. NaN when the sample is empty.
func (s *Sample) Mean(column string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	x, err := s.column(column)
	if err != nil {
		return 0, err
	}
	return stat.Mean(x, nil), nil
}

// StdDev is the sample standard deviation (n-1 denominator). NaN below two rows.
func (s *Sample) StdDev(column string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	x, err := s.column(column)
	if err != nil {
		return 0, err
	}
	return stat.StdDev(x, nil), nil
}

// CumulativeSum is the total of a column.
func (s *Sample) CumulativeSum(column string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	x, err := s.column(column)
	if err != nil {
		return 0, err
	}
	return floats.Sum(x), nil
}

// Observation returns row i as named fields.
func (s *Sample) Observation(i int) (Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.data[0]) {
		return nil, fmt.Errorf("observation %d out of range [0,%d)", i, len(s.data[0]))
	}
	obs := make(Observation, len(s.columns))
	for c, name := range s.columns {
		obs[c] = Field{Name: name, Value: s.data[c][i]}
	}
	return obs, nil
}

// Rows returns a row-major copy of the whole table.
func (s *Sample) Rows() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.data[0])
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, len(s.columns))
		for c := range s.columns {
			row[c] = s.data[c][i]
		}
		rows[i] = row
	}
	return rows
}

// Multi fans one observation out to several sinks, stopping at the first error.
type Multi []Sink

func (m Multi) Record(obs Observation) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(obs); err != nil {
			return err
		}
	}
	return nil
}
