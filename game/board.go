// Package game holds the authoritative state of a single-player Snake board.
//
// A Board owns the snake body, the current direction, the apple and the
// score/move counters. It is a deterministic state machine: a driver queries
// LegalMoves, applies one with ApplyMove, grows the snake when Eaten reports
// true, respawns the apple, and checks WallCollision/SelfCollision to decide
// termination. Boards are not safe for concurrent use; Clone one per branch.
package game

import (
	"fmt"
	"math"
	"slices"
)

// DefaultBody is the starting snake when none is supplied: two segments facing right.
var DefaultBody = []Point{{Row: 4, Col: 2}, {Row: 4, Col: 1}}

// Board is the mutable game state. The zero value is not usable; call NewBoard.
type Board struct {
	rows int32
	cols int32

	// body is head-first, tail-last.
	body      []Point
	direction Direction
	apple     Point

	score   int32
	moves   int32
	outcome Outcome
}

type boardConfig struct {
	body      []Point
	direction Direction
	apple     *Point
	score     int32
	moves     int32
	rng       Rand
}

// Option customises NewBoard.
type Option func(*boardConfig)

// WithBody supplies the snake body, head first. The slice is copied.
func WithBody(body []Point) Option {
	return func(c *boardConfig) { c.body = slices.Clone(body) }
}

// WithDirection sets the direction of the most recent move.
func WithDirection(d Direction) Option {
	return func(c *boardConfig) { c.direction = d }
}

// WithApple places the apple instead of spawning one.
func WithApple(p Point) Option {
	return func(c *boardConfig) { c.apple = &p }
}

// WithScore restores a previous score.
func WithScore(score int32) Option {
	return func(c *boardConfig) { c.score = score }
}

// WithMoveCount restores a previous move count.
func WithMoveCount(n int32) Option {
	return func(c *boardConfig) { c.moves = n }
}

// WithRand sets the source used to spawn the initial apple.
func WithRand(rng Rand) Option {
	return func(c *boardConfig) { c.rng = rng }
}

// Dimensions narrows caller-supplied grid sizes (flags, config) to board
// dimensions, rejecting non-positive values and values beyond int32.
func Dimensions(rows, cols int) (int32, int32, error) {
	if rows <= 0 || cols <= 0 || rows > math.MaxInt32 || cols > math.MaxInt32 {
		return 0, 0, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidState, rows, cols)
	}
	return int32(rows), int32(cols), nil
}

// NewBoard builds a rows x cols board. Without WithBody the snake starts at
// DefaultBody facing right; without WithApple an apple is spawned on a free cell.
// Every segment must lie on the grid, so the default body needs at least
// 5 rows and 3 columns.
func NewBoard(rows, cols int32, opts ...Option) (*Board, error) {
	cfg := boardConfig{direction: Right}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.body == nil {
		cfg.body = slices.Clone(DefaultBody)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidState, rows, cols)
	}
	if !cfg.direction.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, cfg.direction)
	}
	if cfg.score < 0 || cfg.moves < 0 {
		return nil, fmt.Errorf("%w: negative counters (score=%d moves=%d)", ErrInvalidState, cfg.score, cfg.moves)
	}

	b := &Board{
		rows:      rows,
		cols:      cols,
		body:      cfg.body,
		direction: cfg.direction,
		score:     cfg.score,
		moves:     cfg.moves,
	}
	if err := b.validateBody(); err != nil {
		return nil, err
	}

	if cfg.apple != nil {
		if !b.InBounds(*cfg.apple) {
			return nil, fmt.Errorf("%w: apple %v outside %dx%d", ErrInvalidState, *cfg.apple, rows, cols)
		}
		if b.Occupied(*cfg.apple) {
			return nil, fmt.Errorf("%w: apple %v on snake", ErrInvalidState, *cfg.apple)
		}
		b.apple = *cfg.apple
		return b, nil
	}

	if err := b.SpawnApple(cfg.rng); err != nil {
		return nil, err
	}
	return b, nil
}

// validateBody enforces the body invariants. Two consecutive identical cells
// are accepted: that is the stacked segment Grow leaves behind.
func (b *Board) validateBody() error {
	if len(b.body) < 2 {
		return fmt.Errorf("%w: body length %d", ErrInvalidState, len(b.body))
	}
	seen := make(map[Point]int, len(b.body))
	for i, p := range b.body {
		if !b.InBounds(p) {
			return fmt.Errorf("%w: segment %d at %v outside %dx%d", ErrInvalidState, i, p, b.rows, b.cols)
		}
		if i > 0 {
			prev := b.body[i-1]
			if p == prev {
				continue
			}
			if !adjacent(prev, p) {
				return fmt.Errorf("%w: segments %d %v and %d %v are not adjacent", ErrInvalidState, i-1, prev, i, p)
			}
		}
		if j, ok := seen[p]; ok {
			return fmt.Errorf("%w: segments %d and %d both at %v", ErrInvalidState, j, i, p)
		}
		seen[p] = i
	}
	return nil
}

// Clone performs a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.body = slices.Clone(b.body)
	return &out
}

// Equal compares body sequence and apple only. Direction, score, move count
// and outcome are ignored so that positions reached by different paths match.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.apple == other.apple && slices.Equal(b.body, other.body)
}

func (b *Board) Rows() int32 { return b.rows }
func (b *Board) Cols() int32 { return b.cols }

// Body returns a copy of the snake, head first.
func (b *Board) Body() []Point { return slices.Clone(b.body) }

// Len is the number of body segments.
func (b *Board) Len() int { return len(b.body) }

func (b *Board) Head() Point { return b.body[0] }
func (b *Board) Tail() Point { return b.body[len(b.body)-1] }

func (b *Board) Direction() Direction { return b.direction }
func (b *Board) Apple() Point         { return b.apple }
func (b *Board) Score() int32         { return b.score }
func (b *Board) MoveCount() int32     { return b.moves }

// Outcome is OutcomeNone until a collision check reports true.
func (b *Board) Outcome() Outcome { return b.outcome }

// InBounds reports whether p lies on the grid.
func (b *Board) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// Occupied reports whether any body segment sits on p.
func (b *Board) Occupied(p Point) bool {
	return slices.Contains(b.body, p)
}

func (b *Board) String() string { return b.Render() }
