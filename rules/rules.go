// Package rules drives a game.Board through the move cycle: apply a move,
// grow on an apple, respawn it, then check for a terminal collision.
package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/brensch/snakeboard/game"
	"github.com/brensch/snakeboard/stats"
)

// StepResult describes what happened on one move.
type StepResult struct {
	Ate bool
	// Filled is set when the snake covers every cell and no apple can spawn.
	Filled   bool
	Terminal bool
	Outcome  game.Outcome
}

// Step applies move to b in place and runs the rest of the cycle.
// With strict set, a reversal is rejected with game.ErrIllegalMove and b is untouched.
func Step(b *game.Board, move game.Direction, rng game.Rand, strict bool) (StepResult, error) {
	var err error
	if strict {
		err = b.ApplyLegalMove(move)
	} else {
		err = b.ApplyMove(move)
	}
	if err != nil {
		return StepResult{}, err
	}

	var res StepResult
	if b.Eaten() {
		res.Ate = true
		b.Grow()
		if err := b.SpawnApple(rng); err != nil {
			if !errors.Is(err, game.ErrBoardFull) {
				return res, err
			}
			res.Filled = true
			res.Terminal = true
		}
	}

	if IsTerminal(b) {
		res.Terminal = true
	}
	res.Outcome = b.Outcome()
	return res, nil
}

// NextState returns a stepped copy of b, leaving b unchanged.
func NextState(b *game.Board, move game.Direction, rng game.Rand, strict bool) (*game.Board, StepResult, error) {
	next := b.Clone()
	res, err := Step(next, move, rng, strict)
	if err != nil {
		return nil, res, err
	}
	return next, res, nil
}

// IsTerminal reports a wall or self collision, recording the outcome on b.
func IsTerminal(b *game.Board) bool {
	return b.WallCollision() || b.SelfCollision()
}

// Chooser picks the next move. legal is never empty.
type Chooser interface {
	Choose(b *game.Board, legal []game.Direction) game.Direction
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(b *game.Board, legal []game.Direction) game.Direction

func (f ChooserFunc) Choose(b *game.Board, legal []game.Direction) game.Direction {
	return f(b, legal)
}

// RandomChooser picks uniformly among the legal moves.
// A nil Rand falls back to the auto-seeded math/rand source, so only a
// supplied Rand gives reproducible games.
type RandomChooser struct {
	Rand game.Rand
}

func (c RandomChooser) Choose(_ *game.Board, legal []game.Direction) game.Direction {
	if c.Rand == nil {
		return legal[rand.Intn(len(legal))]
	}
	return legal[c.Rand.Intn(len(legal))]
}

// Config controls Play.
type Config struct {
	// MaxMoves stops the game after this many moves when > 0.
	MaxMoves int32
	// Strict rejects reversals instead of trusting the chooser.
	Strict bool
	// Rand drives apple respawns. Nil uses the board-seeded fallback.
	Rand game.Rand
	// Sink receives Result.Observation once the game ends.
	Sink   stats.Sink
	Logger *slog.Logger
}

// Result summarises a finished game.
type Result struct {
	Score   int32
	Moves   int32
	Length  int
	Outcome game.Outcome
	Filled  bool
	// Truncated is set when MaxMoves ended the game before a collision.
	Truncated bool
}

// ObservationColumns are the field names produced by Result.Observation.
var ObservationColumns = []string{"score", "moves", "length", "outcome"}

// Observation converts r into a stats record.
func (r Result) Observation() stats.Observation {
	return stats.Observation{
		{Name: "score", Value: float64(r.Score)},
		{Name: "moves", Value: float64(r.Moves)},
		{Name: "length", Value: float64(r.Length)},
		{Name: "outcome", Value: float64(r.Outcome)},
	}
}

// Play runs b to completion with moves from chooser. It returns when the
// snake collides, fills the board, reaches cfg.MaxMoves or ctx is cancelled.
// A cancelled game is not reported to cfg.Sink.
func Play(ctx context.Context, b *game.Board, chooser Chooser, cfg Config) (Result, error) {
	start := b.MoveCount()
	result := func() Result {
		return Result{
			Score:   b.Score(),
			Moves:   b.MoveCount(),
			Length:  b.Len(),
			Outcome: b.Outcome(),
		}
	}

	for {
		select {
		case <-ctx.Done():
			return result(), ctx.Err()
		default:
		}

		if cfg.MaxMoves > 0 && b.MoveCount()-start >= cfg.MaxMoves {
			res := result()
			res.Truncated = true
			return res, finish(cfg, res)
		}

		legal := b.LegalMoves()
		move := chooser.Choose(b, legal)
		step, err := Step(b, move, cfg.Rand, cfg.Strict)
		if err != nil {
			return result(), fmt.Errorf("move %d (%v): %w", b.MoveCount()+1, move, err)
		}
		if cfg.Logger != nil && step.Ate {
			cfg.Logger.Debug("apple eaten", "move", b.MoveCount(), "score", b.Score(), "apple", b.Apple().String())
		}
		if step.Terminal {
			res := result()
			res.Filled = step.Filled
			return res, finish(cfg, res)
		}
	}
}

func finish(cfg Config, res Result) error {
	if cfg.Logger != nil {
		cfg.Logger.Debug("game over",
			"score", res.Score,
			"moves", res.Moves,
			"length", res.Length,
			"outcome", res.Outcome.String(),
			"filled", res.Filled,
			"truncated", res.Truncated,
		)
	}
	if cfg.Sink == nil {
		return nil
	}
	if err := cfg.Sink.Record(res.Observation()); err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}
