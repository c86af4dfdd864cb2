package game

import "fmt"

// LegalMoves returns every direction except the reversal of the current one,
// in the order Up, Down, Left, Right. Walls and the body are not considered;
// collisions are detected after the move is applied.
func (b *Board) LegalMoves() []Direction {
	cur := b.direction.Vector()
	moves := make([]Direction, 0, 3)
	for _, d := range Directions {
		v := d.Vector()
		if cur.Row+v.Row == 0 && cur.Col+v.Col == 0 {
			continue
		}
		moves = append(moves, d)
	}
	return moves
}

// IsLegal reports whether d is in LegalMoves.
func (b *Board) IsLegal(d Direction) bool {
	return d.Valid() && d != b.direction.Opposite()
}

// ApplyMove shifts the whole snake one cell along d: the new head is pushed
// on the front and the tail dropped, so the length is unchanged.
// The caller is trusted to pass a legal move; only values outside the four
// directions are rejected. Use ApplyLegalMove to also reject reversals.
func (b *Board) ApplyMove(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %v", ErrIllegalMove, d)
	}
	b.direction = d

	// Shift in place; the backing array keeps its length.
	head := b.body[0].Add(d)
	copy(b.body[1:], b.body[:len(b.body)-1])
	b.body[0] = head

	b.moves++
	return nil
}

// ApplyLegalMove is ApplyMove that first checks d against LegalMoves.
func (b *Board) ApplyLegalMove(d Direction) error {
	if !b.IsLegal(d) {
		return fmt.Errorf("%w: %v while heading %v", ErrIllegalMove, d, b.direction)
	}
	return b.ApplyMove(d)
}

// Eaten reports whether the head sits on the apple.
func (b *Board) Eaten() bool {
	return b.body[0] == b.apple
}

// Grow pushes the apple cell on the front of the body and bumps the score.
// Call it only after Eaten reports true, then SpawnApple: the head and the
// segment behind it share a cell until the snake moves on.
func (b *Board) Grow() {
	b.body = append(b.body, Point{})
	copy(b.body[1:], b.body[:len(b.body)-1])
	b.body[0] = b.apple
	b.score++
}

// SelfCollision reports whether the head overlaps a segment at index 2 or
// later, and records OutcomeSelfCollision when it does.
func (b *Board) SelfCollision() bool {
	head := b.body[0]
	for _, p := range b.body[min(2, len(b.body)):] {
		if p == head {
			b.outcome = OutcomeSelfCollision
			return true
		}
	}
	return false
}

// WallCollision reports whether the head left the grid, and records
// OutcomeWallCollision when it did.
func (b *Board) WallCollision() bool {
	if b.InBounds(b.body[0]) {
		return false
	}
	b.outcome = OutcomeWallCollision
	return true
}
