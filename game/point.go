package game

import (
	"fmt"
	"strings"
)

// Point is a board coordinate.
// Row grows downward from 0 at the top; Col grows rightward from 0 at the left.
type Point struct {
	Row int32
	Col int32
}

// Add returns p translated by d's unit vector.
func (p Point) Add(d Direction) Point {
	v := d.Vector()
	return Point{Row: p.Row + v.Row, Col: p.Col + v.Col}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// adjacent reports whether p and q differ by exactly one unit step.
func adjacent(p, q Point) bool {
	dr := p.Row - q.Row
	dc := p.Col - q.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Direction is one of the four unit moves.
type Direction int8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in the fixed order used by LegalMoves.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionVectors = [4]Point{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
	Right: {Row: 0, Col: 1},
}

var directionNames = [4]string{"up", "down", "left", "right"}

// Valid reports whether d is one of Up, Down, Left, Right.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Vector returns the unit step of d. Invalid directions map to the zero vector.
func (d Direction) Vector() Point {
	if !d.Valid() {
		return Point{}
	}
	return directionVectors[d]
}

// Opposite returns the reversal of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int8(d))
	}
	return directionNames[d]
}

// ParseDirection accepts the full names and the single-letter forms u, d, l, r.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "up":
		return Up, nil
	case "d", "down":
		return Down, nil
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrIllegalMove, s)
}

// Outcome is the terminal classification of a finished game.
type Outcome int8

const (
	OutcomeNone Outcome = iota
	OutcomeSelfCollision
	OutcomeWallCollision
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSelfCollision:
		return "self_collision"
	case OutcomeWallCollision:
		return "wall_collision"
	}
	return fmt.Sprintf("outcome(%d)", int8(o))
}
