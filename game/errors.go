package game

import "errors"

var (
	// ErrInvalidState is returned when a board cannot be built from the supplied values.
	ErrInvalidState = errors.New("invalid board state")
	// ErrBoardFull is returned when an apple is requested and no cell is free.
	ErrBoardFull = errors.New("board full")
	// ErrIllegalMove is returned by validating move paths.
	ErrIllegalMove = errors.New("illegal move")
)
