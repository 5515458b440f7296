package board

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is matched by every *IllegalMoveError.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidFEN wraps every FEN parsing and validation failure.
	ErrInvalidFEN = errors.New("invalid FEN")
)

// IllegalMoveError reports a move that is not among the legal moves of the
// position it was applied to.
type IllegalMoveError struct {
	Move Move
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s in %s", e.Move, e.FEN)
}

// Is reports whether target is ErrIllegalMove.
func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}
