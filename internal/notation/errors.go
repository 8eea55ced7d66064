package notation

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMove is returned when the input matches no accepted move shape.
	ErrMalformedMove = errors.New("malformed move")
	// ErrMissingPromotion is returned for a pawn reaching the last rank without "=X".
	ErrMissingPromotion = errors.New("missing promotion piece")
)

// Error wraps a parse failure with the offending input.
type Error struct {
	Input string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse move %q: %v", e.Input, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(input string, err error) *Error {
	return &Error{Input: input, Err: err}
}
