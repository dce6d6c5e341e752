package dense

import (
	"errors"
	"fmt"
)

// Root categories. Every specific error below wraps exactly one of them.
var (
	// ErrIllegalState marks a call that is invalid for the output's current
	// emptiness or pending state. Callers can avoid it by checking state first.
	ErrIllegalState = errors.New("dense: illegal state")

	// ErrInvalidArgument marks structurally or numerically invalid input.
	ErrInvalidArgument = errors.New("dense: invalid argument")
)

// Illegal-state errors.
var (
	ErrEmptyOutput    = fmt.Errorf("%w: no consolidated steps", ErrIllegalState)
	ErrNothingPending = fmt.Errorf("%w: no pending steps", ErrIllegalState)
)

// Invalid-argument errors.
var (
	ErrNilStep                 = fmt.Errorf("%w: nil step", ErrInvalidArgument)
	ErrNotAVector              = fmt.Errorf("%w: not a column vector", ErrInvalidArgument)
	ErrDimensionMismatch       = fmt.Errorf("%w: dimension mismatch", ErrInvalidArgument)
	ErrInvalidTime             = fmt.Errorf("%w: time is NaN", ErrInvalidArgument)
	ErrNonIncreasingTime       = fmt.Errorf("%w: time does not increase", ErrInvalidArgument)
	ErrZeroLengthStep          = fmt.Errorf("%w: zero length step", ErrInvalidArgument)
	ErrTimeDiscontinuity       = fmt.Errorf("%w: step start time does not match previous end time", ErrInvalidArgument)
	ErrStateDiscontinuity      = fmt.Errorf("%w: step start state does not match previous end state", ErrInvalidArgument)
	ErrDerivativeDiscontinuity = fmt.Errorf("%w: step start derivative does not match previous end derivative", ErrInvalidArgument)
	ErrOutOfRange              = fmt.Errorf("%w: time outside output span", ErrInvalidArgument)
	ErrDimensionOutOfRange     = fmt.Errorf("%w: dimension index out of range", ErrInvalidArgument)
)

func opErrorf(op string, err error, format string, args ...any) error {
	if format == "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w (%s)", op, err, fmt.Sprintf(format, args...))
}
