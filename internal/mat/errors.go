package mat

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape has a negative extent.
	ErrBadShape = errors.New("mat: invalid shape")

	// ErrDataLength indicates that backing data does not hold rows*cols elements.
	ErrDataLength = errors.New("mat: data length does not match shape")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("mat: index out of range")

	// ErrShapeMismatch indicates incompatible operand shapes.
	ErrShapeMismatch = errors.New("mat: shape mismatch")
)

func matErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, row, col, err)
}
