// Package mat provides a small generic dense matrix, enough to carry
// column-vector states whose elements are any [scalar.Scalar].
package mat

import (
	"fmt"
	"strings"

	"github.com/san-kum/dynout/internal/scalar"
)

// Matrix is a row-major rows×cols matrix. The zero value is a 0×0 matrix.
// Operations return new matrices; a Matrix handed out by this package is
// never mutated afterwards.
type Matrix[T scalar.Scalar[T]] struct {
	r, c int
	data []T
}

// New wraps data (row-major, copied) as a rows×cols matrix.
func New[T scalar.Scalar[T]](rows, cols int, data []T) (Matrix[T], error) {
	if rows < 0 || cols < 0 {
		return Matrix[T]{}, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if len(data) != rows*cols {
		return Matrix[T]{}, fmt.Errorf("%w: %dx%d needs %d, got %d", ErrDataLength, rows, cols, rows*cols, len(data))
	}
	return Matrix[T]{r: rows, c: cols, data: cloneElems(data)}, nil
}

// Zeros returns a rows×cols matrix of T's zero constant.
func Zeros[T scalar.Scalar[T]](rows, cols int) Matrix[T] {
	data := make([]T, rows*cols)
	zero := scalar.Const[T](0)
	for i := range data {
		data[i] = zero
	}
	return Matrix[T]{r: rows, c: cols, data: data}
}

// Vector returns a len(vals)×1 column vector.
func Vector[T scalar.Scalar[T]](vals ...T) Matrix[T] {
	return Matrix[T]{r: len(vals), c: 1, data: cloneElems(vals)}
}

// FromFloats lifts float64 values into a column vector of T.
func FromFloats[T scalar.Scalar[T]](vals ...float64) Matrix[T] {
	buf := make([]T, len(vals))
	for i, v := range vals {
		buf[i] = scalar.Const[T](v)
	}
	return Matrix[T]{r: len(vals), c: 1, data: buf}
}

func (m Matrix[T]) Rows() int { return m.r }
func (m Matrix[T]) Cols() int { return m.c }

// IsVector reports whether m has exactly one column.
func (m Matrix[T]) IsVector() bool { return m.c == 1 }

// At returns the element at (row, col).
func (m Matrix[T]) At(row, col int) (T, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		var zero T
		return zero, matErrorf("At", row, col, ErrOutOfRange)
	}
	return cloneElem(m.data[row*m.c+col]), nil
}

// Col returns a copy of column j.
func (m Matrix[T]) Col(j int) ([]T, error) {
	if j < 0 || j >= m.c {
		return nil, matErrorf("Col", 0, j, ErrOutOfRange)
	}
	out := make([]T, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = cloneElem(m.data[i*m.c+j])
	}
	return out, nil
}

// Clone returns a deep copy of m. Elements implementing Clone() T are
// copied through it.
func (m Matrix[T]) Clone() Matrix[T] {
	return Matrix[T]{r: m.r, c: m.c, data: cloneElems(m.data)}
}

type cloner[T any] interface{ Clone() T }

func cloneElem[T any](v T) T {
	if c, ok := any(v).(cloner[T]); ok {
		return c.Clone()
	}
	return v
}

func cloneElems[T any](src []T) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = cloneElem(v)
	}
	return out
}

// Equal reports exact, element-wise equality of two same-shaped matrices.
func (m Matrix[T]) Equal(o Matrix[T]) bool {
	if m.r != o.r || m.c != o.c {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// Scale returns k*m.
func (m Matrix[T]) Scale(k T) Matrix[T] {
	out := make([]T, len(m.data))
	for i, v := range m.data {
		out[i] = v.Mul(k)
	}
	return Matrix[T]{r: m.r, c: m.c, data: out}
}

// Add returns m+o.
func (m Matrix[T]) Add(o Matrix[T]) (Matrix[T], error) {
	return m.AddScaled(scalar.Const[T](1), o)
}

// AddScaled returns m + k*o.
func (m Matrix[T]) AddScaled(k T, o Matrix[T]) (Matrix[T], error) {
	if m.r != o.r || m.c != o.c {
		return Matrix[T]{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, m.r, m.c, o.r, o.c)
	}
	out := make([]T, len(m.data))
	for i := range m.data {
		out[i] = m.data[i].Add(o.data[i].Mul(k))
	}
	return Matrix[T]{r: m.r, c: m.c, data: out}, nil
}

// Floats returns the elements in row-major order with derivative
// information dropped.
func (m Matrix[T]) Floats() []float64 {
	return scalar.Floats(m.data)
}

func (m Matrix[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.r; i++ {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%v", m.data[i*m.c+j])
		}
	}
	sb.WriteString("]")
	return sb.String()
}
