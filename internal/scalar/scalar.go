// Package scalar defines the arithmetic capability set used by the dense
// output and its matrices.
//
// Interpolation code is written only in terms of [Scalar], so the same
// routine works on plain floats ([Real]) and on forward-mode dual numbers
// ([Dual]) whose gradients must survive every multiplication and division.
package scalar

// Scalar is the capability set of a numeric type T usable as time, state
// and derivative component. Methods return new values and never mutate the
// receiver.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T

	// Less orders values for time comparisons.
	Less(T) bool
	// Equal is exact equality, including any carried derivative information.
	Equal(T) bool

	// FromFloat lifts a constant into T. The receiver is only used for its
	// type; a zero value is fine.
	FromFloat(float64) T
	// Float drops any derivative information.
	Float() float64
}

// Const lifts v into T using T's zero value.
func Const[T Scalar[T]](v float64) T {
	var zero T
	return zero.FromFloat(v)
}

// LessEq reports a <= b.
func LessEq[T Scalar[T]](a, b T) bool {
	return !b.Less(a)
}

// Floats drops derivative information from every element of xs.
func Floats[T Scalar[T]](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Float()
	}
	return out
}
