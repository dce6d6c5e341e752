package dense

import (
	"math"

	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

// Sample is one (time, state, state derivative) triple.
type Sample[T scalar.Scalar[T]] struct {
	Time       T
	State      mat.Matrix[T]
	Derivative mat.Matrix[T]
}

// IntegrationStep is a strictly time-increasing run of samples sharing one
// state dimension. It starts with a single sample and grows through Extend.
type IntegrationStep[T scalar.Scalar[T]] struct {
	times  []T
	states []mat.Matrix[T]
	derivs []mat.Matrix[T]
	dim    int
}

// NewIntegrationStep starts a zero length step at t0 with state x0 and
// derivative dx0. The dimension of the step is rows(x0).
func NewIntegrationStep[T scalar.Scalar[T]](t0 T, x0, dx0 mat.Matrix[T]) (*IntegrationStep[T], error) {
	if math.IsNaN(t0.Float()) {
		return nil, opErrorf("NewIntegrationStep", ErrInvalidTime, "t0=%v", t0)
	}
	if !x0.IsVector() || !dx0.IsVector() {
		return nil, opErrorf("NewIntegrationStep", ErrNotAVector,
			"state %dx%d, derivative %dx%d", x0.Rows(), x0.Cols(), dx0.Rows(), dx0.Cols())
	}
	if x0.Rows() != dx0.Rows() {
		return nil, opErrorf("NewIntegrationStep", ErrDimensionMismatch,
			"state has %d rows, derivative has %d", x0.Rows(), dx0.Rows())
	}
	return &IntegrationStep[T]{
		times:  []T{t0},
		states: []mat.Matrix[T]{x0.Clone()},
		derivs: []mat.Matrix[T]{dx0.Clone()},
		dim:    x0.Rows(),
	}, nil
}

// Extend appends a sample at t, which must be past the current end time.
// A NaN t never is.
// The step is left untouched when an error is returned.
func (s *IntegrationStep[T]) Extend(t T, x, dx mat.Matrix[T]) error {
	if end := s.EndTime(); !end.Less(t) {
		return opErrorf("Extend", ErrNonIncreasingTime, "t=%v, end=%v", t, end)
	}
	if !x.IsVector() || !dx.IsVector() {
		return opErrorf("Extend", ErrNotAVector,
			"state %dx%d, derivative %dx%d", x.Rows(), x.Cols(), dx.Rows(), dx.Cols())
	}
	if x.Rows() != s.dim || dx.Rows() != s.dim {
		return opErrorf("Extend", ErrDimensionMismatch,
			"want %d rows, state has %d, derivative has %d", s.dim, x.Rows(), dx.Rows())
	}
	s.times = append(s.times, t)
	s.states = append(s.states, x.Clone())
	s.derivs = append(s.derivs, dx.Clone())
	return nil
}

func (s *IntegrationStep[T]) StartTime() T    { return s.times[0] }
func (s *IntegrationStep[T]) EndTime() T      { return s.times[len(s.times)-1] }
func (s *IntegrationStep[T]) Dimensions() int { return s.dim }

// Len returns the number of samples.
func (s *IntegrationStep[T]) Len() int { return len(s.times) }

// IsZeroLength reports whether the step still holds only its initial sample.
func (s *IntegrationStep[T]) IsZeroLength() bool {
	return len(s.times) == 1
}

// Times returns the sample times in order.
func (s *IntegrationStep[T]) Times() []T {
	out := make([]T, len(s.times))
	copy(out, s.times)
	return out
}

// States returns the sampled states in order.
func (s *IntegrationStep[T]) States() []mat.Matrix[T] {
	out := make([]mat.Matrix[T], len(s.states))
	copy(out, s.states)
	return out
}

// Derivatives returns the sampled state derivatives in order.
func (s *IntegrationStep[T]) Derivatives() []mat.Matrix[T] {
	out := make([]mat.Matrix[T], len(s.derivs))
	copy(out, s.derivs)
	return out
}

// Samples returns every sample as a triple.
func (s *IntegrationStep[T]) Samples() []Sample[T] {
	out := make([]Sample[T], len(s.times))
	for i := range s.times {
		out[i] = Sample[T]{Time: s.times[i], State: s.states[i], Derivative: s.derivs[i]}
	}
	return out
}

func (s *IntegrationStep[T]) first() Sample[T] {
	return Sample[T]{Time: s.times[0], State: s.states[0], Derivative: s.derivs[0]}
}

func (s *IntegrationStep[T]) last() Sample[T] {
	n := len(s.times) - 1
	return Sample[T]{Time: s.times[n], State: s.states[n], Derivative: s.derivs[n]}
}

// clone copies the sample slices. Matrices are immutable and shared.
func (s *IntegrationStep[T]) clone() *IntegrationStep[T] {
	return &IntegrationStep[T]{
		times:  s.Times(),
		states: s.States(),
		derivs: s.Derivatives(),
		dim:    s.dim,
	}
}
