package dense

import (
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

// Output is the query surface of a dense output.
type Output[T scalar.Scalar[T]] interface {
	IsEmpty() bool
	StartTime() (T, error)
	EndTime() (T, error)
	Dimensions() (int, error)
	Evaluate(t T) (mat.Matrix[T], error)
	EvaluateNth(t T, n int) (T, error)
}

// StepwiseOutput is an Output built from integration steps through a staged
// update protocol.
type StepwiseOutput[T scalar.Scalar[T]] interface {
	Output[T]
	Update(step *IntegrationStep[T]) error
	Rollback() (*IntegrationStep[T], error)
	Consolidate() error
}

var (
	_ StepwiseOutput[scalar.Real] = (*HermiteOutput[scalar.Real])(nil)
	_ StepwiseOutput[scalar.Dual] = (*HermiteOutput[scalar.Dual])(nil)
)

// HermiteOutput is a piecewise cubic Hermite dense output.
//
// Steps enter through Update into a pending list, leave it through Rollback
// (most recent first) or all at once through Consolidate, which appends them
// to the committed trajectory. Queries only ever see committed steps.
// A HermiteOutput is not safe for concurrent use.
type HermiteOutput[T scalar.Scalar[T]] struct {
	pending   []*IntegrationStep[T]
	committed []*IntegrationStep[T]
}

// NewHermiteOutput returns an empty output.
func NewHermiteOutput[T scalar.Scalar[T]]() *HermiteOutput[T] {
	return &HermiteOutput[T]{}
}

// IsEmpty reports whether no step has been consolidated yet.
func (o *HermiteOutput[T]) IsEmpty() bool { return len(o.committed) == 0 }

// PendingCount returns the number of staged, unconsolidated steps.
func (o *HermiteOutput[T]) PendingCount() int { return len(o.pending) }

// StepCount returns the number of consolidated steps.
func (o *HermiteOutput[T]) StepCount() int { return len(o.committed) }

// Update validates step against the most recently known step and stages a
// copy of it. Nothing changes when an error is returned.
func (o *HermiteOutput[T]) Update(step *IntegrationStep[T]) error {
	if step == nil {
		return opErrorf("Update", ErrNilStep, "")
	}
	if step.IsZeroLength() {
		return opErrorf("Update", ErrZeroLengthStep, "t=%v", step.StartTime())
	}
	if prev := o.latest(); prev != nil {
		if err := checkContinuity(prev, step); err != nil {
			return err
		}
	}
	o.pending = append(o.pending, step.clone())
	return nil
}

func checkContinuity[T scalar.Scalar[T]](prev, next *IntegrationStep[T]) error {
	if next.Dimensions() != prev.Dimensions() {
		return opErrorf("Update", ErrDimensionMismatch,
			"step has %d dimensions, output has %d", next.Dimensions(), prev.Dimensions())
	}
	end, start := prev.last(), next.first()
	if !start.Time.Equal(end.Time) {
		return opErrorf("Update", ErrTimeDiscontinuity, "start=%v, previous end=%v", start.Time, end.Time)
	}
	if !start.State.Equal(end.State) {
		return opErrorf("Update", ErrStateDiscontinuity, "start=%v, previous end=%v", start.State, end.State)
	}
	if !start.Derivative.Equal(end.Derivative) {
		return opErrorf("Update", ErrDerivativeDiscontinuity, "start=%v, previous end=%v", start.Derivative, end.Derivative)
	}
	return nil
}

// Rollback removes the most recently staged step and hands it back.
func (o *HermiteOutput[T]) Rollback() (*IntegrationStep[T], error) {
	n := len(o.pending)
	if n == 0 {
		return nil, opErrorf("Rollback", ErrNothingPending, "")
	}
	step := o.pending[n-1]
	o.pending[n-1] = nil
	o.pending = o.pending[:n-1]
	return step, nil
}

// Consolidate commits every staged step, in order.
func (o *HermiteOutput[T]) Consolidate() error {
	if len(o.pending) == 0 {
		return opErrorf("Consolidate", ErrNothingPending, "")
	}
	o.committed = append(o.committed, o.pending...)
	o.pending = nil
	return nil
}

func (o *HermiteOutput[T]) StartTime() (T, error) {
	if o.IsEmpty() {
		var zero T
		return zero, opErrorf("StartTime", ErrEmptyOutput, "")
	}
	return o.committed[0].StartTime(), nil
}

func (o *HermiteOutput[T]) EndTime() (T, error) {
	if o.IsEmpty() {
		var zero T
		return zero, opErrorf("EndTime", ErrEmptyOutput, "")
	}
	return o.committed[len(o.committed)-1].EndTime(), nil
}

func (o *HermiteOutput[T]) Dimensions() (int, error) {
	if o.IsEmpty() {
		return 0, opErrorf("Dimensions", ErrEmptyOutput, "")
	}
	return o.committed[0].Dimensions(), nil
}

// Steps returns the consolidated steps in time order. The steps must not be
// extended by the caller.
func (o *HermiteOutput[T]) Steps() []*IntegrationStep[T] {
	out := make([]*IntegrationStep[T], len(o.committed))
	copy(out, o.committed)
	return out
}

// Evaluate returns the interpolated state at t, which must lie within the
// consolidated span. At sample times a copy of the sampled state is returned.
func (o *HermiteOutput[T]) Evaluate(t T) (mat.Matrix[T], error) {
	if err := o.checkQuery("Evaluate", t); err != nil {
		return mat.Matrix[T]{}, err
	}
	a, b, exact := locate(o.committed, t)
	if exact {
		return a.State.Clone(), nil
	}
	return interpolate(t, a, b)
}

// EvaluateNth returns component n of the interpolated state at t.
func (o *HermiteOutput[T]) EvaluateNth(t T, n int) (T, error) {
	var zero T
	if err := o.checkQuery("EvaluateNth", t); err != nil {
		return zero, err
	}
	if dim := o.committed[0].Dimensions(); n < 0 || n >= dim {
		return zero, opErrorf("EvaluateNth", ErrDimensionOutOfRange, "n=%d, dimensions=%d", n, dim)
	}
	a, b, exact := locate(o.committed, t)
	if exact {
		return a.State.At(n, 0)
	}
	return interpolateNth(t, a, b, n)
}

func (o *HermiteOutput[T]) checkQuery(op string, t T) error {
	if o.IsEmpty() {
		return opErrorf(op, ErrEmptyOutput, "")
	}
	start := o.committed[0].StartTime()
	end := o.committed[len(o.committed)-1].EndTime()
	if !inSpan(t, start, end) {
		return opErrorf(op, ErrOutOfRange, "t=%v, span=[%v, %v]", t, start, end)
	}
	return nil
}

// latest is the most recently known step: the last pending one, else the
// last committed one, else nil.
func (o *HermiteOutput[T]) latest() *IntegrationStep[T] {
	if n := len(o.pending); n > 0 {
		return o.pending[n-1]
	}
	if n := len(o.committed); n > 0 {
		return o.committed[n-1]
	}
	return nil
}
