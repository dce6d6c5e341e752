package dense

import (
	"math"
	"sort"

	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

// hermiteWeights returns the weights of x0, dx0, x1 and dx1 for the cubic
// Hermite interpolant on [t0, t1] evaluated at t:
//
//	h = t1 - t0, s = (t - t0) / h
//	H00 = 2s³ - 3s² + 1    H10 = s³ - 2s² + s
//	H01 = -2s³ + 3s²       H11 = s³ - s²
//
// The h factor of the derivative terms is folded into the second and fourth
// weights. Everything stays in T arithmetic so carried derivatives propagate.
func hermiteWeights[T scalar.Scalar[T]](t, t0, t1 T) (w00, w10, w01, w11 T) {
	one := scalar.Const[T](1)
	two := scalar.Const[T](2)
	three := scalar.Const[T](3)

	h := t1.Sub(t0)
	s := t.Sub(t0).Div(h)
	s2 := s.Mul(s)
	s3 := s2.Mul(s)

	w00 = two.Mul(s3).Sub(three.Mul(s2)).Add(one)
	w10 = s3.Sub(two.Mul(s2)).Add(s).Mul(h)
	w01 = three.Mul(s2).Sub(two.Mul(s3))
	w11 = s3.Sub(s2).Mul(h)
	return
}

// interpolate evaluates the cubic Hermite interpolant between samples a and b.
func interpolate[T scalar.Scalar[T]](t T, a, b Sample[T]) (mat.Matrix[T], error) {
	w00, w10, w01, w11 := hermiteWeights(t, a.Time, b.Time)

	x := a.State.Scale(w00)
	var err error
	if x, err = x.AddScaled(w10, a.Derivative); err != nil {
		return mat.Matrix[T]{}, err
	}
	if x, err = x.AddScaled(w01, b.State); err != nil {
		return mat.Matrix[T]{}, err
	}
	return x.AddScaled(w11, b.Derivative)
}

// interpolateNth is interpolate restricted to row n.
func interpolateNth[T scalar.Scalar[T]](t T, a, b Sample[T], n int) (T, error) {
	w00, w10, w01, w11 := hermiteWeights(t, a.Time, b.Time)

	var terms [4]T
	for i, m := range []mat.Matrix[T]{a.State, a.Derivative, b.State, b.Derivative} {
		v, err := m.At(n, 0)
		if err != nil {
			var zero T
			return zero, err
		}
		terms[i] = v
	}
	return terms[0].Mul(w00).
		Add(terms[1].Mul(w10)).
		Add(terms[2].Mul(w01)).
		Add(terms[3].Mul(w11)), nil
}

// inSpan reports start <= t <= end. Nothing is in span when any of the
// three is NaN.
func inSpan[T scalar.Scalar[T]](t, start, end T) bool {
	if math.IsNaN(t.Float()) || math.IsNaN(start.Float()) || math.IsNaN(end.Float()) {
		return false
	}
	return scalar.LessEq(start, t) && scalar.LessEq(t, end)
}

// locate finds the samples bracketing t within a contiguous, ordered list of
// steps. When t hits a sample time exactly, a is that sample and exact is true.
// t must already be known to lie in the span of steps.
func locate[T scalar.Scalar[T]](steps []*IntegrationStep[T], t T) (a, b Sample[T], exact bool) {
	i := sort.Search(len(steps), func(i int) bool {
		return !steps[i].EndTime().Less(t)
	})
	if i == len(steps) {
		i = len(steps) - 1
	}
	step := steps[i]

	j := sort.Search(len(step.times), func(j int) bool {
		return !step.times[j].Less(t)
	})
	if j == len(step.times) {
		j = len(step.times) - 1
	}
	if step.times[j].Equal(t) {
		s := Sample[T]{Time: step.times[j], State: step.states[j], Derivative: step.derivs[j]}
		return s, s, true
	}
	// Same value as the first sample but different carried derivatives.
	if j == 0 {
		j = 1
	}
	a = Sample[T]{Time: step.times[j-1], State: step.states[j-1], Derivative: step.derivs[j-1]}
	b = Sample[T]{Time: step.times[j], State: step.states[j], Derivative: step.derivs[j]}
	return a, b, false
}
