package dense_test

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

// fixture holds a three dimensional trajectory sampled at t = 0, 0.5, 1 and
// a set of malformed inputs around it.
type fixture[T scalar.Scalar[T]] struct {
	invalidTime, initialTime, midTime, finalTime T

	initialState, midState, finalState      mat.Matrix[T]
	finalStateFewerDims, finalStateMoreDims mat.Matrix[T]
	finalStateNotAVector                    mat.Matrix[T]
	initialDeriv, midDeriv, finalDeriv      mat.Matrix[T]
	finalDerivFewerDims, finalDerivMoreDims mat.Matrix[T]
	finalDerivNotAVector                    mat.Matrix[T]
}

func newFixture[T scalar.Scalar[T]]() fixture[T] {
	return fixture[T]{
		invalidTime: scalar.Const[T](-1),
		initialTime: scalar.Const[T](0),
		midTime:     scalar.Const[T](0.5),
		finalTime:   scalar.Const[T](1),

		initialState:         mat.FromFloats[T](0, 0, 0),
		midState:             mat.FromFloats[T](0.5, 5, 50),
		finalState:           mat.FromFloats[T](1, 10, 100),
		finalStateFewerDims:  mat.FromFloats[T](1, 10),
		finalStateMoreDims:   mat.FromFloats[T](1, 10, 100, 1000),
		finalStateNotAVector: square[T](1, 10, 100, 1000),

		initialDeriv:         mat.FromFloats[T](0, 1, 0),
		midDeriv:             mat.FromFloats[T](0.5, 0.5, 0.5),
		finalDeriv:           mat.FromFloats[T](1, 0, 1),
		finalDerivFewerDims:  mat.FromFloats[T](1, 0),
		finalDerivMoreDims:   mat.FromFloats[T](1, 0, 1, 0),
		finalDerivNotAVector: square[T](0, 1, 0, 1),
	}
}

func square[T scalar.Scalar[T]](a, b, c, d float64) mat.Matrix[T] {
	m, err := mat.New(2, 2, []T{
		scalar.Const[T](a), scalar.Const[T](b),
		scalar.Const[T](c), scalar.Const[T](d),
	})
	Expect(err).NotTo(HaveOccurred())
	return m
}

func (f fixture[T]) step(t0 T, x0, dx0 mat.Matrix[T], t1 T, x1, dx1 mat.Matrix[T]) *dense.IntegrationStep[T] {
	s, err := dense.NewIntegrationStep(t0, x0, dx0)
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Extend(t1, x1, dx1)).To(Succeed())
	return s
}

func (f fixture[T]) firstStep() *dense.IntegrationStep[T] {
	return f.step(f.initialTime, f.initialState, f.initialDeriv, f.midTime, f.midState, f.midDeriv)
}

func (f fixture[T]) secondStep() *dense.IntegrationStep[T] {
	return f.step(f.midTime, f.midState, f.midDeriv, f.finalTime, f.finalState, f.finalDeriv)
}

func floats[T scalar.Scalar[T]](m mat.Matrix[T], err error) []float64 {
	Expect(err).NotTo(HaveOccurred())
	return m.Floats()
}
