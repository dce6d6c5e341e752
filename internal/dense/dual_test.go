package dense_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
	"github.com/san-kum/dynout/internal/spline"
)

var _ = Describe("HermiteOutput with dual numbers", func() {
	var (
		f   fixture[scalar.Real]
		ref *spline.Cubic
	)

	BeforeEach(func() {
		f = newFixture[scalar.Real]()

		var err error
		ref, err = spline.NewCubicHermite(
			[]float64{0, 0.5, 1},
			[][]float64{f.initialState.Floats(), f.midState.Floats(), f.finalState.Floats()},
			[][]float64{f.initialDeriv.Floats(), f.midDeriv.Floats(), f.finalDeriv.Floats()},
		)
		Expect(err).NotTo(HaveOccurred())
	})

	// lift turns float samples into dual constants.
	lift := func(m mat.Matrix[scalar.Real]) mat.Matrix[scalar.Dual] {
		return mat.FromFloats[scalar.Dual](m.Floats()...)
	}

	build := func(times []scalar.Dual, states, derivs []mat.Matrix[scalar.Dual]) *dense.HermiteOutput[scalar.Dual] {
		out := dense.NewHermiteOutput[scalar.Dual]()
		for k := 0; k+1 < len(times); k++ {
			step, err := dense.NewIntegrationStep(times[k], states[k], derivs[k])
			Expect(err).NotTo(HaveOccurred())
			Expect(step.Extend(times[k+1], states[k+1], derivs[k+1])).To(Succeed())
			Expect(out.Update(step)).To(Succeed())
		}
		Expect(out.Consolidate()).To(Succeed())
		return out
	}

	It("propagates the time derivative of the query time", func() {
		out := build(
			[]scalar.Dual{scalar.Constant(0), scalar.Constant(0.5), scalar.Constant(1)},
			[]mat.Matrix[scalar.Dual]{lift(f.initialState), lift(f.midState), lift(f.finalState)},
			[]mat.Matrix[scalar.Dual]{lift(f.initialDeriv), lift(f.midDeriv), lift(f.finalDeriv)},
		)

		for _, tv := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
			x, err := out.Evaluate(scalar.Variable(tv, 0, 1))
			Expect(err).NotTo(HaveOccurred())

			want, err := ref.Derivative(tv)
			Expect(err).NotTo(HaveOccurred())

			col, err := x.Col(0)
			Expect(err).NotTo(HaveOccurred())
			for n, v := range col {
				Expect(v.Derivative(0)).To(BeNumerically("~", want[n], 1e-10), "t=%g dim=%d", tv, n)
			}
		}
	})

	It("propagates parameter sensitivities carried by the samples", func() {
		// Every sample is scaled by a parameter p = 1, so ∂x(t)/∂p = x(t).
		p := scalar.Variable(1, 0, 1)
		scaled := func(m mat.Matrix[scalar.Real]) mat.Matrix[scalar.Dual] {
			return lift(m).Scale(p)
		}

		out := build(
			[]scalar.Dual{scalar.Constant(0), scalar.Constant(0.5), scalar.Constant(1)},
			[]mat.Matrix[scalar.Dual]{scaled(f.initialState), scaled(f.midState), scaled(f.finalState)},
			[]mat.Matrix[scalar.Dual]{scaled(f.initialDeriv), scaled(f.midDeriv), scaled(f.finalDeriv)},
		)

		for i := 0; i <= 10; i++ {
			tv := float64(i) * 0.1
			want, err := ref.Value(tv)
			Expect(err).NotTo(HaveOccurred())

			for n := range want {
				v, err := out.EvaluateNth(scalar.Constant(tv), n)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.V).To(BeNumerically("~", want[n], 1e-12))
				Expect(v.Derivative(0)).To(BeNumerically("~", want[n], 1e-12))
			}
		}
	})

	It("treats differing gradients as a continuity break", func() {
		out := dense.NewHermiteOutput[scalar.Dual]()
		first, err := dense.NewIntegrationStep(scalar.Constant(0), lift(f.initialState), lift(f.initialDeriv))
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Extend(scalar.Constant(0.5), lift(f.midState), lift(f.midDeriv))).To(Succeed())
		Expect(out.Update(first)).To(Succeed())

		seeded := lift(f.midState).Scale(scalar.Variable(1, 0, 1))
		second, err := dense.NewIntegrationStep(scalar.Constant(0.5), seeded, lift(f.midDeriv))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Extend(scalar.Constant(1), lift(f.finalState), lift(f.finalDeriv))).To(Succeed())

		Expect(out.Update(second)).To(MatchError(dense.ErrStateDiscontinuity))
	})

	It("owns the gradients of the samples it was given", func() {
		x0, x1 := scalar.Variable(1, 0, 1), scalar.Variable(2, 0, 1)
		dx := scalar.Variable(1, 0, 1)
		step, err := dense.NewIntegrationStep(scalar.Constant(0), mat.Vector(x0), mat.Vector(dx))
		Expect(err).NotTo(HaveOccurred())
		Expect(step.Extend(scalar.Constant(1), mat.Vector(x1), mat.Vector(dx))).To(Succeed())

		x0.Grad[0] = 42
		dx.Grad[0] = 42
		got, err := step.States()[0].At(0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Derivative(0)).To(Equal(1.0))

		out := dense.NewHermiteOutput[scalar.Dual]()
		Expect(out.Update(step)).To(Succeed())
		Expect(out.Consolidate()).To(Succeed())

		x1.Grad[0] = 42
		hit, err := out.Evaluate(scalar.Constant(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(hit.Equal(mat.Vector(scalar.Variable(2, 0, 1)))).To(BeTrue())

		v, err := hit.At(0, 0)
		Expect(err).NotTo(HaveOccurred())
		v.Grad[0] = 42
		again, err := out.EvaluateNth(scalar.Constant(1), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Equal(scalar.Variable(2, 0, 1))).To(BeTrue())
	})
})
