package dense_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

var (
	_ = describeIntegrationStep[scalar.Real]("Real")
	_ = describeIntegrationStep[scalar.Dual]("Dual")
)

func describeIntegrationStep[T scalar.Scalar[T]](name string) bool {
	return Describe("IntegrationStep["+name+"]", func() {
		var f fixture[T]

		BeforeEach(func() {
			f = newFixture[T]()
		})

		It("constructs a zero length step from a single sample", func() {
			step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
			Expect(err).NotTo(HaveOccurred())

			Expect(step.Len()).To(Equal(1))
			Expect(step.Times()).To(HaveLen(1))
			Expect(step.StartTime().Equal(f.initialTime)).To(BeTrue())
			Expect(step.EndTime().Equal(f.initialTime)).To(BeTrue())
			Expect(step.IsZeroLength()).To(BeTrue())
			Expect(step.Dimensions()).To(Equal(f.initialState.Rows()))
			Expect(step.States()).To(HaveLen(1))
			Expect(step.States()[0].Equal(f.initialState)).To(BeTrue())
			Expect(step.Derivatives()).To(HaveLen(1))
			Expect(step.Derivatives()[0].Equal(f.initialDeriv)).To(BeTrue())
		})

		It("rejects a NaN start time", func() {
			step, err := dense.NewIntegrationStep(scalar.Const[T](math.NaN()), f.initialState, f.initialDeriv)
			Expect(err).To(MatchError(dense.ErrInvalidTime))
			Expect(err).To(MatchError(dense.ErrInvalidArgument))
			Expect(step).To(BeNil())
		})

		It("is zero length exactly while it holds one sample", func() {
			step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
			Expect(err).NotTo(HaveOccurred())
			Expect(step.IsZeroLength()).To(BeTrue())

			Expect(step.Extend(f.finalTime, f.finalState, f.finalDeriv)).To(Succeed())
			Expect(step.IsZeroLength()).To(BeFalse())
		})

		DescribeTable("rejects malformed initial samples",
			func(x, dx func(fixture[T]) mat.Matrix[T], want error) {
				_, err := dense.NewIntegrationStep(f.initialTime, x(f), dx(f))
				Expect(err).To(MatchError(want))
				Expect(err).To(MatchError(dense.ErrInvalidArgument))
			},
			Entry("state not a vector",
				func(f fixture[T]) mat.Matrix[T] { return f.finalStateNotAVector },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivFewerDims },
				dense.ErrNotAVector),
			Entry("derivative not a vector",
				func(f fixture[T]) mat.Matrix[T] { return f.finalStateFewerDims },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivNotAVector },
				dense.ErrNotAVector),
			Entry("row count mismatch",
				func(f fixture[T]) mat.Matrix[T] { return f.initialState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivMoreDims },
				dense.ErrDimensionMismatch),
		)

		DescribeTable("rejects extensions that break consistency and stays unchanged",
			func(tm func(fixture[T]) T, x, dx func(fixture[T]) mat.Matrix[T], want error) {
				step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
				Expect(err).NotTo(HaveOccurred())

				err = step.Extend(tm(f), x(f), dx(f))
				Expect(err).To(MatchError(want))
				Expect(err).To(MatchError(dense.ErrInvalidArgument))

				Expect(step.Len()).To(Equal(1))
				Expect(step.EndTime().Equal(f.initialTime)).To(BeTrue())
			},
			Entry("time before start",
				func(f fixture[T]) T { return f.invalidTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrNonIncreasingTime),
			Entry("time equal to end",
				func(f fixture[T]) T { return f.initialTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrNonIncreasingTime),
			Entry("NaN time",
				func(fixture[T]) T { return scalar.Const[T](math.NaN()) },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrNonIncreasingTime),
			Entry("state with fewer dimensions",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalStateFewerDims },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrDimensionMismatch),
			Entry("state with more dimensions",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalStateMoreDims },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrDimensionMismatch),
			Entry("state not a vector",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalStateNotAVector },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDeriv },
				dense.ErrNotAVector),
			Entry("derivative with fewer dimensions",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivFewerDims },
				dense.ErrDimensionMismatch),
			Entry("derivative with more dimensions",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivMoreDims },
				dense.ErrDimensionMismatch),
			Entry("derivative not a vector",
				func(f fixture[T]) T { return f.finalTime },
				func(f fixture[T]) mat.Matrix[T] { return f.finalState },
				func(f fixture[T]) mat.Matrix[T] { return f.finalDerivNotAVector },
				dense.ErrNotAVector),
		)

		It("extends with valid samples", func() {
			step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
			Expect(err).NotTo(HaveOccurred())

			Expect(step.Extend(f.finalTime, f.finalState, f.finalDeriv)).To(Succeed())

			Expect(step.Times()).To(HaveLen(2))
			Expect(step.StartTime().Equal(f.initialTime)).To(BeTrue())
			Expect(step.EndTime().Equal(f.finalTime)).To(BeTrue())
			Expect(step.IsZeroLength()).To(BeFalse())
			Expect(step.Dimensions()).To(Equal(f.initialState.Rows()))

			states := step.States()
			Expect(states).To(HaveLen(2))
			Expect(states[1].Equal(f.finalState)).To(BeTrue())

			derivs := step.Derivatives()
			Expect(derivs).To(HaveLen(2))
			Expect(derivs[1].Equal(f.finalDeriv)).To(BeTrue())

			samples := step.Samples()
			Expect(samples).To(HaveLen(2))
			Expect(samples[0].Time.Equal(f.initialTime)).To(BeTrue())
			Expect(samples[1].State.Equal(f.finalState)).To(BeTrue())
		})

		It("does not expose its internal slices", func() {
			step := f.firstStep()

			times := step.Times()
			times[0] = f.finalTime
			states := step.States()
			states[0] = f.finalState

			Expect(step.StartTime().Equal(f.initialTime)).To(BeTrue())
			Expect(step.States()[0].Equal(f.initialState)).To(BeTrue())
		})
	})
}
