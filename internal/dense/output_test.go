package dense_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
	"github.com/san-kum/dynout/internal/spline"
)

var (
	_ = describeHermiteOutput[scalar.Real]("Real")
	_ = describeHermiteOutput[scalar.Dual]("Dual")
)

func describeHermiteOutput[T scalar.Scalar[T]](name string) bool {
	return Describe("HermiteOutput["+name+"]", func() {
		var (
			f   fixture[T]
			out *dense.HermiteOutput[T]
		)

		BeforeEach(func() {
			f = newFixture[T]()
			out = dense.NewHermiteOutput[T]()
		})

		Describe("a fresh output", func() {
			It("is empty and refuses every query", func() {
				Expect(out.IsEmpty()).To(BeTrue())

				_, err := out.Evaluate(f.initialTime)
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
				Expect(err).To(MatchError(dense.ErrIllegalState))

				_, err = out.EvaluateNth(f.initialTime, 0)
				Expect(err).To(MatchError(dense.ErrIllegalState))
				_, err = out.StartTime()
				Expect(err).To(MatchError(dense.ErrIllegalState))
				_, err = out.EndTime()
				Expect(err).To(MatchError(dense.ErrIllegalState))
				_, err = out.Dimensions()
				Expect(err).To(MatchError(dense.ErrIllegalState))
			})

			It("has nothing to roll back or consolidate", func() {
				_, err := out.Rollback()
				Expect(err).To(MatchError(dense.ErrNothingPending))
				Expect(err).To(MatchError(dense.ErrIllegalState))

				err = out.Consolidate()
				Expect(err).To(MatchError(dense.ErrNothingPending))
				Expect(err).To(MatchError(dense.ErrIllegalState))
			})

			It("rejects a nil step", func() {
				Expect(out.Update(nil)).To(MatchError(dense.ErrNilStep))
			})
		})

		Describe("updating", func() {
			It("rejects zero length steps", func() {
				step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
				Expect(err).NotTo(HaveOccurred())

				err = out.Update(step)
				Expect(err).To(MatchError(dense.ErrZeroLengthStep))
				Expect(err).To(MatchError(dense.ErrInvalidArgument))
				Expect(out.PendingCount()).To(Equal(0))
			})

			It("never commits a single sample step, even a NaN one", func() {
				_, err := dense.NewIntegrationStep(scalar.Const[T](math.NaN()), f.initialState, f.initialDeriv)
				Expect(err).To(MatchError(dense.ErrInvalidTime))

				step, err := dense.NewIntegrationStep(f.finalTime, f.finalState, f.finalDeriv)
				Expect(err).NotTo(HaveOccurred())
				Expect(out.Update(step)).To(MatchError(dense.ErrZeroLengthStep))
				Expect(out.Consolidate()).To(MatchError(dense.ErrNothingPending))

				Expect(out.IsEmpty()).To(BeTrue())
				Expect(func() {
					_, err = out.Evaluate(f.finalTime)
				}).NotTo(Panic())
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
			})

			It("stages steps without consolidating them", func() {
				Expect(out.Update(f.firstStep())).To(Succeed())

				Expect(out.PendingCount()).To(Equal(1))
				Expect(out.IsEmpty()).To(BeTrue())

				_, err := out.Evaluate(f.midTime)
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
				_, err = out.StartTime()
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
				_, err = out.EndTime()
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
				_, err = out.Dimensions()
				Expect(err).To(MatchError(dense.ErrEmptyOutput))
			})

			It("keeps its own copy of staged steps", func() {
				step := f.firstStep()
				Expect(out.Update(step)).To(Succeed())
				Expect(step.Extend(f.finalTime, f.finalState, f.finalDeriv)).To(Succeed())
				Expect(out.Consolidate()).To(Succeed())

				end, err := out.EndTime()
				Expect(err).NotTo(HaveOccurred())
				Expect(end.Equal(f.midTime)).To(BeTrue())
			})

			DescribeTable("rejects steps that break continuity with a pending predecessor",
				func(mk func(fixture[T]) *dense.IntegrationStep[T], want error) {
					Expect(out.Update(f.firstStep())).To(Succeed())

					err := out.Update(mk(f))
					Expect(err).To(MatchError(want))
					Expect(err).To(MatchError(dense.ErrInvalidArgument))
					Expect(out.PendingCount()).To(Equal(1))
				},
				Entry("start time past the previous end", func(f fixture[T]) *dense.IntegrationStep[T] {
					start := f.finalTime.Add(f.midTime).Div(scalar.Const[T](2))
					return f.step(start, f.midState, f.midDeriv, f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrTimeDiscontinuity),
				Entry("start state differs", func(f fixture[T]) *dense.IntegrationStep[T] {
					return f.step(f.midTime, f.midState.Scale(scalar.Const[T](2)), f.midDeriv,
						f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrStateDiscontinuity),
				Entry("start derivative differs", func(f fixture[T]) *dense.IntegrationStep[T] {
					return f.step(f.midTime, f.midState, f.midDeriv.Scale(scalar.Const[T](2)),
						f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrDerivativeDiscontinuity),
				Entry("different dimension", func(f fixture[T]) *dense.IntegrationStep[T] {
					return f.step(f.midTime, mat.FromFloats[T](0.5, 5), mat.FromFloats[T](0.5, 0.5),
						f.finalTime, f.finalStateFewerDims, f.finalDerivFewerDims)
				}, dense.ErrDimensionMismatch),
			)
		})

		Describe("after consolidation", func() {
			var first *dense.IntegrationStep[T]

			BeforeEach(func() {
				first = f.firstStep()
				Expect(out.Update(first)).To(Succeed())
				Expect(out.Consolidate()).To(Succeed())
			})

			It("reflects the consolidated step", func() {
				Expect(out.IsEmpty()).To(BeFalse())
				Expect(out.PendingCount()).To(Equal(0))
				Expect(out.StepCount()).To(Equal(1))

				start, err := out.StartTime()
				Expect(err).NotTo(HaveOccurred())
				Expect(start.Equal(first.StartTime())).To(BeTrue())

				end, err := out.EndTime()
				Expect(err).NotTo(HaveOccurred())
				Expect(end.Equal(first.EndTime())).To(BeTrue())

				dims, err := out.Dimensions()
				Expect(err).NotTo(HaveOccurred())
				Expect(dims).To(Equal(first.Dimensions()))

				_, err = out.Evaluate(f.midTime)
				Expect(err).NotTo(HaveOccurred())
			})

			It("can no longer roll back", func() {
				_, err := out.Rollback()
				Expect(err).To(MatchError(dense.ErrNothingPending))
			})

			It("rejects queries outside the span", func() {
				_, err := out.Evaluate(f.invalidTime)
				Expect(err).To(MatchError(dense.ErrOutOfRange))
				Expect(err).To(MatchError(dense.ErrInvalidArgument))

				_, err = out.Evaluate(f.finalTime)
				Expect(err).To(MatchError(dense.ErrOutOfRange))

				_, err = out.EvaluateNth(f.finalTime, 0)
				Expect(err).To(MatchError(dense.ErrOutOfRange))

				_, err = out.Evaluate(scalar.Const[T](math.NaN()))
				Expect(err).To(MatchError(dense.ErrOutOfRange))
			})

			It("rejects out of range dimension indices", func() {
				for _, n := range []int{-1, 3} {
					_, err := out.EvaluateNth(f.midTime, n)
					Expect(err).To(MatchError(dense.ErrDimensionOutOfRange))
				}
			})

			DescribeTable("rejects steps that break continuity with a committed predecessor",
				func(mk func(fixture[T]) *dense.IntegrationStep[T], want error) {
					Expect(out.Update(mk(f))).To(MatchError(want))
					Expect(out.PendingCount()).To(Equal(0))
					Expect(out.StepCount()).To(Equal(1))
				},
				Entry("start time past the previous end", func(f fixture[T]) *dense.IntegrationStep[T] {
					start := f.finalTime.Add(f.midTime).Div(scalar.Const[T](2))
					return f.step(start, f.midState, f.midDeriv, f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrTimeDiscontinuity),
				Entry("start state differs", func(f fixture[T]) *dense.IntegrationStep[T] {
					return f.step(f.midTime, f.midState.Scale(scalar.Const[T](2)), f.midDeriv,
						f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrStateDiscontinuity),
				Entry("start derivative differs", func(f fixture[T]) *dense.IntegrationStep[T] {
					return f.step(f.midTime, f.midState, f.midDeriv.Scale(scalar.Const[T](2)),
						f.finalTime, f.finalState, f.finalDeriv)
				}, dense.ErrDerivativeDiscontinuity),
			)

			It("extends an already consolidated trajectory", func() {
				Expect(out.Update(f.secondStep())).To(Succeed())
				Expect(out.Consolidate()).To(Succeed())

				Expect(out.StepCount()).To(Equal(2))
				end, err := out.EndTime()
				Expect(err).NotTo(HaveOccurred())
				Expect(end.Equal(f.finalTime)).To(BeTrue())
			})
		})

		It("consolidates only what survives a rollback", func() {
			first := f.firstStep()
			second := f.secondStep()
			Expect(out.Update(first)).To(Succeed())
			Expect(out.Update(second)).To(Succeed())

			rolled, err := out.Rollback()
			Expect(err).NotTo(HaveOccurred())
			Expect(rolled.EndTime().Equal(second.EndTime())).To(BeTrue())

			Expect(out.Consolidate()).To(Succeed())

			Expect(out.IsEmpty()).To(BeFalse())
			start, _ := out.StartTime()
			Expect(start.Equal(first.StartTime())).To(BeTrue())
			end, _ := out.EndTime()
			Expect(end.Equal(first.EndTime())).To(BeTrue())
			dims, _ := out.Dimensions()
			Expect(dims).To(Equal(first.Dimensions()))

			x0, err := out.Evaluate(f.initialTime)
			Expect(err).NotTo(HaveOccurred())
			Expect(x0.Equal(first.States()[0])).To(BeTrue())

			x1, err := out.Evaluate(f.midTime)
			Expect(err).NotTo(HaveOccurred())
			Expect(x1.Equal(first.States()[1])).To(BeTrue())
		})

		It("accepts a rolled back step again after a rollback", func() {
			Expect(out.Update(f.firstStep())).To(Succeed())
			Expect(out.Update(f.secondStep())).To(Succeed())
			_, err := out.Rollback()
			Expect(err).NotTo(HaveOccurred())
			_, err = out.Rollback()
			Expect(err).NotTo(HaveOccurred())
			_, err = out.Rollback()
			Expect(err).To(MatchError(dense.ErrNothingPending))

			Expect(out.Update(f.firstStep())).To(Succeed())
			Expect(out.Consolidate()).To(Succeed())
			Expect(out.StepCount()).To(Equal(1))
		})

		It("matches an independent cubic Hermite spline", func() {
			Expect(out.Update(f.firstStep())).To(Succeed())
			Expect(out.Update(f.secondStep())).To(Succeed())
			Expect(out.Consolidate()).To(Succeed())

			ref, err := spline.NewCubicHermite(
				[]float64{0, 0.5, 1},
				[][]float64{f.initialState.Floats(), f.midState.Floats(), f.finalState.Floats()},
				[][]float64{f.initialDeriv.Floats(), f.midDeriv.Floats(), f.finalDeriv.Floats()},
			)
			Expect(err).NotTo(HaveOccurred())

			const accuracy = 1e-12
			for i := 0; i <= 10; i++ {
				t := float64(i) * 0.1
				want, err := ref.Value(t)
				Expect(err).NotTo(HaveOccurred())

				got := floats(out.Evaluate(scalar.Const[T](t)))
				Expect(got).To(HaveLen(len(want)))
				for n := range want {
					Expect(got[n]).To(BeNumerically("~", want[n], accuracy), "t=%g dim=%d", t, n)

					nth, err := out.EvaluateNth(scalar.Const[T](t), n)
					Expect(err).NotTo(HaveOccurred())
					Expect(nth.Float()).To(BeNumerically("~", want[n], accuracy))
				}
			}
		})

		It("interpolates within multi-sample steps", func() {
			step, err := dense.NewIntegrationStep(f.initialTime, f.initialState, f.initialDeriv)
			Expect(err).NotTo(HaveOccurred())
			Expect(step.Extend(f.midTime, f.midState, f.midDeriv)).To(Succeed())
			Expect(step.Extend(f.finalTime, f.finalState, f.finalDeriv)).To(Succeed())
			Expect(out.Update(step)).To(Succeed())
			Expect(out.Consolidate()).To(Succeed())

			ref, err := spline.NewCubicHermite(
				[]float64{0, 0.5, 1},
				[][]float64{f.initialState.Floats(), f.midState.Floats(), f.finalState.Floats()},
				[][]float64{f.initialDeriv.Floats(), f.midDeriv.Floats(), f.finalDeriv.Floats()},
			)
			Expect(err).NotTo(HaveOccurred())

			for _, t := range []float64{0.05, 0.25, 0.5, 0.75, 0.95, 1} {
				want, _ := ref.Value(t)
				got := floats(out.Evaluate(scalar.Const[T](t)))
				for n := range want {
					Expect(got[n]).To(BeNumerically("~", want[n], 1e-12))
				}
			}
		})
	})
}
