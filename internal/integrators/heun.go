package integrators

import "github.com/san-kum/dynout/internal/dynamo"

// Heun is the explicit trapezoidal predictor-corrector.
type Heun struct {
	SubSteps int
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Name() string { return "heun" }

func (h *Heun) Step(sys dynamo.System, t float64, x, dx dynamo.State, dt float64) (*dynamo.Step, error) {
	return sampled(sys, t, x, dx, dt, h.SubSteps, heunAdvance)
}

func heunAdvance(sys dynamo.System, t float64, x, dx dynamo.State, h float64) dynamo.State {
	predicted := x.AddScaled(h, dx)
	k2 := sys.Derive(predicted, t+h)

	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + 0.5*h*(dx[i]+k2[i])
	}
	return result
}
