package integrators

import "github.com/san-kum/dynout/internal/dynamo"

// Euler is the explicit first-order method.
type Euler struct {
	SubSteps int
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.System, t float64, x, dx dynamo.State, dt float64) (*dynamo.Step, error) {
	return sampled(sys, t, x, dx, dt, e.SubSteps, eulerAdvance)
}

func eulerAdvance(_ dynamo.System, _ float64, x, dx dynamo.State, h float64) dynamo.State {
	return x.AddScaled(h, dx)
}
