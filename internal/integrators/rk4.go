package integrators

import "github.com/san-kum/dynout/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. With SubSteps > 1 each
// step is split into that many RK4 sub-steps, all of them sampled.
type RK4 struct {
	SubSteps int
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(sys dynamo.System, t float64, x, dx dynamo.State, dt float64) (*dynamo.Step, error) {
	return sampled(sys, t, x, dx, dt, r.SubSteps, rk4Advance)
}

func rk4Advance(sys dynamo.System, t float64, x, k1 dynamo.State, dt float64) dynamo.State {
	n := len(x)
	scratch := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(scratch, t+dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
