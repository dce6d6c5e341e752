package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/dynamo"
	"github.com/san-kum/dynout/internal/scalar"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var registry = map[string]func(subSteps int) dynamo.Stepper{
	"euler": func(n int) dynamo.Stepper { return &Euler{SubSteps: n} },
	"heun":  func(n int) dynamo.Stepper { return &Heun{SubSteps: n} },
	"rk4":   func(n int) dynamo.Stepper { return &RK4{SubSteps: n} },
	"rk45":  func(int) dynamo.Stepper { return NewRK45() },
}

// New returns the stepper registered under name. subSteps is ignored by
// steppers that do not sample inside a step.
func New(name string, subSteps int) (dynamo.Stepper, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
	return mk(subSteps), nil
}

// Names lists registered steppers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// advanceFunc advances x by h from t given dx = f(x, t).
type advanceFunc func(sys dynamo.System, t float64, x, dx dynamo.State, h float64) dynamo.State

// sampled runs advance subSteps times across [t, t+dt], sampling the state
// and its derivative after every sub-step.
func sampled(sys dynamo.System, t float64, x, dx dynamo.State, dt float64, subSteps int, advance advanceFunc) (*dynamo.Step, error) {
	step, err := dense.NewIntegrationStep(scalar.Real(t), x.Vector(), dx.Vector())
	if err != nil {
		return nil, err
	}
	n := max(subSteps, 1)
	h := dt / float64(n)
	tk, xk, dxk := t, x, dx
	for k := 1; k <= n; k++ {
		xk = advance(sys, tk, xk, dxk, h)
		if k == n {
			tk = t + dt
		} else {
			tk = t + float64(k)*h
		}
		dxk = sys.Derive(xk, tk)
		if err := step.Extend(scalar.Real(tk), xk.Vector(), dxk.Vector()); err != nil {
			return nil, err
		}
	}
	return step, nil
}

// EndOf returns the last sample of step as plain floats.
func EndOf(step *dynamo.Step) (t float64, x, dx dynamo.State) {
	states := step.States()
	derivs := step.Derivatives()
	n := len(states) - 1
	return step.EndTime().Float(), dynamo.FromVector(states[n]), dynamo.FromVector(derivs[n])
}
