package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/dynout/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	x := integrate(t, NewRK45(), &harmonicOscillator{}, dynamo.State{1.0, 0.0}, 0.01, 1000)

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := integrate(t, NewRK45(), dyn, x0, 0.01, 10000)

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	step, ratio, newDt, err := integrator.StepAdaptive(dyn, 0, x0, dyn.Derive(x0, 0), 0.1, 1e-8)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}

	_, x, dx := EndOf(step)
	if !x.IsValid() || !dx.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}

	if ratio < 0 {
		t.Errorf("StepAdaptive returned negative error ratio: %f", ratio)
	}

	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
}

func TestRK45_LargeStepIsRejected(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	_, ratio, newDt, err := integrator.StepAdaptive(dyn, 0, x0, dyn.Derive(x0, 0), 2.0, 1e-10)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if ratio <= 1 {
		t.Errorf("expected error ratio above 1 for a huge step, got %g", ratio)
	}
	if newDt >= 2.0 {
		t.Errorf("expected a smaller suggested dt, got %g", newDt)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x4 := integrate(t, NewRK4(), dyn, x0, 0.1, 100)
	x45 := integrate(t, NewRK45(), dyn, x0, 0.1, 100)

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Log("Warning: RK45 not more accurate than RK4 for this case")
	}
}
