package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/dynout/internal/dense"
	"github.com/san-kum/dynout/internal/mat"
	"github.com/san-kum/dynout/internal/scalar"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AddScaled returns s + k*other. other must have the same length.
func (s State) AddScaled(k float64, other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + k*other[i]
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

// Vector converts s to a column vector for dense outputs.
func (s State) Vector() mat.Matrix[scalar.Real] {
	return mat.FromFloats[scalar.Real](s...)
}

// FromVector converts a column vector back to a State.
func FromVector(m mat.Matrix[scalar.Real]) State {
	return State(m.Floats())
}

// Step is an integration step over real scalars.
type Step = dense.IntegrationStep[scalar.Real]

// Output is a dense output over real scalars.
type Output = dense.HermiteOutput[scalar.Real]

// System is an ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Stepper advances a system by one step of size dt from (t, x), where dx is
// f(x, t). The returned step starts with exactly (t, x, dx) and ends at t+dt
// with the new state and its derivative; it may hold internal samples.
type Stepper interface {
	Name() string
	Step(sys System, t float64, x, dx State, dt float64) (*Step, error)
}

// AdaptiveStepper is a Stepper with an embedded error estimate. ratio is the
// estimated local error divided by tol, so ratio > 1 means the step should
// be rejected; dtNext is the suggested size for the next attempt.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, t float64, x, dx State, dt, tol float64) (step *Step, ratio, dtNext float64, err error)
}

// Observer is notified of every consolidated step, in time order.
type Observer interface {
	OnStep(step *Step)
}

type Config struct {
	StartTime     float64
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// SubSteps is the number of internal samples per step for steppers that
	// support it. Zero or one means none.
	SubSteps int
	// ConsolidateEvery commits fixed-step runs in batches of this many
	// steps. Zero or one consolidates every step.
	ConsolidateEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:               0.01,
		Duration:         10.0,
		Tolerance:        1e-6,
		MaxDt:            0.1,
		MinDt:            1e-8,
		Adaptive:         false,
		ValidateState:    true,
		ConsolidateEvery: 1,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Adaptive {
		if c.Tolerance <= 0 {
			return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
		}
		if c.MinDt <= 0 || c.MaxDt < c.MinDt {
			return fmt.Errorf("%w: need 0 < min dt <= max dt, got %g and %g", ErrInvalidConfig, c.MinDt, c.MaxDt)
		}
	}
	if c.SubSteps < 0 || c.ConsolidateEvery < 0 {
		return fmt.Errorf("%w: substeps and consolidate_every must not be negative", ErrInvalidConfig)
	}
	return nil
}
