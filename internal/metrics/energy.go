// Package metrics holds observers that summarize a run as its steps are
// consolidated.
package metrics

import (
	"math"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Metric is an observer reducing a run to one number.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// EnergyDrift tracks the largest relative deviation of the energy from its
// value at the first observed sample. Systems without an energy report 0.
type EnergyDrift struct {
	sys      dynamo.Hamiltonian
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys dynamo.System) *EnergyDrift {
	h, _ := sys.(dynamo.Hamiltonian)
	return &EnergyDrift{sys: h}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(step *dynamo.Step) {
	if e.sys == nil {
		return
	}
	for _, x := range step.States() {
		energy := e.sys.Energy(dynamo.FromVector(x))
		if e.samples == 0 {
			e.initial = energy
		}
		e.samples++
		if e.initial != 0 {
			e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
		}
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// StepSize records the spread of step lengths, which is what adaptive
// stepping varies.
type StepSize struct {
	steps    int
	min, max float64
	total    float64
}

func NewStepSize() *StepSize { return &StepSize{} }

func (s *StepSize) Name() string { return "mean_dt" }

func (s *StepSize) OnStep(step *dynamo.Step) {
	h := (step.EndTime() - step.StartTime()).Float()
	if s.steps == 0 {
		s.min, s.max = h, h
	}
	s.min = math.Min(s.min, h)
	s.max = math.Max(s.max, h)
	s.total += h
	s.steps++
}

// Value returns the mean step length.
func (s *StepSize) Value() float64 {
	if s.steps == 0 {
		return 0
	}
	return s.total / float64(s.steps)
}

func (s *StepSize) Min() float64 { return s.min }
func (s *StepSize) Max() float64 { return s.max }

func (s *StepSize) Reset() { *s = StepSize{} }

var (
	_ Metric = (*EnergyDrift)(nil)
	_ Metric = (*StepSize)(nil)
)
