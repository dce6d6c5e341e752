package sim

import (
	"github.com/google/uuid"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Result of a run. Output holds every consolidated step; it is never nil
// once Run has started integrating, even when Run also returns an error.
type Result struct {
	ID          uuid.UUID
	Output      *dynamo.Output
	Accepted    int
	Rejected    int
	EnergyDrift float64
}

// Steps returns the number of consolidated steps.
func (r *Result) Steps() int {
	return r.Output.StepCount()
}

// ObserverFunc adapts a function to dynamo.Observer.
type ObserverFunc func(step *dynamo.Step)

func (f ObserverFunc) OnStep(step *dynamo.Step) { f(step) }
