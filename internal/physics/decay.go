package physics

import (
	"math"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Decay is dx/dt = -λx, with solution x(t) = x0·exp(-λt).
type Decay struct {
	Rate float64
}

func NewDecay() *Decay { return &Decay{Rate: 1.0} }

func (d *Decay) StateDim() int { return 1 }

func (d *Decay) Derive(x dynamo.State, _ float64) dynamo.State {
	return dynamo.State{-d.Rate * x[0]}
}

func (d *Decay) DefaultState() dynamo.State { return dynamo.State{1.0} }

// Exact returns the closed-form solution at t from x0 at time zero.
func (d *Decay) Exact(x0 dynamo.State, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(-d.Rate*t)}
}

func (d *Decay) GetParams() map[string]float64 {
	return map[string]float64{"rate": d.Rate}
}

func (d *Decay) SetParam(name string, value float64) error {
	if name != "rate" {
		return unknownParam("decay", name)
	}
	d.Rate = value
	return nil
}
