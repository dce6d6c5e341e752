package physics

import "github.com/san-kum/dynout/internal/dynamo"

// Rossler is the Rössler attractor. State: [x, y, z].
//
//	dx/dt = -y - z
//	dy/dt = x + ay
//	dz/dt = b + z(x - c)
//
// Most of each orbit is a slow spiral in the xy plane broken by short z
// spikes, which makes it a good check that dense output tracks fast bursts
// between coarse steps.
type Rossler struct {
	A, B, C float64
}

func NewRossler() *Rossler { return &Rossler{A: 0.2, B: 0.2, C: 5.7} }

func (r *Rossler) StateDim() int { return 3 }

func (r *Rossler) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		-y - z,
		x + r.A*y,
		r.B + z*(x-r.C),
	}
}

// DefaultState sits near the spiral's plane, so the first spike shows up
// within the first couple of revolutions.
func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{1, 1, 1} }

func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.A, "b": r.B, "c": r.C}
}

func (r *Rossler) SetParam(name string, value float64) error {
	switch name {
	case "a":
		r.A = value
	case "b":
		r.B = value
	case "c":
		r.C = value
	default:
		return unknownParam("rossler", name)
	}
	return nil
}
