package physics

import "github.com/san-kum/dynout/internal/dynamo"

// Lorenz is the Lorenz convection model. State: [x, y, z].
//
//	dx/dt = σ(y - x)
//	dy/dt = x(ρ - z) - y
//	dz/dt = xy - βz
//
// The defaults are Lorenz's chaotic parameters, where neighbouring
// trajectories separate quickly and steps stay short under adaptive control.
type Lorenz struct {
	Sigma, Rho, Beta float64
}

func NewLorenz() *Lorenz { return &Lorenz{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0} }

func (l *Lorenz) StateDim() int { return 3 }

func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		l.Sigma * (y - x),
		x*(l.Rho-z) - y,
		x*y - l.Beta*z,
	}
}

// DefaultState starts off the origin, which is an equilibrium, so the
// trajectory is drawn onto the attractor within a few time units.
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1, 1, 1} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta}
}

func (l *Lorenz) SetParam(name string, value float64) error {
	switch name {
	case "sigma":
		l.Sigma = value
	case "rho":
		l.Rho = value
	case "beta":
		l.Beta = value
	default:
		return unknownParam("lorenz", name)
	}
	return nil
}
