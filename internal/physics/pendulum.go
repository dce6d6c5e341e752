package physics

import (
	"math"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Pendulum is a damped rigid pendulum. State: [θ, ω].
//
//	mL²ω̇ = -bω - mgL sin θ
//
// Energy decays at a rate set by Damping. Set it to zero to use the
// pendulum as a conservation check.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamo.State, _ float64) dynamo.State {
	theta, omega := x[0], x[1]
	inertia := p.Mass * p.Length * p.Length
	torque := -p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)
	return dynamo.State{omega, torque / inertia}
}

// DefaultState releases the bob from rest at 0.5 rad. That is large enough
// for the sine term to matter and small enough to stay far from the top.
func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{0.5, 0} }

// Energy is kinetic plus potential, with the potential zero at the bottom.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	v := p.Length * x[1]
	kinetic := 0.5 * p.Mass * v * v
	potential := p.Mass * p.Gravity * p.Length * (1 - math.Cos(x[0]))
	return kinetic + potential
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam("pendulum", name)
	}
	return nil
}
