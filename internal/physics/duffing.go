package physics

import (
	"math"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Duffing is a damped, periodically forced oscillator with a cubic
// restoring force. State: [x, ẋ, φ].
//
//	ẍ = -δẋ - αx - βx³ + γ cos φ
//	φ̇ = ω
//
// The forcing phase φ is a state component so Derive ignores t. With the
// defaults (α < 0) the potential has two wells at x = ±1 and the forced
// motion hops between them chaotically.
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{Alpha: -1, Beta: 1, Delta: 0.3, Gamma: 0.5, Omega: 1.2}
}

func (d *Duffing) StateDim() int { return 3 }

func (d *Duffing) Derive(s dynamo.State, _ float64) dynamo.State {
	x, v, phi := s[0], s[1], s[2]
	a := -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(phi)
	return dynamo.State{v, a, d.Omega}
}

// DefaultState rests at the bottom of the right-hand well with zero forcing
// phase, so all motion comes from the drive.
func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1, 0, 0} }

// Energy is the unforced mechanical energy. It is not conserved while the
// drive or damping is on.
func (d *Duffing) Energy(s dynamo.State) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{
		"alpha": d.Alpha,
		"beta":  d.Beta,
		"delta": d.Delta,
		"gamma": d.Gamma,
		"omega": d.Omega,
	}
}

func (d *Duffing) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		d.Alpha = value
	case "beta":
		d.Beta = value
	case "delta":
		d.Delta = value
	case "gamma":
		d.Gamma = value
	case "omega":
		d.Omega = value
	default:
		return unknownParam("duffing", name)
	}
	return nil
}
