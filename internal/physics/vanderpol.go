package physics

import "github.com/san-kum/dynout/internal/dynamo"

// VanDerPol is the Van der Pol relaxation oscillator. State: [x, ẋ].
//
//	ẍ = μ(1 - x²)ẋ - x
//
// Mu sets the nonlinearity. Large values make the problem stiff, with long
// slow stretches and sharp jumps the step controller has to chase.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol { return &VanDerPol{Mu: 1} }

func (v *VanDerPol) StateDim() int { return 2 }

func (v *VanDerPol) Derive(s dynamo.State, _ float64) dynamo.State {
	x, xdot := s[0], s[1]
	return dynamo.State{xdot, v.Mu*(1-x*x)*xdot - x}
}

// DefaultState is at rest with amplitude 2, which is close to the limit
// cycle for small Mu, so the run shows the cycle rather than the transient.
func (v *VanDerPol) DefaultState() dynamo.State { return dynamo.State{2, 0} }

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam("vanderpol", name)
	}
	v.Mu = value
	return nil
}
