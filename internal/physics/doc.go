// Package physics provides dynamical system models for simulation.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [Decay]: exponential decay with a closed-form solution
//   - [Pendulum]: damped simple pendulum
//   - [SpringMass]: damped harmonic oscillator
//   - [DoubleWell]: bistable potential
//   - [Duffing]: forced nonlinear oscillator
//   - [VanDerPol]: limit cycle oscillator
//   - [Lorenz], [Rossler]: chaotic attractors
//
// All models implement [dynamo.Configurable]; the mechanical ones also
// implement [dynamo.Hamiltonian]. Use [New] to build a model by name.
//
// # Energy Conservation
//
// For Hamiltonian systems, use [dynamo.Hamiltonian] to monitor energy drift:
//
//	sys, _ := physics.New("pendulum")
//	if h, ok := sys.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
