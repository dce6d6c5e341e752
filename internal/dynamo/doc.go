// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Stepper]: produces one candidate integration step for a dense output
//   - [AdaptiveStepper]: a Stepper that also estimates its local error
//   - [Config]: integration run settings
//
// Steppers hand back [dense.IntegrationStep] values whose first sample is
// exactly the (t, x, dx) they were given, so consecutive steps satisfy the
// dense output's continuity checks without any tolerance.
//
// # Example
//
//	sys := physics.NewPendulum()
//	stepper := integrators.NewRK4()
//	s := sim.New(sys, stepper)
//	result, _ := s.Run(ctx, sys.DefaultState(), dynamo.DefaultConfig())
//	x, _ := result.Output.Evaluate(1.25)
package dynamo
