// Package dense implements a Hermite dense output for ODE integrators.
//
// An integrator builds an [IntegrationStep] from one or more (time, state,
// state derivative) samples and stages it with [HermiteOutput.Update]. A
// rejected candidate is dropped with [HermiteOutput.Rollback]; accepted ones
// are committed in bulk with [HermiteOutput.Consolidate]. Only committed
// steps are visible to queries, and [HermiteOutput.Evaluate] interpolates
// between samples with cubic Hermite polynomials, which match the sampled
// state and derivative at every sample.
//
// # Continuity
//
// Every staged step must start exactly where the previous one ended: same
// time, same state and same derivative, compared bit for bit. Steps must
// also span a positive amount of time and share one dimension.
//
// # Errors
//
// Errors fall in two categories, [ErrIllegalState] (the call does not fit
// the output's state, e.g. querying an empty output) and
// [ErrInvalidArgument] (the input itself is wrong). Both are matched with
// errors.Is, as are the specific causes such as [ErrTimeDiscontinuity].
// A failed call leaves the output unchanged.
//
// # Scalars
//
// Outputs are generic over [scalar.Scalar]. With [scalar.Dual] the
// interpolation weights are computed in dual arithmetic, so gradients
// carried by times and samples flow through Evaluate.
//
// # Example
//
//	out := dense.NewHermiteOutput[scalar.Real]()
//	step, _ := dense.NewIntegrationStep(t0, x0, dx0)
//	_ = step.Extend(t1, x1, dx1)
//	if err := out.Update(step); err != nil {
//	    return err
//	}
//	_ = out.Consolidate()
//	x, _ := out.Evaluate((t0 + t1) / 2)
package dense
