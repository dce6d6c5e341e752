// Package analysis locates events on a dense output.
//
// Events are found between consecutive samples of the integrator: each
// sample interval is split into a few sub-intervals and every sign change of
// x[dim] - level is refined on the interpolant, so event times are not tied
// to the step grid.
//
//   - [Crossings]: times and states where a dimension crosses a level
//   - [PoincareSection]: other dimensions sampled at those crossings
//   - [Period]: mean spacing of rising crossings through the mid level
package analysis
