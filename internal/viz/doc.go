// Package viz renders resampled trajectories in the terminal.
//
//   - [Plot] and [PlotOverlay]: asciigraph line charts of single dimensions
//   - [PhasePortrait]: one dimension against another on a Braille [Canvas]
//   - lipgloss styles and themes shared with the tui package
package viz
