// Package viz renders solver output in the terminal.
//
//   - [IteratePlot], [ResidualPlot]: asciigraph charts of a trace
//   - [Summary]: styled (x, f(x)) report
//   - [Stepper]: Bubble Tea program that applies one update per key press
//
// # Key Bindings
//
//	Space/N - Apply one Newton update
//	A       - Toggle auto-stepping
//	R       - Restart from the initial guess
//	Q       - Quit
package viz
