// Package poly provides evaluation primitives for real polynomials.
//
// A [Polynomial] is stored in ascending degree order: index 0 is the
// constant term and index i is the coefficient of x^i.
//
//   - [Eval]: value of the polynomial at a point
//   - [Deriv]: value of the first derivative at a point
//   - [Parse]: read coefficients from a command-line string
//
// # Example
//
//	p := poly.Polynomial{0, -0.5, 1} // x^2 - 0.5x
//	poly.Eval(2, p)  // 2
//	poly.Deriv(2, p) // 3.5
package poly
