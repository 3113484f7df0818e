// Package newton approximates real roots with a fixed number of
// Newton-Raphson updates.
//
// The package defines the iteration primitives:
//
//   - [Function]: a value f(x) and a slope f'(x)
//   - [Solver]: runs x <- x - f(x)/f'(x) from a random start in [0,1)
//   - [Observer]: receives every [Step] of a solve
//   - [Ensemble]: independent solves over consecutive seeds
//
// There is no convergence test. A solve performs exactly the requested
// number of updates unless the slope vanishes, which ends it with
// [ErrZeroDerivative].
//
// # Example
//
//	s := newton.New(42)
//	res, err := s.Solve(ctx, 100, poly.Polynomial{-2, 1})
//	fmt.Println(res.X, res.FX) // 2 0
//
// # Thread Safety
//
// A Solver owns its random source and is NOT thread-safe. [Iterate] uses the
// process-wide math/rand generator and may be called from any goroutine.
package newton
