package newton_test

import (
	"context"
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
)

var _ = Describe("Solver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with zero iterations", func() {
		It("returns the unmodified seed and f(seed)", func() {
			p := poly.Polynomial{0, -0.5, 1}
			expected := rand.New(rand.NewSource(7)).Float64()

			res, err := newton.New(7).Solve(ctx, 0, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Initial).To(Equal(expected))
			Expect(res.X).To(Equal(expected))
			Expect(res.FX).To(Equal(poly.Eval(expected, p)))
			Expect(res.Iterations).To(BeZero())
		})

		It("starts inside [0,1)", func() {
			for seed := int64(0); seed < 50; seed++ {
				res, err := newton.New(seed).Solve(ctx, 0, poly.Polynomial{1})
				Expect(err).NotTo(HaveOccurred())
				Expect(res.X).To(BeNumerically(">=", 0))
				Expect(res.X).To(BeNumerically("<", 1))
			}
		})
	})

	Context("with a linear polynomial", func() {
		It("converges to the root", func() {
			res, err := newton.New(1).Solve(ctx, 20, poly.Polynomial{-2, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.X).To(BeNumerically("~", 2, 1e-12))
			Expect(res.FX).To(BeNumerically("~", 0, 1e-12))
			Expect(res.Iterations).To(Equal(20))
		})
	})

	Context("with the quadratic x^2 - 0.5x", func() {
		It("lands on one of its roots", func() {
			res, err := newton.New(42).Solve(ctx, 100, poly.Polynomial{0, -0.5, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.X).To(Or(
				BeNumerically("~", 0, 1e-9),
				BeNumerically("~", 0.5, 1e-9),
			))
			Expect(res.Residual()).To(BeNumerically("<", 1e-9))
		})

		It("fails at the vertex where the slope vanishes", func() {
			_, err := newton.New(0).SolveFrom(ctx, 5, poly.Polynomial{0, -0.5, 1}, 0.25)
			Expect(errors.Is(err, newton.ErrZeroDerivative)).To(BeTrue())
		})
	})

	Context("with the hard-coded cubic", func() {
		It("finds the single real root", func() {
			res, err := newton.New(3).Solve(ctx, 50, newton.Cubic())
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(res.FX)).To(BeNumerically("<", 1e-9))
			Expect(res.X).To(BeNumerically("~", -0.2222, 1e-3))
		})

		It("agrees with the coefficient form", func() {
			c := newton.Cubic()
			p := poly.Polynomial{1, 4, -2, 1}
			for _, x := range []float64{-1.5, 0, 0.3, 2} {
				Expect(c.Value(x)).To(BeNumerically("~", p.Value(x), 1e-12))
				Expect(c.Slope(x)).To(BeNumerically("~", p.Slope(x), 1e-12))
			}
		})
	})

	Context("when the derivative is zero", func() {
		It("reports the failing step", func() {
			res, err := newton.New(9).Solve(ctx, 10, poly.Polynomial{3})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, newton.ErrZeroDerivative)).To(BeTrue())

			var iterErr *newton.IterationError
			Expect(errors.As(err, &iterErr)).To(BeTrue())
			Expect(iterErr.Step).To(Equal(0))
			Expect(iterErr.X).To(Equal(res.Initial))
			Expect(res.Iterations).To(BeZero())
		})
	})

	It("rejects a negative iteration count", func() {
		_, err := newton.New(1).Solve(ctx, -1, poly.Polynomial{-2, 1})
		Expect(err).To(MatchError(newton.ErrNegativeIterations))

		_, _, err = newton.Iterate(-3, poly.Polynomial{-2, 1})
		Expect(err).To(MatchError(newton.ErrNegativeIterations))
	})

	It("is reproducible for a fixed seed", func() {
		p := poly.Polynomial{-1, 0, 0, 1}
		a, err := newton.New(123).Solve(ctx, 30, p)
		Expect(err).NotTo(HaveOccurred())
		b, err := newton.New(123).Solve(ctx, 30, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Initial).To(Equal(b.Initial))
		Expect(a.X).To(Equal(b.X))
	})

	It("notifies observers and records steps", func() {
		s := newton.New(5)
		s.Record(true)

		calls := 0
		s.AddObserver(newton.ObserverFunc(func(st newton.Step) { calls++ }))
		trace := &newton.Trace{}
		s.AddObserver(trace)

		res, err := s.Solve(ctx, 8, poly.Polynomial{-2, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(8))
		Expect(trace.Steps).To(HaveLen(8))
		Expect(res.Steps).To(HaveLen(8))
		Expect(res.Steps[0].X).To(Equal(res.Initial))
		for i := 1; i < len(res.Steps); i++ {
			Expect(res.Steps[i].X).To(Equal(res.Steps[i-1].Next))
			Expect(res.Steps[i].Index).To(Equal(i))
		}
	})

	It("stops when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := newton.New(1).Solve(cctx, 10, poly.Polynomial{-2, 1})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Iterations).To(BeZero())
	})
})

var _ = Describe("Iterate", func() {
	It("returns the final pair for a linear polynomial", func() {
		x, fx, err := newton.Iterate(10, poly.Polynomial{-2, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(x).To(BeNumerically("~", 2, 1e-12))
		Expect(fx).To(BeNumerically("~", 0, 1e-12))
	})

	It("returns a start in [0,1) and its value with zero iterations", func() {
		p := poly.Polynomial{0, -0.5, 1}
		x, fx, err := newton.Iterate(0, p)
		Expect(err).NotTo(HaveOccurred())
		Expect(x).To(BeNumerically(">=", 0))
		Expect(x).To(BeNumerically("<", 1))
		Expect(fx).To(Equal(poly.Eval(x, p)))
	})

	It("solves the hard-coded cubic in ten updates", func() {
		x, fx, err := newton.Iterate(10, newton.Cubic())
		Expect(err).NotTo(HaveOccurred())
		Expect(x).To(BeNumerically("~", -0.2225, 1e-3))
		Expect(math.Abs(fx)).To(BeNumerically("<", 1e-9))
	})

	It("propagates a zero derivative", func() {
		_, _, err := newton.Iterate(1, poly.Polynomial{})
		Expect(errors.Is(err, newton.ErrZeroDerivative)).To(BeTrue())
	})
})

var _ = Describe("Ensemble", func() {
	It("returns one result per seed in order", func() {
		e := newton.NewEnsemble(8, 100)
		results, errs, err := e.Run(context.Background(), 20, poly.Polynomial{-2, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(8))
		Expect(errs).To(HaveLen(8))

		for i, r := range results {
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(r.Seed).To(Equal(int64(100 + i)))
			Expect(r.Initial).To(Equal(rand.New(rand.NewSource(int64(100 + i))).Float64()))
			Expect(r.X).To(BeNumerically("~", 2, 1e-12))
		}
	})

	It("keeps per-run failures on their slot", func() {
		e := newton.NewEnsemble(3, 0)
		e.SetLimit(0)
		results, errs, err := e.Run(context.Background(), 4, poly.Polynomial{7})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, runErr := range errs {
			Expect(errors.Is(runErr, newton.ErrZeroDerivative)).To(BeTrue())
		}
	})

	It("drops all results when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, errs, err := newton.NewEnsemble(4, 0).Run(ctx, 10, poly.Polynomial{-2, 1})
		Expect(err).To(MatchError(context.Canceled))
		Expect(results).To(BeNil())
		Expect(errs).To(BeNil())
	})

	It("rejects a negative iteration count", func() {
		_, _, err := newton.NewEnsemble(2, 0).Run(context.Background(), -1, poly.Polynomial{-2, 1})
		Expect(err).To(MatchError(newton.ErrNegativeIterations))
	})
})
