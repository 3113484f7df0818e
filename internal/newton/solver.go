package newton

import (
	"context"
	"math/rand"
)

type Solver struct {
	seed      int64
	rng       *rand.Rand
	record    bool
	observers []Observer
}

// New returns a Solver whose starting points come from a generator seeded
// with seed.
func New(seed int64) *Solver {
	return &Solver{
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Record makes Solve keep every step in Result.Steps.
func (s *Solver) Record(on bool) { s.record = on }

func (s *Solver) Seed() int64 { return s.seed }

// Solve draws x from [0,1) and applies exactly iters Newton updates to f.
func (s *Solver) Solve(ctx context.Context, iters int, f Function) (*Result, error) {
	if iters < 0 {
		return nil, ErrNegativeIterations
	}
	x0 := s.rng.Float64()
	res, err := s.run(ctx, iters, f, x0)
	if res != nil {
		res.Seed = s.seed
	}
	return res, err
}

// SolveFrom is Solve with a caller-chosen starting point.
func (s *Solver) SolveFrom(ctx context.Context, iters int, f Function, x0 float64) (*Result, error) {
	if iters < 0 {
		return nil, ErrNegativeIterations
	}
	res, err := s.run(ctx, iters, f, x0)
	if res != nil {
		res.Seed = s.seed
	}
	return res, err
}

func (s *Solver) run(ctx context.Context, iters int, f Function, x0 float64) (*Result, error) {
	result := &Result{Initial: x0}
	if s.record {
		result.Steps = make([]Step, 0, iters)
	}

	x := x0
	for i := 0; i < iters; i++ {
		select {
		case <-ctx.Done():
			result.X, result.FX = x, f.Value(x)
			return result, ctx.Err()
		default:
		}

		fx := f.Value(x)
		dfx := f.Slope(x)
		if dfx == 0 {
			result.X, result.FX = x, fx
			return result, &IterationError{Step: i, X: x, Wrapped: ErrZeroDerivative}
		}

		next := x - fx/dfx
		step := Step{Index: i, X: x, FX: fx, DFX: dfx, Next: next}
		for _, o := range s.observers {
			o.OnStep(step)
		}
		if s.record {
			result.Steps = append(result.Steps, step)
		}

		x = next
		result.Iterations++
	}

	result.X = x
	result.FX = f.Value(x)
	return result, nil
}

// Iterate runs iters updates on f from a start drawn from the process-wide
// generator and returns the final (x, f(x)) pair.
func Iterate(iters int, f Function) (float64, float64, error) {
	if iters < 0 {
		return 0, 0, ErrNegativeIterations
	}
	s := &Solver{}
	res, err := s.run(context.Background(), iters, f, rand.Float64())
	if res == nil {
		return 0, 0, err
	}
	return res.X, res.FX, err
}
