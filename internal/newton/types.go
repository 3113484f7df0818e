package newton

// Function is anything with a value and a first derivative.
// poly.Polynomial satisfies it.
type Function interface {
	Value(x float64) float64
	Slope(x float64) float64
}

// Funcs adapts a pair of closures to Function.
type Funcs struct {
	F  func(x float64) float64
	DF func(x float64) float64
}

func (f Funcs) Value(x float64) float64 { return f.F(x) }
func (f Funcs) Slope(x float64) float64 { return f.DF(x) }

// Cubic is x^3 - 2x^2 + 4x + 1 with its derivative written out by hand.
func Cubic() Funcs {
	return Funcs{
		F:  func(x float64) float64 { return x*x*x - 2*x*x + 4*x + 1 },
		DF: func(x float64) float64 { return 3*x*x - 4*x + 4 },
	}
}

// Step records one update x -> Next.
type Step struct {
	Index int     `json:"step"`
	X     float64 `json:"x"`
	FX    float64 `json:"fx"`
	DFX   float64 `json:"dfx"`
	Next  float64 `json:"next"`
}

type Observer interface {
	OnStep(s Step)
}

// ObserverFunc lets a plain function act as an Observer.
type ObserverFunc func(s Step)

func (f ObserverFunc) OnStep(s Step) { f(s) }

// Trace is an Observer that keeps every step.
type Trace struct {
	Steps []Step
}

func (t *Trace) OnStep(s Step) { t.Steps = append(t.Steps, s) }

func (t *Trace) Reset() { t.Steps = t.Steps[:0] }

type Result struct {
	Seed       int64   `json:"seed"`
	Initial    float64 `json:"initial"`
	X          float64 `json:"x"`
	FX         float64 `json:"fx"`
	Iterations int     `json:"iterations"`
	Steps      []Step  `json:"steps,omitempty"`
}

// Residual is |f(x)| at the final iterate.
func (r *Result) Residual() float64 {
	if r.FX < 0 {
		return -r.FX
	}
	return r.FX
}
