package newton

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroDerivative indicates the slope vanished at an iterate.
	ErrZeroDerivative = errors.New("newton: division by zero (derivative is 0)")

	// ErrNegativeIterations indicates a negative iteration count.
	ErrNegativeIterations = errors.New("newton: iteration count must be non-negative")
)

// IterationError wraps an error with the step where it happened.
type IterationError struct {
	Step    int
	X       float64
	Wrapped error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("step %d (x=%g): %v", e.Step, e.X, e.Wrapped)
}

func (e *IterationError) Unwrap() error {
	return e.Wrapped
}
