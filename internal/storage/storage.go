// Package storage persists solver runs.
//
// Two backends implement [Store]:
//
//   - [FileStore]: one directory per run holding metadata.json and trace.csv
//   - [SQLiteStore]: a single runs.db using modernc.org/sqlite (no CGO)
//
// Runs are identified by "<name>_<short uuid>".
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrNonFinite   = errors.New("storage: result contains NaN or Inf")
)

type RunMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Timestamp    time.Time `json:"timestamp"`
	Seed         int64     `json:"seed"`
	Iterations   int       `json:"iterations"`
	Coefficients []float64 `json:"coefficients"`
	Initial      float64   `json:"initial"`
	X            float64   `json:"x"`
	FX           float64   `json:"fx"`
}

func (m *RunMetadata) Polynomial() poly.Polynomial {
	return poly.Polynomial(m.Coefficients)
}

type Store interface {
	Save(ctx context.Context, name string, p poly.Polynomial, res *newton.Result) (string, error)
	List(ctx context.Context) ([]RunMetadata, error)
	Load(ctx context.Context, runID string) (*RunMetadata, error)
	LoadTrace(ctx context.Context, runID string) ([]newton.Step, error)
	Close() error
}

// Open returns the store for backend ("file" or "sqlite") rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", "file":
		s := NewFileStore(dir)
		if err := s.Init(); err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

func newRunID(name string) string {
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
}

func newMetadata(name string, p poly.Polynomial, res *newton.Result) (RunMetadata, error) {
	if err := checkFinite(res); err != nil {
		return RunMetadata{}, err
	}
	return RunMetadata{
		ID:           newRunID(name),
		Name:         name,
		Timestamp:    time.Now().UTC(),
		Seed:         res.Seed,
		Iterations:   res.Iterations,
		Coefficients: p.Clone(),
		Initial:      res.Initial,
		X:            res.X,
		FX:           res.FX,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFinite(res *newton.Result) error {
	if !finite(res.Initial) || !finite(res.X) || !finite(res.FX) {
		return ErrNonFinite
	}
	for _, s := range res.Steps {
		if !finite(s.X) || !finite(s.FX) || !finite(s.DFX) || !finite(s.Next) {
			return fmt.Errorf("step %d: %w", s.Index, ErrNonFinite)
		}
	}
	return nil
}
