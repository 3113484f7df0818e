package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/polyroot/internal/logger"
	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
)

const dbFile = "runs.db"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	seed         INTEGER NOT NULL,
	iterations   INTEGER NOT NULL,
	coefficients TEXT NOT NULL,
	initial      REAL NOT NULL,
	x            REAL NOT NULL,
	fx           REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx    INTEGER NOT NULL,
	x      REAL NOT NULL,
	fx     REAL NOT NULL,
	dfx    REAL NOT NULL,
	next   REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// SQLiteStore keeps every run in a single database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) dataDir/runs.db.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("opened sqlite store at %s", dbPath)
	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Save(ctx context.Context, name string, p poly.Polynomial, res *newton.Result) (string, error) {
	meta, err := newMetadata(name, p, res)
	if err != nil {
		return "", err
	}

	coeffs, err := json.Marshal(meta.Coefficients)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, created_at, seed, iterations, coefficients, initial, x, fx)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.ID, meta.Name, meta.Timestamp.Format(timeLayout), meta.Seed, meta.Iterations,
		string(coeffs), meta.Initial, meta.X, meta.FX)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steps (run_id, idx, x, fx, dfx, next) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing step insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range res.Steps {
		if _, err := stmt.ExecContext(ctx, meta.ID, st.Index, st.X, st.FX, st.DFX, st.Next); err != nil {
			return "", fmt.Errorf("saving step %d: %w", st.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	logger.Debug("saved run %s (%d steps)", meta.ID, len(res.Steps))
	return meta.ID, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		meta    RunMetadata
		created string
		coeffs  string
	)
	err := row.Scan(&meta.ID, &meta.Name, &created, &meta.Seed, &meta.Iterations,
		&coeffs, &meta.Initial, &meta.X, &meta.FX)
	if err != nil {
		return nil, err
	}

	meta.Timestamp, err = time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp for %s: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(coeffs), &meta.Coefficients); err != nil {
		return nil, fmt.Errorf("parsing coefficients for %s: %w", meta.ID, err)
	}
	return &meta, nil
}

const runColumns = `id, name, created_at, seed, iterations, coefficients, initial, x, fx`

func (s *SQLiteStore) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) Load(ctx context.Context, runID string) (*RunMetadata, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	meta, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *SQLiteStore) LoadTrace(ctx context.Context, runID string) ([]newton.Step, error) {
	if _, err := s.Load(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, x, fx, dfx, next FROM steps WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	steps := make([]newton.Step, 0)
	for rows.Next() {
		var st newton.Step
		if err := rows.Scan(&st.Index, &st.X, &st.FX, &st.DFX, &st.Next); err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating steps: %w", err)
	}
	return steps, nil
}
