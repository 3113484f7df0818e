package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/polyroot/internal/logger"
	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"step", "x", "fx", "dfx", "next"}

type FileStore struct {
	baseDir string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(_ context.Context, name string, p poly.Polynomial, res *newton.Result) (string, error) {
	meta, err := newMetadata(name, p, res)
	if err != nil {
		return "", err
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := writeRun(runDir, meta, res.Steps); err != nil {
		return "", err
	}

	logger.Debug("saved run %s to %s (%d steps)", meta.ID, runDir, len(res.Steps))
	return meta.ID, nil
}

// writeRun creates runDir with its metadata and trace. A partially written
// run directory is removed on failure.
func writeRun(runDir string, meta RunMetadata, steps []newton.Step) (err error) {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	err = writeFile(filepath.Join(runDir, traceFile), func(w io.Writer) error {
		return WriteTraceCSV(w, steps)
	})
	if err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func (s *FileStore) List(_ context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			logger.Warn("skipping %s: %v", entry.Name(), err)
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) Load(_ context.Context, runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *FileStore) LoadTrace(_ context.Context, runID string) ([]newton.Step, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []newton.Step{}, nil
	}

	steps := make([]newton.Step, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(traceHeader) {
			continue
		}

		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+1, err)
		}

		vals := make([]float64, 4)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", traceFile, i+1, err)
			}
		}

		steps = append(steps, newton.Step{Index: idx, X: vals[0], FX: vals[1], DFX: vals[2], Next: vals[3]})
	}

	return steps, nil
}
