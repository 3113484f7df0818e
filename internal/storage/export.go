package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/polyroot/internal/newton"
)

type ExportData struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Polynomial   string        `json:"polynomial"`
	Coefficients []float64     `json:"coefficients"`
	Seed         int64         `json:"seed"`
	Iterations   int           `json:"iterations"`
	Initial      float64       `json:"initial"`
	X            float64       `json:"x"`
	FX           float64       `json:"fx"`
	Steps        []newton.Step `json:"steps"`
}

// ExportJSON writes a run and its trace as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, steps []newton.Step) error {
	data := ExportData{
		ID:           meta.ID,
		Name:         meta.Name,
		Polynomial:   meta.Polynomial().String(),
		Coefficients: meta.Coefficients,
		Seed:         meta.Seed,
		Iterations:   meta.Iterations,
		Initial:      meta.Initial,
		X:            meta.X,
		FX:           meta.FX,
		Steps:        steps,
	}
	if data.Steps == nil {
		data.Steps = []newton.Step{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTraceCSV writes the header followed by one row per step.
func WriteTraceCSV(w io.Writer, steps []newton.Step) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(traceHeader); err != nil {
		return err
	}

	for _, s := range steps {
		row := []string{
			strconv.Itoa(s.Index),
			formatFloat(s.X),
			formatFloat(s.FX),
			formatFloat(s.DFX),
			formatFloat(s.Next),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
