package viz

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/term"

	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
)

const (
	defaultWidth = 80
	maxWidth     = 120
	plotHeight   = 10

	// residualFloor stands in for log10(0) once f(x) is exactly zero.
	residualFloor = -17.0
)

// TerminalWidth returns a plot width that fits stdout, or 80 when stdout is
// not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 20 {
		return defaultWidth
	}
	return min(w-12, maxWidth)
}

// Iterates returns x_0 .. x_n from a trace.
func Iterates(steps []newton.Step) []float64 {
	if len(steps) == 0 {
		return nil
	}
	xs := make([]float64, 0, len(steps)+1)
	for _, s := range steps {
		xs = append(xs, s.X)
	}
	return append(xs, steps[len(steps)-1].Next)
}

// LogResiduals returns log10|f(x_i)| for every step.
func LogResiduals(steps []newton.Step) []float64 {
	out := make([]float64, len(steps))
	for i, s := range steps {
		r := math.Abs(s.FX)
		if r == 0 {
			out[i] = residualFloor
			continue
		}
		out[i] = math.Max(math.Log10(r), residualFloor)
	}
	return out
}

func IteratePlot(steps []newton.Step, width int) string {
	data := Iterates(steps)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(width),
		asciigraph.Caption("x per iteration"),
	)
}

func ResidualPlot(steps []newton.Step, width int) string {
	data := LogResiduals(steps)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(width),
		asciigraph.Caption("log10 |f(x)| per iteration"),
	)
}

// Summary renders the outcome of a solve as a styled panel.
func Summary(title string, p poly.Polynomial, res *newton.Result) string {
	var s strings.Builder
	s.WriteString(Title.Render(title) + "\n")
	if p != nil {
		s.WriteString(line("polynomial", p.String()))
	}
	s.WriteString(line("seed", fmt.Sprintf("%d", res.Seed)))
	s.WriteString(line("x0", fmt.Sprintf("%.12g", res.Initial)))
	s.WriteString(line("iterations", fmt.Sprintf("%d", res.Iterations)))
	s.WriteString(line("x", fmt.Sprintf("%.15g", res.X)))
	s.WriteString(line("f(x)", fmt.Sprintf("%.6e", res.FX)))
	if len(res.Steps) > 0 {
		s.WriteString(MetricLabel.Render("residual") + Sparkline(LogResiduals(res.Steps), 40))
	}
	return Panel.Render(strings.TrimRight(s.String(), "\n"))
}

func line(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}
