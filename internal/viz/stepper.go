package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/polyroot/internal/newton"
)

const (
	tickRate     = time.Second / 4
	visibleSteps = 8
	stepperWidth = 50
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Stepper applies one Newton update per key press, or continuously while
// auto-stepping is on.
type Stepper struct {
	f        newton.Function
	label    string
	solver   *newton.Solver
	x0, x    float64
	steps    []newton.Step
	maxIters int
	auto     bool
	err      error
}

// NewStepper starts at x0. maxIters <= 0 means no limit.
func NewStepper(f newton.Function, label string, x0 float64, maxIters int) Stepper {
	return Stepper{
		f:        f,
		label:    label,
		solver:   newton.New(0),
		x0:       x0,
		x:        x0,
		steps:    make([]newton.Step, 0, max(maxIters, 0)),
		maxIters: maxIters,
	}
}

func (m Stepper) X() float64           { return m.x }
func (m Stepper) Steps() []newton.Step { return m.steps }
func (m Stepper) Err() error           { return m.err }
func (m Stepper) Auto() bool           { return m.auto }

func (m Stepper) Init() tea.Cmd {
	return nil
}

func (m Stepper) done() bool {
	return m.err != nil || (m.maxIters > 0 && len(m.steps) >= m.maxIters)
}

func (m Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "n", "right", "l":
			m.auto = false
			m.step()
		case "a":
			m.auto = !m.auto && !m.done()
			if m.auto {
				return m, tick()
			}
		case "r":
			m.reset()
		}
	case TickMsg:
		if !m.auto {
			return m, nil
		}
		m.step()
		if m.done() {
			m.auto = false
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *Stepper) step() {
	if m.done() {
		return
	}
	m.solver.Record(true)
	res, err := m.solver.SolveFrom(context.Background(), 1, m.f, m.x)
	if err != nil {
		m.err = err
		m.auto = false
		return
	}
	st := res.Steps[0]
	st.Index = len(m.steps)
	m.steps = append(m.steps, st)
	m.x = res.X
}

func (m *Stepper) reset() {
	m.x = m.x0
	m.steps = m.steps[:0]
	m.err = nil
	m.auto = false
}

func (m Stepper) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.label)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.maxIters > 0 && len(m.steps) >= m.maxIters:
		s.WriteString(StatusPaused.Render("DONE") + "\n\n")
	case m.auto:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	iters := fmt.Sprintf("%d", len(m.steps))
	if m.maxIters > 0 {
		iters = fmt.Sprintf("%d / %d", len(m.steps), m.maxIters)
	}
	s.WriteString(line("iteration", iters))
	s.WriteString(line("x", fmt.Sprintf("%.15g", m.x)))
	s.WriteString(line("f(x)", fmt.Sprintf("%.6e", m.f.Value(m.x))))
	s.WriteString(line("f'(x)", fmt.Sprintf("%.6e", m.f.Slope(m.x))))

	if m.err == nil {
		s.WriteString(graphStyle.Render(TangentPicture(m.f, m.x, stepperWidth/2, 6)))
		s.WriteString(Subtle.Render("f near x, with the tangent to its axis crossing") + "\n")
	}

	if xs := Iterates(m.steps); len(xs) > 1 {
		chart := asciigraph.Plot(xs, asciigraph.Height(6), asciigraph.Width(stepperWidth), asciigraph.Caption("x"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Subtle.Render(fmt.Sprintf("%-5s %-22s %-14s", "step", "x", "f(x)")) + "\n")
	start := max(len(m.steps)-visibleSteps, 0)
	for _, st := range m.steps[start:] {
		s.WriteString(fmt.Sprintf("%-5d %-22.15g %-14.6e\n", st.Index, st.X, st.FX))
	}

	s.WriteString("\n" + Separator(stepperWidth) + "\n")
	s.WriteString(KeyHint.Render("SP/N:Step  A:Auto  R:Restart  Q:Quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
