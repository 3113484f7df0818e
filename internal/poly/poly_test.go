package poly

import (
	"math"
	"testing"
)

func TestEvalQuadratic(t *testing.T) {
	p := Polynomial{0, -0.5, 1}

	// 0 + 2*(-0.5) + 2^2 = 3
	if got := Eval(2, p); got != 3.0 {
		t.Errorf("expected 3.0, got %f", got)
	}
	if got := Deriv(2, p); got != 3.5 {
		t.Errorf("expected 3.5, got %f", got)
	}
}

func TestEvalEmpty(t *testing.T) {
	for _, x := range []float64{-3, 0, 0.25, 7} {
		if got := Eval(x, Polynomial{}); got != 0 {
			t.Errorf("x=%f: expected 0, got %f", x, got)
		}
		if got := Deriv(x, nil); got != 0 {
			t.Errorf("x=%f: expected derivative 0, got %f", x, got)
		}
	}
}

func TestEvalHandComputed(t *testing.T) {
	// 1 + 4x - 2x^2 + x^3 at x = 3: 1 + 12 - 18 + 27 = 22
	// 4 - 4x + 3x^2 at x = 3: 4 - 12 + 27 = 19
	p := Polynomial{1, 4, -2, 1}

	tests := []struct {
		name     string
		fn       func(float64, Polynomial) float64
		x        float64
		expected float64
	}{
		{"value at 3", Eval, 3, 22},
		{"slope at 3", Deriv, 3, 19},
		{"value at 0", Eval, 0, 1},
		{"slope at 0", Deriv, 0, 4},
		{"value at -1", Eval, -1, -6},
		{"slope at -1", Deriv, -1, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.x, p)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestDerivConstant(t *testing.T) {
	if got := Deriv(5, Polynomial{42}); got != 0 {
		t.Errorf("constant polynomial should have zero slope, got %f", got)
	}
}

func TestEvalDoesNotMutate(t *testing.T) {
	p := Polynomial{1, 2, 3}
	orig := p.Clone()

	Eval(1.5, p)
	Deriv(1.5, p)
	p.Derivative()

	for i := range p {
		if p[i] != orig[i] {
			t.Fatalf("coefficient %d changed: %f -> %f", i, orig[i], p[i])
		}
	}
}

func TestDerivativeMatchesDeriv(t *testing.T) {
	p := Polynomial{3, -1, 0.5, 2, -0.25}
	d := p.Derivative()

	if len(d) != 4 {
		t.Fatalf("expected 4 coefficients, got %d", len(d))
	}
	for _, x := range []float64{-2, -0.3, 0, 1.7} {
		if math.Abs(Eval(x, d)-Deriv(x, p)) > 1e-12 {
			t.Errorf("x=%f: derivative polynomial disagrees with Deriv", x)
		}
	}
}

func TestDegree(t *testing.T) {
	tests := []struct {
		p        Polynomial
		expected int
	}{
		{Polynomial{}, -1},
		{Polynomial{0, 0}, -1},
		{Polynomial{5}, 0},
		{Polynomial{0, -0.5, 1}, 2},
		{Polynomial{1, 2, 0, 0}, 1},
	}

	for _, tt := range tests {
		if got := tt.p.Degree(); got != tt.expected {
			t.Errorf("%v: expected degree %d, got %d", tt.p, tt.expected, got)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		p        Polynomial
		expected string
	}{
		{Polynomial{}, "0"},
		{Polynomial{0, -0.5, 1}, "x^2 - 0.5x"},
		{Polynomial{-2, 1}, "x - 2"},
		{Polynomial{1, 4, -2, 1}, "x^3 - 2x^2 + 4x + 1"},
		{Polynomial{0, 0, -1}, "-x^2"},
	}

	for _, tt := range tests {
		if got := tt.p.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Polynomial
	}{
		{"0,-0.5,1", Polynomial{0, -0.5, 1}},
		{"[0, -.5, 1]", Polynomial{0, -0.5, 1}},
		{"-2 1", Polynomial{-2, 1}},
		{"", Polynomial{}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if len(got) != len(tt.expected) {
			t.Fatalf("%q: expected %d coefficients, got %d", tt.in, len(tt.expected), len(got))
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("%q: coefficient %d: expected %f, got %f", tt.in, i, tt.expected[i], got[i])
			}
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("1, two, 3"); err == nil {
		t.Error("expected error for non-numeric coefficient")
	}
}

func TestParseArgs(t *testing.T) {
	p, err := ParseArgs([]string{"1", "4,-2", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Degree() != 3 || p[2] != -2 {
		t.Errorf("unexpected polynomial %v", p)
	}
}
