package poly

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Polynomial []float64

// Eval returns the sum of p[d] * x^d over every degree d.
// An empty polynomial evaluates to 0.
func Eval(x float64, p Polynomial) float64 {
	out := 0.0
	for degree, coeff := range p {
		out += math.Pow(x, float64(degree)) * coeff
	}
	return out
}

// Deriv returns the first derivative of p at x using the power rule.
// The constant term contributes nothing.
func Deriv(x float64, p Polynomial) float64 {
	out := 0.0
	for degree, coeff := range p {
		if degree == 0 {
			continue
		}
		out += float64(degree) * math.Pow(x, float64(degree-1)) * coeff
	}
	return out
}

func (p Polynomial) Value(x float64) float64 { return Eval(x, p) }
func (p Polynomial) Slope(x float64) float64 { return Deriv(x, p) }

func (p Polynomial) Clone() Polynomial {
	c := make(Polynomial, len(p))
	copy(c, p)
	return c
}

// Degree returns the index of the highest non-zero coefficient, or -1 for
// the zero polynomial.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// Derivative returns the coefficients of p'.
func (p Polynomial) Derivative() Polynomial {
	if len(p) < 2 {
		return Polynomial{}
	}
	d := make(Polynomial, len(p)-1)
	for i := 1; i < len(p); i++ {
		d[i-1] = float64(i) * p[i]
	}
	return d
}

func (p Polynomial) String() string {
	var b strings.Builder
	for d := len(p) - 1; d >= 0; d-- {
		c := p[d]
		if c == 0 {
			continue
		}
		if b.Len() == 0 {
			if c < 0 {
				b.WriteString("-")
			}
		} else if c < 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		mag := math.Abs(c)
		if mag != 1 || d == 0 {
			b.WriteString(strconv.FormatFloat(mag, 'g', -1, 64))
		}
		switch {
		case d == 1:
			b.WriteString("x")
		case d > 1:
			b.WriteString("x^" + strconv.Itoa(d))
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// Parse reads coefficients separated by commas or whitespace, constant term
// first. Surrounding brackets are ignored, so "[0, -0.5, 1]" is accepted.
func Parse(s string) (Polynomial, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	p := make(Polynomial, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coefficient %q: %w", f, err)
		}
		p = append(p, v)
	}
	return p, nil
}

// ParseArgs joins command-line arguments and parses them as one coefficient
// list.
func ParseArgs(args []string) (Polynomial, error) {
	return Parse(strings.Join(args, " "))
}
