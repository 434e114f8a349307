package calcengine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Solve2x2 solves the system
//
//	a1 x + b1 y = c1
//	a2 x + b2 y = c2
//
// by Cramer's rule. A zero determinant means the system is singular or
// inconsistent and there is no unique solution to report.
func Solve2x2(a1, b1, c1, a2, b2, c2 float64) (x, y float64, err error) {
	d := a1*b2 - a2*b1
	if d == 0 {
		return 0, 0, fmt.Errorf("%w: no unique solution", ErrEval)
	}
	x = (c1*b2 - c2*b1) / d
	y = (a1*c2 - a2*c1) / d
	return x, y, nil
}

// linearEqPattern accepts exactly the documented shape: a coefficient on
// x, a signed coefficient on y, and a constant on the right. Bare "x" or
// "-y" terms count as coefficient 1 or -1.
var linearEqPattern = regexp.MustCompile(
	`^\s*([+-]?\s*(?:\d+(?:\.\d+)?)?)\s*\*?\s*x\s*([+-])\s*((?:\d+(?:\.\d+)?)?)\s*\*?\s*y\s*=\s*([+-]?\s*\d+(?:\.\d+)?)\s*$`)

// ParseLinearEquation reads one equation of the form "ax + by = c" and
// returns its three coefficients. Any other shape is a format error.
func ParseLinearEquation(eq string) (a, b, c float64, err error) {
	m := linearEqPattern.FindStringSubmatch(eq)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: equation must have the form \"ax + by = c\", got %q", ErrParse, eq)
	}
	a = parseCoefficient(m[1])
	b = parseCoefficient(m[2] + m[3])
	c = parseCoefficient(m[4])
	return a, b, c, nil
}

func parseCoefficient(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "", "+":
		return 1
	case "-":
		return -1
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Solve2x2Text parses two "ax + by = c" equations and solves them.
func Solve2x2Text(eq1, eq2 string) (x, y float64, err error) {
	a1, b1, c1, err := ParseLinearEquation(eq1)
	if err != nil {
		return 0, 0, err
	}
	a2, b2, c2, err := ParseLinearEquation(eq2)
	if err != nil {
		return 0, 0, err
	}
	return Solve2x2(a1, b1, c1, a2, b2, c2)
}

// QuadCase tags the three discriminant outcomes of a real quadratic.
type QuadCase string

const (
	QuadTwoReal     QuadCase = "two-real"
	QuadRepeated    QuadCase = "repeated"
	QuadComplexPair QuadCase = "complex-pair"
)

// QuadraticRoots is the classified solution of ax^2 + bx + c = 0. For
// the real cases Root1 <= Root2 (equal when repeated); for the complex
// case the roots are RealPart ± ImagPart·i and ImagPart > 0.
type QuadraticRoots struct {
	Discriminant float64
	Case         QuadCase
	Root1        float64
	Root2        float64
	RealPart     float64
	ImagPart     float64
}

// ClassifyQuadratic solves ax^2 + bx + c = 0 over the complex numbers
// and reports which of the three cases the discriminant lands in. A
// zero leading coefficient is rejected rather than degraded to a linear
// solve.
func ClassifyQuadratic(a, b, c float64) (QuadraticRoots, error) {
	if a == 0 {
		return QuadraticRoots{}, fmt.Errorf("%w: leading coefficient must be nonzero", ErrEval)
	}
	disc := b*b - 4*a*c
	out := QuadraticRoots{Discriminant: disc}
	switch {
	case disc > 0:
		out.Case = QuadTwoReal
		r1 := (-b - math.Sqrt(disc)) / (2 * a)
		r2 := (-b + math.Sqrt(disc)) / (2 * a)
		out.Root1 = math.Min(r1, r2)
		out.Root2 = math.Max(r1, r2)
	case disc == 0:
		out.Case = QuadRepeated
		out.Root1 = -b / (2 * a)
		out.Root2 = out.Root1
	default:
		out.Case = QuadComplexPair
		out.RealPart = -b / (2 * a)
		out.ImagPart = math.Abs(math.Sqrt(-disc) / (2 * a))
	}
	return out, nil
}

// String renders the classification the way the evaluator formats
// scalars, so front ends can print it directly.
func (q QuadraticRoots) String() string {
	switch q.Case {
	case QuadTwoReal:
		return fmt.Sprintf("x = %s, x = %s", formatFloat(q.Root1), formatFloat(q.Root2))
	case QuadRepeated:
		return fmt.Sprintf("x = %s (repeated)", formatFloat(q.Root1))
	default:
		return fmt.Sprintf("x = %s ± %si", formatFloat(q.RealPart), formatFloat(q.ImagPart))
	}
}
