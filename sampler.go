package calcengine

import "math"

// GraphPoint is one sample of a single-variable expression. Undefined
// points keep their X so consumers can break the plotted line without
// losing grid alignment.
type GraphPoint struct {
	X       float64
	Y       float64
	Defined bool
}

// Sample evaluates expression at count evenly spaced x values across
// [xStart, xEnd], both endpoints included. A sample that fails to
// evaluate, or whose result is non-real or non-finite, comes back
// undefined; the sequence itself is never cut short.
func Sample(expression string, xStart, xEnd float64, count int) []GraphPoint {
	return SampleWindow(expression, xStart, xEnd, math.Inf(-1), math.Inf(1), count)
}

// SampleWindow is Sample with a vertical clip: results outside
// [yMin, yMax] are marked undefined so off-screen spikes do not reach
// the plot layer.
func SampleWindow(expression string, xStart, xEnd float64, yMin, yMax float64, count int) []GraphPoint {
	if count <= 0 {
		return nil
	}
	points := make([]GraphPoint, count)
	ex, parseErr := Parse(expression)
	for i := range points {
		x := sampleX(xStart, xEnd, i, count)
		points[i] = GraphPoint{X: x}
		if parseErr != nil {
			continue
		}
		v, err := ex.eval(newEnv(map[string]float64{"x": x}))
		if err != nil || v.Kind() != KindReal {
			continue
		}
		y := v.Float64()
		if math.IsNaN(y) || math.IsInf(y, 0) || y < yMin || y > yMax {
			continue
		}
		points[i].Y = y
		points[i].Defined = true
	}
	return points
}

func sampleX(xStart, xEnd float64, i, count int) float64 {
	if count == 1 {
		return xStart
	}
	return xStart + float64(i)*(xEnd-xStart)/float64(count-1)
}

// CondOp selects the domain condition of a piecewise segment.
type CondOp int

const (
	CondLess CondOp = iota
	CondLessEq
	CondGreater
	CondGreaterEq
	CondEqual
	CondBetween
)

// PiecewiseSegment pairs an expression with the x-domain condition under
// which it applies. A uses the single bound for the comparison ops and
// the lower bound for CondBetween; B is the upper bound for CondBetween.
type PiecewiseSegment struct {
	Expr  string
	Op    CondOp
	A     float64
	B     float64
	Color string
}

func (s PiecewiseSegment) contains(x float64) bool {
	switch s.Op {
	case CondLess:
		return x < s.A
	case CondLessEq:
		return x <= s.A
	case CondGreater:
		return x > s.A
	case CondGreaterEq:
		return x >= s.A
	case CondEqual:
		return x == s.A
	case CondBetween:
		return x >= s.A && x <= s.B
	default:
		return false
	}
}

// SamplePiecewise samples every segment over the same x grid. Each
// segment's points are undefined wherever its domain condition does not
// hold, so segments line up sample for sample.
func SamplePiecewise(segments []PiecewiseSegment, xStart, xEnd float64, count int) [][]GraphPoint {
	out := make([][]GraphPoint, len(segments))
	for i, seg := range segments {
		pts := Sample(seg.Expr, xStart, xEnd, count)
		for j := range pts {
			if !seg.contains(pts[j].X) {
				pts[j].Y = 0
				pts[j].Defined = false
			}
		}
		out[i] = pts
	}
	return out
}
