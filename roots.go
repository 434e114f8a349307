package calcengine

import (
	"fmt"
	"math"
	"sort"
)

// Newton-Raphson policy. The derivative floor guards the division, the
// step tolerance decides convergence, and candidates are only accepted
// when the residual confirms the seed actually landed on a root.
const (
	maxNewtonIter = 100
	derivFloor    = 1e-15
	stepTol       = 1e-10
	rootDedupTol  = 1e-4
	rootResidual  = 1e-4
)

// FindRoots scans [searchMin, searchMax] with Newton-Raphson seeds every
// seedStep and returns the distinct real roots of expression in x,
// ascending. An empty derivative string asks for a symbolic one. A seed
// that diverges, cycles, or hits an evaluation error is skipped; an
// empty result slice is a valid answer. Malformed inputs fail before any
// seed runs.
func FindRoots(expression, derivative string, searchMin, searchMax, seedStep float64) ([]float64, error) {
	if seedStep <= 0 {
		return nil, fmt.Errorf("%w: seed step must be positive", ErrEval)
	}
	if searchMax < searchMin {
		return nil, fmt.Errorf("%w: empty search interval", ErrEval)
	}
	if derivative == "" {
		d, err := Derive(expression, "x")
		if err != nil {
			return nil, err
		}
		derivative = d
	}
	f, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	df, err := Parse(derivative)
	if err != nil {
		return nil, err
	}

	var roots []float64
	for seed := searchMin; seed <= searchMax+seedStep/2; seed += seedStep {
		root, ok := newton(f, df, seed)
		if !ok {
			continue
		}
		if root < searchMin-rootDedupTol || root > searchMax+rootDedupTol {
			continue
		}
		if !containsRoot(roots, root) {
			roots = append(roots, root)
		}
	}
	sort.Float64s(roots)
	return roots, nil
}

func newton(f, df node, x0 float64) (float64, bool) {
	x := x0
	for i := 0; i < maxNewtonIter; i++ {
		fx, ok := evalRealAt(f, x)
		if !ok {
			return 0, false
		}
		dfx, ok := evalRealAt(df, x)
		if !ok || math.Abs(dfx) < derivFloor {
			return 0, false
		}
		next := x - fx/dfx
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-x) < stepTol {
			res, ok := evalRealAt(f, next)
			return next, ok && math.Abs(res) <= rootResidual
		}
		x = next
	}
	return 0, false
}

func evalRealAt(n node, x float64) (float64, bool) {
	v, err := n.eval(newEnv(map[string]float64{"x": x}))
	if err != nil || v.Kind() != KindReal {
		return 0, false
	}
	y := v.Float64()
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

func containsRoot(roots []float64, r float64) bool {
	for _, have := range roots {
		if math.Abs(have-r) < rootDedupTol {
			return true
		}
	}
	return false
}
