package calcengine

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// builtinSpec mirrors the shape of the dispatch tables in the evaluator:
// an arity window and the implementation. Variadic builtins (min, max) set
// maxArgs to a large bound.
type builtinSpec struct {
	minArgs int
	maxArgs int
	fn      func(args []Value) (Value, error)
}

var builtins map[string]builtinSpec

func init() {
	builtins = map[string]builtinSpec{
		"sin":   scalar1(math.Sin, cmplx.Sin),
		"cos":   scalar1(math.Cos, cmplx.Cos),
		"tan":   scalar1(math.Tan, cmplx.Tan),
		"asin":  domain1(math.Asin, cmplx.Asin, func(x float64) bool { return x >= -1 && x <= 1 }),
		"acos":  domain1(math.Acos, cmplx.Acos, func(x float64) bool { return x >= -1 && x <= 1 }),
		"atan":  scalar1(math.Atan, cmplx.Atan),
		"sinh":  scalar1(math.Sinh, cmplx.Sinh),
		"cosh":  scalar1(math.Cosh, cmplx.Cosh),
		"tanh":  scalar1(math.Tanh, cmplx.Tanh),
		"exp":   scalar1(math.Exp, cmplx.Exp),
		"ln":    domain1(math.Log, cmplx.Log, func(x float64) bool { return x > 0 }),
		"log":   domain1(math.Log, cmplx.Log, func(x float64) bool { return x > 0 }),
		"log10": domain1(math.Log10, cmplx.Log10, func(x float64) bool { return x > 0 }),
		"sqrt":  domain1(math.Sqrt, cmplx.Sqrt, func(x float64) bool { return x >= 0 }),
		"floor": real1(math.Floor),
		"ceil":  real1(math.Ceil),
		"round": real1(math.Round),

		"atan2": {2, 2, func(args []Value) (Value, error) {
			y, err := realArg("atan2", args[0])
			if err != nil {
				return Value{}, err
			}
			x, err := realArg("atan2", args[1])
			if err != nil {
				return Value{}, err
			}
			return Real(math.Atan2(y, x)), nil
		}},
		"pow": {2, 2, func(args []Value) (Value, error) {
			return applyBinary('^', args[0], args[1])
		}},
		"min": {1, 64, reduceReal("min", math.Min)},
		"max": {1, 64, reduceReal("max", math.Max)},

		"abs": {1, 1, func(args []Value) (Value, error) {
			switch args[0].kind {
			case KindReal:
				return Real(math.Abs(args[0].re)), nil
			case KindComplex:
				return Real(cmplx.Abs(args[0].c)), nil
			default:
				return Value{}, fmt.Errorf("%w: abs expects a scalar", ErrEval)
			}
		}},
		"arg": {1, 1, func(args []Value) (Value, error) {
			c, err := complexArg("arg", args[0])
			if err != nil {
				return Value{}, err
			}
			return Real(cmplx.Phase(c)), nil
		}},
		"conj": {1, 1, func(args []Value) (Value, error) {
			c, err := complexArg("conj", args[0])
			if err != nil {
				return Value{}, err
			}
			return Complex(cmplx.Conj(c)), nil
		}},
		"re": {1, 1, func(args []Value) (Value, error) {
			c, err := complexArg("re", args[0])
			if err != nil {
				return Value{}, err
			}
			return Real(real(c)), nil
		}},
		"im": {1, 1, func(args []Value) (Value, error) {
			c, err := complexArg("im", args[0])
			if err != nil {
				return Value{}, err
			}
			return Real(imag(c)), nil
		}},
		"complex": {2, 2, func(args []Value) (Value, error) {
			re, err := realArg("complex", args[0])
			if err != nil {
				return Value{}, err
			}
			im, err := realArg("complex", args[1])
			if err != nil {
				return Value{}, err
			}
			return Complex(complex(re, im)), nil
		}},

		"det": {1, 1, func(args []Value) (Value, error) {
			m, err := matrixArg("det", args[0])
			if err != nil {
				return Value{}, err
			}
			d, err := m.Det()
			if err != nil {
				return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
			}
			return Real(d), nil
		}},
		"inv": {1, 1, func(args []Value) (Value, error) {
			m, err := matrixArg("inv", args[0])
			if err != nil {
				return Value{}, err
			}
			out, err := m.Inverse()
			if err != nil {
				return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
			}
			return MatrixValue(out), nil
		}},
		"transpose": {1, 1, func(args []Value) (Value, error) {
			m, err := matrixArg("transpose", args[0])
			if err != nil {
				return Value{}, err
			}
			return MatrixValue(m.Transpose()), nil
		}},
		"eigs": {1, 1, func(args []Value) (Value, error) {
			m, err := matrixArg("eigs", args[0])
			if err != nil {
				return Value{}, err
			}
			eigs, err := m.Eigenvalues()
			if err != nil {
				return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
			}
			parts := make([]string, len(eigs))
			for i, ev := range eigs {
				if imag(ev) == 0 {
					parts[i] = formatFloat(real(ev))
				} else {
					parts[i] = formatComplex(ev)
				}
			}
			return StringValue("eigenvalues: " + strings.Join(parts, ", ")), nil
		}},
		"lu": {1, 1, func(args []Value) (Value, error) {
			m, err := matrixArg("lu", args[0])
			if err != nil {
				return Value{}, err
			}
			p, l, u, err := m.LU()
			if err != nil {
				return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
			}
			return StringValue(fmt.Sprintf("P: %s L: %s U: %s", p, l, u)), nil
		}},
	}
}

// scalar1 builds a one-argument builtin that works on reals and complexes.
func scalar1(rf func(float64) float64, cf func(complex128) complex128) builtinSpec {
	return builtinSpec{1, 1, func(args []Value) (Value, error) {
		switch args[0].kind {
		case KindReal:
			return Real(rf(args[0].re)), nil
		case KindComplex:
			return Complex(cf(args[0].c)), nil
		default:
			return Value{}, fmt.Errorf("%w: function expects a scalar, got %s", ErrEval, args[0].kind)
		}
	}}
}

// domain1 is scalar1 for functions with a restricted real domain. Real
// arguments outside the domain route through the complex branch, so
// sqrt(-4) yields 2i rather than NaN.
func domain1(rf func(float64) float64, cf func(complex128) complex128, inDomain func(float64) bool) builtinSpec {
	return builtinSpec{1, 1, func(args []Value) (Value, error) {
		switch args[0].kind {
		case KindReal:
			if inDomain(args[0].re) {
				return Real(rf(args[0].re)), nil
			}
			return Complex(cf(complex(args[0].re, 0))), nil
		case KindComplex:
			return Complex(cf(args[0].c)), nil
		default:
			return Value{}, fmt.Errorf("%w: function expects a scalar, got %s", ErrEval, args[0].kind)
		}
	}}
}

func real1(rf func(float64) float64) builtinSpec {
	return builtinSpec{1, 1, func(args []Value) (Value, error) {
		x, err := realArg("function", args[0])
		if err != nil {
			return Value{}, err
		}
		return Real(rf(x)), nil
	}}
}

func reduceReal(name string, f func(a, b float64) float64) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		acc, err := realArg(name, args[0])
		if err != nil {
			return Value{}, err
		}
		for _, a := range args[1:] {
			x, err := realArg(name, a)
			if err != nil {
				return Value{}, err
			}
			acc = f(acc, x)
		}
		return Real(acc), nil
	}
}

func realArg(name string, v Value) (float64, error) {
	if v.kind != KindReal {
		return 0, fmt.Errorf("%w: %s expects a real argument, got %s", ErrEval, name, v.kind)
	}
	return v.re, nil
}

func complexArg(name string, v Value) (complex128, error) {
	switch v.kind {
	case KindReal:
		return complex(v.re, 0), nil
	case KindComplex:
		return v.c, nil
	default:
		return 0, fmt.Errorf("%w: %s expects a scalar argument, got %s", ErrEval, name, v.kind)
	}
}

func matrixArg(name string, v Value) (*Matrix, error) {
	if v.kind != KindMatrix {
		return nil, fmt.Errorf("%w: %s expects a matrix argument, got %s", ErrEval, name, v.kind)
	}
	return v.mat, nil
}
