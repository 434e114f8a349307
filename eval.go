package calcengine

import (
	"fmt"
	"math"
	"math/cmplx"
)

// env is the evaluation environment: constants plus caller bindings.
// A fresh env is built for every Evaluate call, so evaluation is a pure
// function of (expression, bindings).
type env struct {
	vars map[string]Value
}

func newEnv(bindings map[string]float64) *env {
	vars := map[string]Value{
		"pi":  Real(math.Pi),
		"tau": Real(2 * math.Pi),
		"e":   Real(math.E),
		"phi": Real((1 + math.Sqrt(5)) / 2),
		"i":   Complex(complex(0, 1)),
	}
	for k, v := range bindings {
		vars[k] = Real(v)
	}
	return &env{vars: vars}
}

type node interface {
	eval(e *env) (Value, error)
}

type nodeNumber struct{ f float64 }

func (n nodeNumber) eval(*env) (Value, error) { return Real(n.f), nil }

type nodeIdent struct{ name string }

func (n nodeIdent) eval(e *env) (Value, error) {
	v, ok := e.vars[n.name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %w %q", ErrEval, ErrUnknownVar, n.name)
	}
	return v, nil
}

type nodeUnary struct {
	op byte
	x  node
}

func (n nodeUnary) eval(e *env) (Value, error) {
	v, err := n.x.eval(e)
	if err != nil {
		return Value{}, err
	}
	if n.op == '+' {
		return v, nil
	}
	switch v.kind {
	case KindReal:
		return Real(-v.re), nil
	case KindComplex:
		return Complex(-v.c), nil
	case KindMatrix:
		return MatrixValue(v.mat.Scale(-1)), nil
	default:
		return Value{}, fmt.Errorf("%w: unary %q on %s value", ErrEval, n.op, v.kind)
	}
}

type nodeBinary struct {
	op    byte
	left  node
	right node
}

func (n nodeBinary) eval(e *env) (Value, error) {
	a, err := n.left.eval(e)
	if err != nil {
		return Value{}, err
	}
	b, err := n.right.eval(e)
	if err != nil {
		return Value{}, err
	}
	return applyBinary(n.op, a, b)
}

func applyBinary(op byte, a, b Value) (Value, error) {
	if a.kind == KindString || b.kind == KindString {
		return Value{}, fmt.Errorf("%w: operator %q on formatted value", ErrEval, op)
	}
	if a.kind == KindMatrix || b.kind == KindMatrix {
		return applyBinaryMatrix(op, a, b)
	}
	if a.kind == KindComplex || b.kind == KindComplex {
		return applyBinaryComplex(op, a.Complex128(), b.Complex128())
	}
	return applyBinaryReal(op, a.re, b.re)
}

func applyBinaryReal(op byte, a, b float64) (Value, error) {
	switch op {
	case '+':
		return Real(a + b), nil
	case '-':
		return Real(a - b), nil
	case '*':
		return Real(a * b), nil
	case '/':
		if b == 0 {
			return Value{}, fmt.Errorf("%w: division by zero", ErrEval)
		}
		return Real(a / b), nil
	case '^':
		// Negative base with fractional exponent has no real result;
		// promote to the complex principal value.
		if a < 0 && b != math.Trunc(b) {
			return Complex(cmplx.Pow(complex(a, 0), complex(b, 0))), nil
		}
		return Real(math.Pow(a, b)), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown operator %q", ErrEval, op)
	}
}

func applyBinaryComplex(op byte, a, b complex128) (Value, error) {
	switch op {
	case '+':
		return Complex(a + b), nil
	case '-':
		return Complex(a - b), nil
	case '*':
		return Complex(a * b), nil
	case '/':
		if b == 0 {
			return Value{}, fmt.Errorf("%w: division by zero", ErrEval)
		}
		return Complex(a / b), nil
	case '^':
		return Complex(cmplx.Pow(a, b)), nil
	default:
		return Value{}, fmt.Errorf("%w: unknown operator %q", ErrEval, op)
	}
}

func applyBinaryMatrix(op byte, a, b Value) (Value, error) {
	switch {
	case a.kind == KindMatrix && b.kind == KindMatrix:
		var (
			out *Matrix
			err error
		)
		switch op {
		case '+':
			out, err = a.mat.Add(b.mat)
		case '-':
			out, err = a.mat.Sub(b.mat)
		case '*':
			out, err = a.mat.Mul(b.mat)
		default:
			return Value{}, fmt.Errorf("%w: operator %q not defined for matrices", ErrEval, op)
		}
		if err != nil {
			return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
		}
		return MatrixValue(out), nil

	case a.kind == KindMatrix && b.kind == KindReal:
		switch op {
		case '*':
			return MatrixValue(a.mat.Scale(b.re)), nil
		case '/':
			if b.re == 0 {
				return Value{}, fmt.Errorf("%w: division by zero", ErrEval)
			}
			return MatrixValue(a.mat.Scale(1 / b.re)), nil
		default:
			return Value{}, fmt.Errorf("%w: operator %q not defined for matrix and scalar", ErrEval, op)
		}

	case a.kind == KindReal && b.kind == KindMatrix:
		if op == '*' {
			return MatrixValue(b.mat.Scale(a.re)), nil
		}
		return Value{}, fmt.Errorf("%w: operator %q not defined for scalar and matrix", ErrEval, op)

	default:
		return Value{}, fmt.Errorf("%w: operator %q not defined for matrix and complex", ErrEval, op)
	}
}

type nodeCall struct {
	name string
	args []node
}

func (n nodeCall) eval(e *env) (Value, error) {
	args := make([]Value, 0, len(n.args))
	for _, a := range n.args {
		v, err := a.eval(e)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	spec, ok := builtins[n.name]
	if !ok {
		return Value{}, fmt.Errorf("%w: unknown function %q", ErrEval, n.name)
	}
	if len(args) < spec.minArgs || len(args) > spec.maxArgs {
		if spec.minArgs == spec.maxArgs {
			return Value{}, fmt.Errorf("%w: %s expects %d argument(s)", ErrEval, n.name, spec.minArgs)
		}
		return Value{}, fmt.Errorf("%w: %s expects %d..%d argument(s)", ErrEval, n.name, spec.minArgs, spec.maxArgs)
	}
	return spec.fn(args)
}

type nodeMatrix struct {
	rows [][]node
}

func (n nodeMatrix) eval(e *env) (Value, error) {
	rows := len(n.rows)
	cols := len(n.rows[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range n.rows {
		for _, cell := range row {
			v, err := cell.eval(e)
			if err != nil {
				return Value{}, err
			}
			if v.kind != KindReal {
				return Value{}, fmt.Errorf("%w: matrix entries must be real, got %s", ErrEval, v.kind)
			}
			data = append(data, v.re)
		}
	}
	m, err := NewMatrix(rows, cols, data)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrEval, err)
	}
	return MatrixValue(m), nil
}

// Evaluate parses and evaluates an infix algebraic expression. Bindings
// supply values for free variables, e.g. {"x": 2.5}. Identical inputs always
// produce identical results; no state survives between calls.
func Evaluate(expression string, bindings map[string]float64) (Value, error) {
	ex, err := Parse(expression)
	if err != nil {
		return Value{}, err
	}
	return ex.eval(newEnv(bindings))
}
