package calcengine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calcengine "github.com/tmathis/calcengine"
)

func evalReal(t *testing.T, expr string, bindings map[string]float64) float64 {
	t.Helper()
	v, err := calcengine.Evaluate(expr, bindings)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindReal, v.Kind(), "expression %q", expr)
	return v.Float64()
}

func TestEvaluate_Arithmetic(t *testing.T) {
	assert.Equal(t, 4.0, evalReal(t, "2+2", nil))
	assert.Equal(t, 14.0, evalReal(t, "2+3*4", nil))
	assert.Equal(t, 2.0, evalReal(t, "(2+6)/4", nil))
	assert.Equal(t, 1.0, evalReal(t, "7 - 3 - 3", nil))
	assert.InDelta(t, 0.125, evalReal(t, "2 ^ -3", nil), 1e-12)
}

func TestEvaluate_PowerRightAssociative(t *testing.T) {
	assert.Equal(t, 512.0, evalReal(t, "2^3^2", nil))
}

func TestEvaluate_UnaryMinusBindsAbovePower(t *testing.T) {
	assert.Equal(t, -4.0, evalReal(t, "-2^2", nil))
	assert.Equal(t, 4.0, evalReal(t, "(-2)^2", nil))
}

func TestEvaluate_ImplicitMultiplication(t *testing.T) {
	x := map[string]float64{"x": 3}
	assert.Equal(t, 6.0, evalReal(t, "2x", x))
	assert.Equal(t, 8.0, evalReal(t, "2(3+1)", nil))
	assert.Equal(t, 8.0, evalReal(t, "(x+1)(x-1)", x))
	assert.Equal(t, 18.0, evalReal(t, "2x^2", x))
}

func TestEvaluate_Bindings(t *testing.T) {
	got := evalReal(t, "a*b + c", map[string]float64{"a": 2, "b": 3, "c": 4})
	assert.Equal(t, 10.0, got)
}

func TestEvaluate_Constants(t *testing.T) {
	assert.InDelta(t, math.Pi, evalReal(t, "pi", nil), 1e-15)
	assert.InDelta(t, 2*math.Pi, evalReal(t, "tau", nil), 1e-15)
	assert.InDelta(t, math.E, evalReal(t, "e", nil), 1e-15)
	assert.InDelta(t, 1.6180339887, evalReal(t, "phi", nil), 1e-9)
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := calcengine.Evaluate("1/0", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, calcengine.ErrEval)
}

func TestEvaluate_UnknownVariable(t *testing.T) {
	_, err := calcengine.Evaluate("x + 1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, calcengine.ErrUnknownVar)
}

func TestEvaluate_UnknownFunction(t *testing.T) {
	_, err := calcengine.Evaluate("frob(1)", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, calcengine.ErrEval)
}

func TestEvaluate_ScalarFunctions(t *testing.T) {
	assert.InDelta(t, 1.0, evalReal(t, "sin(pi/2)", nil), 1e-12)
	assert.InDelta(t, math.Sqrt2, evalReal(t, "sqrt(2)", nil), 1e-12)
	assert.InDelta(t, 1.0, evalReal(t, "ln(e)", nil), 1e-12)
	assert.InDelta(t, 2.0, evalReal(t, "log10(100)", nil), 1e-12)
	assert.Equal(t, 3.0, evalReal(t, "floor(3.7)", nil))
	assert.Equal(t, 4.0, evalReal(t, "ceil(3.2)", nil))
	assert.Equal(t, 4.0, evalReal(t, "round(3.5)", nil))
	assert.Equal(t, 1.0, evalReal(t, "min(3, 1, 2)", nil))
	assert.Equal(t, 3.0, evalReal(t, "max(3, 1, 2)", nil))
	assert.InDelta(t, math.Pi/4, evalReal(t, "atan2(1, 1)", nil), 1e-12)
	assert.Equal(t, 8.0, evalReal(t, "pow(2, 3)", nil))
}

func TestEvaluate_FunctionArity(t *testing.T) {
	_, err := calcengine.Evaluate("sin(1, 2)", nil)
	require.Error(t, err)
	_, err = calcengine.Evaluate("atan2(1)", nil)
	require.Error(t, err)
}

func TestEvaluate_ComplexArithmetic(t *testing.T) {
	v, err := calcengine.Evaluate("i*i", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindReal, v.Kind())
	assert.Equal(t, -1.0, v.Float64())

	v, err = calcengine.Evaluate("complex(1,2) * complex(1,-2)", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindReal, v.Kind())
	assert.InDelta(t, 5.0, v.Float64(), 1e-12)

	v, err = calcengine.Evaluate("abs(complex(3,4))", nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Float64())

	v, err = calcengine.Evaluate("conj(complex(1,2))", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindComplex, v.Kind())
	assert.Equal(t, complex(1, -2), v.Complex128())
}

func TestEvaluate_SqrtOfNegativePromotes(t *testing.T) {
	v, err := calcengine.Evaluate("sqrt(-4)", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindComplex, v.Kind())
	assert.InDelta(t, 0.0, real(v.Complex128()), 1e-12)
	assert.InDelta(t, 2.0, imag(v.Complex128()), 1e-12)
}

func TestEvaluate_NegativeBaseFractionalExponent(t *testing.T) {
	v, err := calcengine.Evaluate("(-8)^(1/3)", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindComplex, v.Kind())
	assert.InDelta(t, 1.0, real(v.Complex128()), 1e-9)
	assert.InDelta(t, math.Sqrt(3), imag(v.Complex128()), 1e-9)
}

func TestEvaluate_MatrixLiteral(t *testing.T) {
	v, err := calcengine.Evaluate("[[1,2],[3,4]] * [[5,6],[7,8]]", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindMatrix, v.Kind())
	m := v.Matrix()
	assert.Equal(t, 19.0, m.At(0, 0))
	assert.Equal(t, 22.0, m.At(0, 1))
	assert.Equal(t, 43.0, m.At(1, 0))
	assert.Equal(t, 50.0, m.At(1, 1))
}

func TestEvaluate_MatrixScalar(t *testing.T) {
	v, err := calcengine.Evaluate("2 * [[1,2],[3,4]]", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindMatrix, v.Kind())
	assert.Equal(t, 8.0, v.Matrix().At(1, 1))
}

func TestEvaluate_MatrixShapeMismatch(t *testing.T) {
	_, err := calcengine.Evaluate("[[1,2,3],[4,5,6]] * [[1,2,3],[4,5,6]]", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, calcengine.ErrShape)
}

func TestEvaluate_MatrixFunctions(t *testing.T) {
	v, err := calcengine.Evaluate("det([[1,2],[3,4]])", nil)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, v.Float64(), 1e-12)

	v, err = calcengine.Evaluate("transpose([[1,2,3]])", nil)
	require.NoError(t, err)
	require.Equal(t, calcengine.KindMatrix, v.Kind())
	assert.Equal(t, 3, v.Matrix().Rows())
	assert.Equal(t, 1, v.Matrix().Cols())

	v, err = calcengine.Evaluate("inv([[2,0],[0,4]])", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v.Matrix().At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, v.Matrix().At(1, 1), 1e-12)
}

func TestEvaluate_Deterministic(t *testing.T) {
	const expr = "sin(x)^2 + cos(x)^2 + x/3"
	bindings := map[string]float64{"x": 1.7}
	a, err := calcengine.Evaluate(expr, bindings)
	require.NoError(t, err)
	b, err := calcengine.Evaluate(expr, bindings)
	require.NoError(t, err)
	assert.Equal(t, a.Float64(), b.Float64())
	assert.Equal(t, a.Format(), b.Format())
}

func TestValueFormat(t *testing.T) {
	v, err := calcengine.Evaluate("1/3", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.333333", v.Format())

	v, err = calcengine.Evaluate("2+2", nil)
	require.NoError(t, err)
	assert.Equal(t, "4", v.Format())

	v, err = calcengine.Evaluate("sin(pi)", nil)
	require.NoError(t, err)
	assert.Equal(t, "0", v.Format())

	v, err = calcengine.Evaluate("sqrt(-9)", nil)
	require.NoError(t, err)
	assert.Equal(t, "0 + 3i", v.Format())

	v, err = calcengine.Evaluate("[[1,2],[3,4]]", nil)
	require.NoError(t, err)
	assert.Equal(t, "[[1, 2], [3, 4]]", v.Format())
}
