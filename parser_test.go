package calcengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calcengine "github.com/tmathis/calcengine"
)

func requireParseError(t *testing.T, expr string) {
	t.Helper()
	_, err := calcengine.Evaluate(expr, nil)
	require.Error(t, err, "expression %q", expr)
	assert.ErrorIs(t, err, calcengine.ErrParse, "expression %q", expr)
}

func TestParse_EmptyExpression(t *testing.T) {
	requireParseError(t, "")
	requireParseError(t, "   ")
}

func TestParse_TrailingTokens(t *testing.T) {
	requireParseError(t, "2+3)")
	requireParseError(t, "1 2,")
}

func TestParse_DanglingOperator(t *testing.T) {
	requireParseError(t, "2+")
	requireParseError(t, "*3")
}

func TestParse_UnbalancedParens(t *testing.T) {
	requireParseError(t, "(1+2")
	requireParseError(t, "sin(1")
}

func TestParse_UnexpectedCharacter(t *testing.T) {
	requireParseError(t, "2 $ 3")
	requireParseError(t, "a & b")
}

func TestParse_RaggedMatrix(t *testing.T) {
	requireParseError(t, "[[1,2],[3]]")
}

func TestParse_UnclosedMatrix(t *testing.T) {
	requireParseError(t, "[[1,2],[3,4]")
	requireParseError(t, "[[1,2")
}

func TestParse_NumberForms(t *testing.T) {
	assert.Equal(t, 1.0, evalReal(t, ".5+.5", nil))
	assert.Equal(t, 1000.0, evalReal(t, "1e3", nil))
	assert.Equal(t, 0.015, evalReal(t, "1.5e-2", nil))
	assert.Equal(t, 3.25, evalReal(t, "3.25", nil))
}

func TestParse_WhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, evalReal(t, "2*x+1", map[string]float64{"x": 5}),
		evalReal(t, "  2 * x + 1  ", map[string]float64{"x": 5}))
}
