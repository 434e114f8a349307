package calcengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calcengine "github.com/tmathis/calcengine"
)

func TestHandleToolCall_Evaluate(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"expression": "2+2"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "4", resp.String)
}

func TestHandleToolCall_EvaluateWithBindings(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "evaluate",
		Params: map[string]interface{}{
			"expression": "x^2 + 1",
			"bindings":   map[string]interface{}{"x": 3.0},
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "10", resp.String)
}

func TestHandleToolCall_EvaluateError(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"expression": "1/0"},
	})
	assert.NotEmpty(t, resp.Error)
	assert.Nil(t, resp.Result)
}

func TestHandleToolCall_MissingParam(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{},
	})
	assert.Equal(t, "missing param: expression", resp.Error)
}

func TestHandleToolCall_Sample(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "sample",
		Params: map[string]interface{}{
			"expression": "x^2",
			"x_start":    -1.0,
			"x_end":      1.0,
			"count":      5.0,
		},
	})
	require.Empty(t, resp.Error)
	points, ok := resp.Result.([]calcengine.GraphPoint)
	require.True(t, ok)
	assert.Len(t, points, 5)
}

func TestHandleToolCall_FindRoots(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "find_roots",
		Params: map[string]interface{}{
			"expression": "x^2 - 4",
			"search_min": -5.0,
			"search_max": 5.0,
			"seed_step":  0.5,
		},
	})
	require.Empty(t, resp.Error)
	roots, ok := resp.Result.([]float64)
	require.True(t, ok)
	require.Len(t, roots, 2)
	assert.Equal(t, "-2, 2", resp.String)
}

func TestHandleToolCall_Solve2x2(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "solve2x2",
		Params: map[string]interface{}{
			"a1": 2.0, "b1": 3.0, "c1": 8.0,
			"a2": 1.0, "b2": -1.0, "c2": 1.0,
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x = 2.2, y = 1.2", resp.String)
}

func TestHandleToolCall_Quadratic(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "quadratic",
		Params: map[string]interface{}{"a": 1.0, "b": -5.0, "c": 6.0},
	})
	require.Empty(t, resp.Error)
	q, ok := resp.Result.(calcengine.QuadraticRoots)
	require.True(t, ok)
	assert.Equal(t, calcengine.QuadTwoReal, q.Case)
	assert.Equal(t, "x = 2, x = 3", resp.String)
}

func TestHandleToolCall_MatrixOp(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "matrix_op",
		Params: map[string]interface{}{
			"op": "multiply",
			"a":  []interface{}{[]interface{}{"1", "2"}, []interface{}{"3", "4"}},
			"b":  []interface{}{[]interface{}{5.0, 6.0}, []interface{}{7.0, 8.0}},
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "[[19, 22], [43, 50]]", resp.String)
}

func TestHandleToolCall_MatrixOpNumericCellPrecision(t *testing.T) {
	// Numeric cells keep full precision when serialized into the
	// matrix literal; 1e-7 must not degrade to zero.
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "matrix_op",
		Params: map[string]interface{}{
			"op": "multiply",
			"a":  []interface{}{[]interface{}{1e-7}},
			"b":  []interface{}{[]interface{}{1e7}},
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "[[1]]", resp.String)
}

func TestHandleToolCall_MatrixOpMissingSecondOperand(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool: "matrix_op",
		Params: map[string]interface{}{
			"op": "add",
			"a":  []interface{}{[]interface{}{"1"}},
		},
	})
	require.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Error, "second matrix")
}

func TestHandleToolCall_Derive(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "derive",
		Params: map[string]interface{}{"expression": "x^2"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2 * x", resp.String)
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := calcengine.HandleToolCall(calcengine.ToolRequest{
		Tool:   "nonexistent",
		Params: map[string]interface{}{},
	})
	assert.Equal(t, "unknown tool: nonexistent", resp.Error)
}

func TestToolNames_CoverDispatch(t *testing.T) {
	for _, name := range calcengine.ToolNames() {
		resp := calcengine.HandleToolCall(calcengine.ToolRequest{Tool: name, Params: map[string]interface{}{}})
		assert.NotEqual(t, "unknown tool: "+name, resp.Error, "tool %s should be dispatchable", name)
	}
}
