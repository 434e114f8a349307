package calcengine

import (
	"fmt"
	"strconv"
	"strings"
)

// ToolRequest is one JSON tool call as received by the front ends.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries either a result or an error, never both.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall dispatches a tool request to the matching engine
// operation. Parameter problems and operation failures both come back
// in the Error field; the function never panics on malformed input.
func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getOptString := func(key string) string {
		s, _ := req.Params[key].(string)
		return s
	}
	getFloat := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	getFloats := func(keys ...string) ([]float64, error) {
		out := make([]float64, len(keys))
		for i, k := range keys {
			f, err := getFloat(k)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	}
	getBindings := func() (map[string]float64, error) {
		v, ok := req.Params["bindings"]
		if !ok {
			return nil, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param bindings must be an object")
		}
		out := make(map[string]float64, len(raw))
		for k, bv := range raw {
			f, ok := bv.(float64)
			if !ok {
				return nil, fmt.Errorf("binding %s must be a number", k)
			}
			out[k] = f
		}
		return out, nil
	}
	getGrid := func(key string) (Grid, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be an array of rows", key)
		}
		g := make(Grid, len(raw))
		for i, rowAny := range raw {
			row, ok := rowAny.([]interface{})
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be an array of cells", key, i)
			}
			g[i] = make([]string, len(row))
			for j, cellAny := range row {
				switch cell := cellAny.(type) {
				case string:
					g[i][j] = cell
				case float64:
					g[i][j] = strconv.FormatFloat(cell, 'g', -1, 64)
				default:
					return nil, fmt.Errorf("param %s[%d][%d] must be a string or number", key, i, j)
				}
			}
		}
		return g, nil
	}

	switch req.Tool {
	case "evaluate":
		expr, err := getString("expression")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		bindings, err := getBindings()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := Evaluate(expr, bindings)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: v.Format(), String: v.Format()}

	case "sample":
		expr, err := getString("expression")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		vals, err := getFloats("x_start", "x_end")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		countF, err := getFloat("count")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		points := Sample(expr, vals[0], vals[1], int(countF))
		return ToolResponse{Result: points, String: fmt.Sprintf("%d points", len(points))}

	case "find_roots":
		expr, err := getString("expression")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		vals, err := getFloats("search_min", "search_max", "seed_step")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		roots, err := FindRoots(expr, getOptString("derivative"), vals[0], vals[1], vals[2])
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		strs := make([]string, len(roots))
		for i, r := range roots {
			strs[i] = formatFloat(r)
		}
		return ToolResponse{Result: roots, String: strings.Join(strs, ", ")}

	case "solve2x2":
		vals, err := getFloats("a1", "b1", "c1", "a2", "b2", "c2")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		x, y, err := Solve2x2(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{
			Result: map[string]float64{"x": x, "y": y},
			String: fmt.Sprintf("x = %s, y = %s", formatFloat(x), formatFloat(y)),
		}

	case "quadratic":
		vals, err := getFloats("a", "b", "c")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		q, err := ClassifyQuadratic(vals[0], vals[1], vals[2])
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: q, String: q.String()}

	case "matrix_op":
		op, err := getString("op")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		a, err := getGrid("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		var b Grid
		if _, ok := req.Params["b"]; ok {
			if b, err = getGrid("b"); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		v, err := ComputeMatrixOp(MatrixOp(op), a, b)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: v.Format(), String: v.Format()}

	case "derive":
		expr, err := getString("expression")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		variable := getOptString("var")
		if variable == "" {
			variable = "x"
		}
		d, err := Derive(expr, variable)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: d, String: d}

	default:
		return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
	}
}

// ToolNames lists the tools HandleToolCall understands, for discovery
// endpoints.
func ToolNames() []string {
	return []string{"evaluate", "sample", "find_roots", "solve2x2", "quadratic", "matrix_op", "derive"}
}
