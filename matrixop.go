package calcengine

import (
	"fmt"
	"strings"
)

// MatrixOp names an operation of the matrix dispatcher.
type MatrixOp string

const (
	MatrixAdd         MatrixOp = "add"
	MatrixSubtract    MatrixOp = "subtract"
	MatrixMultiply    MatrixOp = "multiply"
	MatrixDeterminant MatrixOp = "determinant"
	MatrixInverse     MatrixOp = "inverse"
	MatrixTranspose   MatrixOp = "transpose"
	MatrixEigenvalues MatrixOp = "eigenvalues"
	MatrixLU          MatrixOp = "lu"
)

// Grid is a matrix of cell expressions as entered, one string per cell.
// Cells hold arbitrary sub-expressions ("1/2", "sqrt(2)"), not just
// numbers; an empty cell reads as zero.
type Grid [][]string

// ZeroGrid returns a rows×cols grid of "0" cells.
func ZeroGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]string, cols)
		for j := range g[i] {
			g[i][j] = "0"
		}
	}
	return g
}

// IdentityGrid returns a rows×cols grid with "1" down the main diagonal.
func IdentityGrid(rows, cols int) Grid {
	g := ZeroGrid(rows, cols)
	for i := 0; i < rows && i < cols; i++ {
		g[i][i] = "1"
	}
	return g
}

// literal serializes the grid as a matrix-literal expression. Ragged or
// empty grids pass through unchecked here; the parser rejects them with
// its usual shape errors.
func (g Grid) literal() string {
	rows := make([]string, len(g))
	for i, row := range g {
		cells := make([]string, len(row))
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				cell = "0"
			}
			cells[j] = "(" + cell + ")"
		}
		rows[i] = "[" + strings.Join(cells, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

// ComputeMatrixOp serializes the operand grids into a single expression
// and routes it through the evaluator, so cell expressions, shape
// checks, and result formatting all follow the evaluator's rules. The
// unary operations ignore b.
func ComputeMatrixOp(op MatrixOp, a, b Grid) (Value, error) {
	var expr string
	switch op {
	case MatrixAdd, MatrixSubtract, MatrixMultiply:
		if len(b) == 0 {
			return Value{}, fmt.Errorf("%w: %s requires a second matrix", ErrEval, op)
		}
		switch op {
		case MatrixAdd:
			expr = a.literal() + " + " + b.literal()
		case MatrixSubtract:
			expr = a.literal() + " - " + b.literal()
		case MatrixMultiply:
			expr = a.literal() + " * " + b.literal()
		}
	case MatrixDeterminant:
		expr = "det(" + a.literal() + ")"
	case MatrixInverse:
		expr = "inv(" + a.literal() + ")"
	case MatrixTranspose:
		expr = "transpose(" + a.literal() + ")"
	case MatrixEigenvalues:
		expr = "eigs(" + a.literal() + ")"
	case MatrixLU:
		expr = "lu(" + a.literal() + ")"
	default:
		return Value{}, fmt.Errorf("%w: unknown matrix operation %q", ErrEval, op)
	}
	return Evaluate(expr, nil)
}
