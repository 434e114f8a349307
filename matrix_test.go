package calcengine_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calcengine "github.com/tmathis/calcengine"
)

func mustMatrix(t *testing.T, rows, cols int, data []float64) *calcengine.Matrix {
	t.Helper()
	m, err := calcengine.NewMatrix(rows, cols, data)
	require.NoError(t, err)
	return m
}

func TestNewMatrix_Validation(t *testing.T) {
	_, err := calcengine.NewMatrix(0, 2, nil)
	require.Error(t, err)
	_, err = calcengine.NewMatrix(2, 2, []float64{1, 2, 3})
	require.Error(t, err)
}

func TestMatrixAdd_ShapeMismatch(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{1, 2, 3, 4})
	b := mustMatrix(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, err := a.Add(b)
	assert.ErrorIs(t, err, calcengine.ErrShape)
}

func TestMatrixMul(t *testing.T) {
	a := mustMatrix(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := mustMatrix(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	out, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, 2, out.Cols())
	assert.Equal(t, 58.0, out.At(0, 0))
	assert.Equal(t, 64.0, out.At(0, 1))
	assert.Equal(t, 139.0, out.At(1, 0))
	assert.Equal(t, 154.0, out.At(1, 1))
}

func TestMatrixMul_ShapeMismatch(t *testing.T) {
	a := mustMatrix(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, err := a.Mul(a)
	assert.ErrorIs(t, err, calcengine.ErrShape)
}

func TestMatrixTranspose(t *testing.T) {
	a := mustMatrix(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	tr := a.Transpose()
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	assert.Equal(t, a.At(0, 2), tr.At(2, 0))
	assert.Equal(t, a.At(1, 1), tr.At(1, 1))
}

func TestMatrixDet(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{1, 2, 3, 4})
	d, err := a.Det()
	require.NoError(t, err)
	assert.InDelta(t, -2.0, d, 1e-12)

	b := mustMatrix(t, 3, 3, []float64{2, 0, 0, 0, 3, 0, 0, 0, 4})
	d, err = b.Det()
	require.NoError(t, err)
	assert.InDelta(t, 24.0, d, 1e-12)
}

func TestMatrixDet_Singular(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{1, 2, 2, 4})
	d, err := a.Det()
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestMatrixDet_NotSquare(t *testing.T) {
	a := mustMatrix(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, err := a.Det()
	assert.ErrorIs(t, err, calcengine.ErrSquare)
}

func TestMatrixInverse(t *testing.T) {
	a := mustMatrix(t, 3, 3, []float64{4, 7, 2, 3, 6, 1, 2, 5, 3})
	inv, err := a.Inverse()
	require.NoError(t, err)
	prod, err := a.Mul(inv)
	require.NoError(t, err)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			assert.InDelta(t, want, prod.At(r, c), 1e-9)
		}
	}
}

func TestMatrixInverse_Singular(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{1, 2, 2, 4})
	_, err := a.Inverse()
	assert.ErrorIs(t, err, calcengine.ErrSingular)
}

func TestMatrixLU_Reconstructs(t *testing.T) {
	a := mustMatrix(t, 3, 3, []float64{2, 1, 1, 4, 3, 3, 8, 7, 9})
	p, l, u, err := a.LU()
	require.NoError(t, err)

	pa, err := p.Mul(a)
	require.NoError(t, err)
	lu, err := l.Mul(u)
	require.NoError(t, err)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, pa.At(r, c), lu.At(r, c), 1e-9)
		}
		assert.Equal(t, 1.0, l.At(r, r))
	}
}

func TestMatrixEigenvalues_Diagonal2x2(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{2, 0, 0, 3})
	eigs, err := a.Eigenvalues()
	require.NoError(t, err)
	require.Len(t, eigs, 2)
	got := []float64{real(eigs[0]), real(eigs[1])}
	sort.Float64s(got)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
}

func TestMatrixEigenvalues_ComplexPair(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{0, -1, 1, 0})
	eigs, err := a.Eigenvalues()
	require.NoError(t, err)
	require.Len(t, eigs, 2)
	assert.InDelta(t, 0.0, real(eigs[0]), 1e-9)
	assert.InDelta(t, 1.0, math.Abs(imag(eigs[0])), 1e-9)
	assert.InDelta(t, 1.0, math.Abs(imag(eigs[1])), 1e-9)
}

func TestMatrixEigenvalues_3x3(t *testing.T) {
	a := mustMatrix(t, 3, 3, []float64{
		6, 2, 1,
		2, 3, 1,
		1, 1, 1,
	})
	eigs, err := a.Eigenvalues()
	require.NoError(t, err)
	require.Len(t, eigs, 3)

	got := make([]float64, 3)
	var trace float64
	for i, ev := range eigs {
		assert.InDelta(t, 0.0, imag(ev), 1e-6)
		got[i] = real(ev)
		trace += real(ev)
	}
	// Eigenvalue sum equals the trace; product equals the determinant.
	assert.InDelta(t, 10.0, trace, 1e-6)
	det, err := a.Det()
	require.NoError(t, err)
	assert.InDelta(t, det, got[0]*got[1]*got[2], 1e-6)
}

func TestMatrixString(t *testing.T) {
	a := mustMatrix(t, 2, 2, []float64{1, 2.5, -3, 4})
	assert.Equal(t, "[[1, 2.5], [-3, 4]]", a.String())
}
