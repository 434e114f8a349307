package calcengine

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrShape    = errors.New("matrix shape mismatch")
	ErrSingular = errors.New("singular matrix")
	ErrSquare   = errors.New("square matrix required")
)

// Matrix is a dense row-major matrix of float64 entries.
type Matrix struct {
	rows, cols int
	data       []float64
}

func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid matrix shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix data length %d does not match %dx%d", len(data), rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

func zeroMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(r, c int) float64 { return m.data[r*m.cols+c] }

func (m *Matrix) set(r, c int, v float64) { m.data[r*m.cols+c] = v }

func (m *Matrix) IsSquare() bool { return m.rows == m.cols }

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatFloat(m.At(r, c)))
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, ErrShape
	}
	out := zeroMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + o.data[i]
	}
	return out, nil
}

func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, ErrShape
	}
	out := zeroMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - o.data[i]
	}
	return out, nil
}

func (m *Matrix) Scale(k float64) *Matrix {
	out := zeroMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] * k
	}
	return out
}

func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, ErrShape
	}
	out := zeroMatrix(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			aik := m.data[i*m.cols+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < o.cols; j++ {
				out.data[i*o.cols+j] += aik * o.data[k*o.cols+j]
			}
		}
	}
	return out, nil
}

func (m *Matrix) Transpose() *Matrix {
	out := zeroMatrix(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.data[c*m.rows+r] = m.data[r*m.cols+c]
		}
	}
	return out
}

// Det computes the determinant via LU decomposition with partial pivoting.
func (m *Matrix) Det() (float64, error) {
	if !m.IsSquare() {
		return 0, ErrSquare
	}
	n := m.rows
	a := append([]float64(nil), m.data...)
	sign := 1.0
	for k := 0; k < n; k++ {
		pivot := k
		maxAbs := math.Abs(a[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i*n+k]); v > maxAbs {
				maxAbs = v
				pivot = i
			}
		}
		if maxAbs == 0 {
			return 0, nil
		}
		if pivot != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[pivot*n+j] = a[pivot*n+j], a[k*n+j]
			}
			sign = -sign
		}
		p := a[k*n+k]
		for i := k + 1; i < n; i++ {
			f := a[i*n+k] / p
			a[i*n+k] = f
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= f * a[k*n+j]
			}
		}
	}
	det := sign
	for i := 0; i < n; i++ {
		det *= a[i*n+i]
	}
	return det, nil
}

// Inverse computes the inverse via Gauss-Jordan elimination on [A | I].
func (m *Matrix) Inverse() (*Matrix, error) {
	if !m.IsSquare() {
		return nil, ErrSquare
	}
	n := m.rows
	w := 2 * n
	aug := make([]float64, n*w)
	for r := 0; r < n; r++ {
		copy(aug[r*w:r*w+n], m.data[r*n:(r+1)*n])
		aug[r*w+n+r] = 1
	}
	for col := 0; col < n; col++ {
		pivot := col
		maxAbs := math.Abs(aug[col*w+col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r*w+col]); v > maxAbs {
				maxAbs = v
				pivot = r
			}
		}
		if maxAbs == 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			for j := 0; j < w; j++ {
				aug[col*w+j], aug[pivot*w+j] = aug[pivot*w+j], aug[col*w+j]
			}
		}
		invP := 1 / aug[col*w+col]
		for j := 0; j < w; j++ {
			aug[col*w+j] *= invP
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r*w+col]
			if f == 0 {
				continue
			}
			for j := 0; j < w; j++ {
				aug[r*w+j] -= f * aug[col*w+j]
			}
		}
	}
	out := zeroMatrix(n, n)
	for r := 0; r < n; r++ {
		copy(out.data[r*n:(r+1)*n], aug[r*w+n:r*w+w])
	}
	return out, nil
}

// LU performs Doolittle decomposition with partial pivoting: P*A = L*U.
// L has a unit diagonal; P is returned as a permutation matrix.
func (m *Matrix) LU() (p, l, u *Matrix, err error) {
	if !m.IsSquare() {
		return nil, nil, nil, ErrSquare
	}
	n := m.rows
	a := append([]float64(nil), m.data...)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for k := 0; k < n; k++ {
		pivot := k
		maxAbs := math.Abs(a[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i*n+k]); v > maxAbs {
				maxAbs = v
				pivot = i
			}
		}
		if maxAbs == 0 {
			return nil, nil, nil, ErrSingular
		}
		if pivot != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[pivot*n+j] = a[pivot*n+j], a[k*n+j]
			}
			perm[k], perm[pivot] = perm[pivot], perm[k]
		}
		pv := a[k*n+k]
		for i := k + 1; i < n; i++ {
			f := a[i*n+k] / pv
			a[i*n+k] = f
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= f * a[k*n+j]
			}
		}
	}
	p = zeroMatrix(n, n)
	l = zeroMatrix(n, n)
	u = zeroMatrix(n, n)
	for i := 0; i < n; i++ {
		p.set(i, perm[i], 1)
		l.set(i, i, 1)
		for j := 0; j < n; j++ {
			if j < i {
				l.set(i, j, a[i*n+j])
			} else {
				u.set(i, j, a[i*n+j])
			}
		}
	}
	return p, l, u, nil
}

// Eigenvalues computes all eigenvalues of a square matrix. 2x2 matrices use
// the characteristic quadratic directly; larger matrices run unshifted QR
// iteration and read eigenvalues from the 1x1/2x2 diagonal blocks of the
// quasi-triangular limit, so complex-conjugate pairs are preserved.
func (m *Matrix) Eigenvalues() ([]complex128, error) {
	if !m.IsSquare() {
		return nil, ErrSquare
	}
	n := m.rows
	switch n {
	case 1:
		return []complex128{complex(m.data[0], 0)}, nil
	case 2:
		return eig2x2(m.data[0], m.data[1], m.data[2], m.data[3]), nil
	}

	a := &Matrix{rows: n, cols: n, data: append([]float64(nil), m.data...)}
	const maxSweeps = 500
	for sweep := 0; sweep < maxSweeps; sweep++ {
		q, r, err := a.qr()
		if err != nil {
			return nil, err
		}
		a, err = r.Mul(q)
		if err != nil {
			return nil, err
		}
		if a.subdiagonalSettled() {
			break
		}
	}

	out := make([]complex128, 0, n)
	norm := a.maxAbs()
	tol := 1e-9 * (1 + norm)
	for i := 0; i < n; {
		if i == n-1 || math.Abs(a.At(i+1, i)) <= tol {
			out = append(out, complex(a.At(i, i), 0))
			i++
			continue
		}
		out = append(out, eig2x2(a.At(i, i), a.At(i, i+1), a.At(i+1, i), a.At(i+1, i+1))...)
		i += 2
	}
	return out, nil
}

func eig2x2(a, b, c, d float64) []complex128 {
	tr := a + d
	det := a*d - b*c
	disc := tr*tr - 4*det
	if disc >= 0 {
		s := math.Sqrt(disc)
		return []complex128{complex((tr+s)/2, 0), complex((tr-s)/2, 0)}
	}
	s := math.Sqrt(-disc) / 2
	return []complex128{complex(tr/2, s), complex(tr/2, -s)}
}

// qr factors m = Q*R by modified Gram-Schmidt.
func (m *Matrix) qr() (q, r *Matrix, err error) {
	if !m.IsSquare() {
		return nil, nil, ErrSquare
	}
	n := m.rows
	q = zeroMatrix(n, n)
	r = zeroMatrix(n, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = m.At(i, j)
		}
		for k := 0; k < j; k++ {
			var dot float64
			for i := 0; i < n; i++ {
				dot += q.At(i, k) * col[i]
			}
			r.set(k, j, dot)
			for i := 0; i < n; i++ {
				col[i] -= dot * q.At(i, k)
			}
		}
		var norm float64
		for i := 0; i < n; i++ {
			norm += col[i] * col[i]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			// Rank-deficient column: pick the unit vector to keep Q orthonormal.
			col[j] = 1
			norm = 1
		}
		r.set(j, j, norm)
		for i := 0; i < n; i++ {
			q.set(i, j, col[i]/norm)
		}
	}
	return q, r, nil
}

func (m *Matrix) subdiagonalSettled() bool {
	tol := 1e-12 * (1 + m.maxAbs())
	for i := 2; i < m.rows; i++ {
		for j := 0; j <= i-2; j++ {
			if math.Abs(m.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) maxAbs() float64 {
	var out float64
	for _, v := range m.data {
		if a := math.Abs(v); a > out {
			out = a
		}
	}
	return out
}
