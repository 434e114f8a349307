package calcengine

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindReal Kind = iota
	KindComplex
	KindMatrix
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindComplex:
		return "complex"
	case KindMatrix:
		return "matrix"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression: a real number, a complex
// number, a matrix, or a pre-formatted display string for compound results
// such as eigenvalue lists. Values are immutable once constructed.
type Value struct {
	kind Kind
	re   float64
	c    complex128
	mat  *Matrix
	str  string
}

func Real(f float64) Value { return Value{kind: KindReal, re: f} }

func Complex(z complex128) Value {
	// A complex result with no imaginary part collapses to a real, so that
	// e.g. conj(complex(2,0)) and sqrt(4) print identically.
	if imag(z) == 0 {
		return Real(real(z))
	}
	return Value{kind: KindComplex, c: z}
}

func MatrixValue(m *Matrix) Value { return Value{kind: KindMatrix, mat: m} }

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsReal() bool    { return v.kind == KindReal }
func (v Value) IsComplex() bool { return v.kind == KindComplex }
func (v Value) IsMatrix() bool  { return v.kind == KindMatrix }

// Float64 returns the real payload. Valid only for KindReal.
func (v Value) Float64() float64 { return v.re }

// Complex128 returns the value as a complex number, promoting a real.
func (v Value) Complex128() complex128 {
	if v.kind == KindReal {
		return complex(v.re, 0)
	}
	return v.c
}

// Matrix returns the matrix payload. Valid only for KindMatrix.
func (v Value) Matrix() *Matrix { return v.mat }

// displayDigits is the fixed fractional precision applied at display time.
// Internal computation stays full double precision.
const displayDigits = 6

// Format renders the value for display.
func (v Value) Format() string {
	switch v.kind {
	case KindReal:
		return formatFloat(v.re)
	case KindComplex:
		return formatComplex(v.c)
	case KindMatrix:
		return v.mat.String()
	default:
		return v.str
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'f', displayDigits, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func formatComplex(z complex128) string {
	re := formatFloat(real(z))
	im := imag(z)
	if im < 0 {
		return re + " - " + formatFloat(-im) + "i"
	}
	return re + " + " + formatFloat(im) + "i"
}
