package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Div creates the quotient x ÷ c of an expression by a compile-time
// constant, implemented as multiplication by the constant's elementwise
// reciprocal. Division by a non-constant expression is never defined.
//
// A divisor containing zero entries is not guarded by default: the
// reciprocal's non-finite entries propagate into the lowered operator and
// into evaluation. Enabling strict division (STRICT_DIVISION or
// SetStrictDivision) rejects such divisors instead.
func Div(x, c Node) (Node, error) {
	cval, ok := constValue(c)
	if !ok {
		return nil, fmt.Errorf("divide: %w: divisor must be a compile-time constant", ErrNotDcp)
	}
	if strictDivision() && hasZero(cval) {
		return nil, fmt.Errorf("divide: %w", ErrZeroDivisor)
	}
	var recip mat.Dense
	recip.Apply(func(_, _ int, v float64) float64 { return 1 / v }, cval)

	r, col := recip.Dims()
	if r == 1 && col == 1 {
		return Mul(NewConstant(&recip), x)
	}
	return DotMul(NewConstant(&recip), x)
}

func hasZero(d *mat.Dense) bool {
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if d.At(i, j) == 0 {
				return true
			}
		}
	}
	return false
}
