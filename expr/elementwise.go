package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// DotMulExpr is the elementwise product of a constant and an expression of
// identical size, in that canonical order. DotMul normalizes operand order;
// a 1×1 operand on either side collapses to ordinary scalar multiply before
// this type is ever constructed.
type DotMulExpr struct {
	coeff *Constant
	arg   Node
	size  Size
	id    identity.Digest
}

// DotMul creates the elementwise product a ⊙ b. One operand must be a
// compile-time constant and both must have identical sizes.
func DotMul(a, b Node) (Node, error) {
	if a.Size().Scalar() || b.Size().Scalar() {
		return Mul(a, b)
	}
	if a.Size() != b.Size() {
		return nil, fmt.Errorf("dotmultiply: %w: cannot elementwise-multiply %s by %s",
			ErrDimensionMismatch, a.Size(), b.Size())
	}
	cval, ok := constValue(a)
	arg := b
	if !ok {
		cval, ok = constValue(b)
		arg = a
		if !ok {
			return nil, fmt.Errorf("dotmultiply: %w: elementwise multiply requires a constant operand", ErrNotDcp)
		}
	}
	coeff := NewConstant(cval)
	return &DotMulExpr{
		coeff: coeff,
		arg:   arg,
		size:  arg.Size(),
		id:    identity.Compose("dotmultiply", coeff.ID(), arg.ID()),
	}, nil
}

// ID returns the structural identity.
func (m *DotMulExpr) ID() identity.Digest { return m.id }

// Size returns the product's shape.
func (m *DotMulExpr) Size() Size { return m.size }

// Children returns the canonical (constant, expression) operands.
func (m *DotMulExpr) Children() []Node { return []Node{m.coeff, m.arg} }

// Sign composes the operand signs.
func (m *DotMulExpr) Sign() Sign {
	return m.coeff.Sign().Mul(m.arg.Sign())
}

// Monotonicity derives each argument's monotonicity from the other
// operand's sign.
func (m *DotMulExpr) Monotonicity() []Monotonicity {
	return []Monotonicity{
		monotonicityFromSign(m.arg.Sign()),
		monotonicityFromSign(m.coeff.Sign()),
	}
}

// Curvature returns AffineVexity: multiplying elementwise by a fixed
// constant preserves affine-or-trivial status, like matrix multiplication
// by a fixed matrix. DCP compliance is checked before lowering, not here.
func (m *DotMulExpr) Curvature() Vexity { return AffineVexity }

// Evaluate computes the concrete elementwise product under env.
func (m *DotMulExpr) Evaluate(env Env) (*mat.Dense, error) {
	v, err := m.arg.Evaluate(env)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.MulElem(m.coeff.value, v)
	return &out, nil
}

// lower premultiplies the expression's map by the diagonal of the
// constant's flattened entries, in the same flattening order as the
// expression operand.
func (m *DotMulExpr) lower(cache conicform.FormCache) (*operator.AffineMap, error) {
	f, err := Lower(m.arg, cache)
	if err != nil {
		return nil, err
	}
	return f.MulLeft(operator.Diagonal(operator.Vec(m.coeff.value)))
}
