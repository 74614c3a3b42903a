package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// MulExpr is the scalar-or-matrix product of two expressions. Size is
// inferred at construction: a 1×1 operand broadcasts against the other
// operand's size, otherwise the inner dimensions must agree.
type MulExpr struct {
	left   Node
	right  Node
	size   Size
	square bool // operands share a structural identity (x*x)
	id     identity.Digest
}

// Mul creates the product a·b.
func Mul(a, b Node) (*MulExpr, error) {
	as, bs := a.Size(), b.Size()
	var size Size
	switch {
	case as.Scalar():
		size = bs
	case bs.Scalar():
		size = as
	case as.Cols == bs.Rows:
		size = Size{Rows: as.Rows, Cols: bs.Cols}
	default:
		return nil, fmt.Errorf("multiply: %w: cannot multiply %s by %s", ErrDimensionMismatch, as, bs)
	}
	return &MulExpr{
		left:   a,
		right:  b,
		size:   size,
		square: a.ID() == b.ID(),
		id:     identity.Compose("multiply", a.ID(), b.ID()),
	}, nil
}

// Neg creates the negation −a.
func Neg(a Node) *MulExpr {
	m, _ := Mul(Scalar(-1), a) // 1×1 broadcast never mismatches
	return m
}

// ID returns the structural identity.
func (m *MulExpr) ID() identity.Digest { return m.id }

// Size returns the product's shape.
func (m *MulExpr) Size() Size { return m.size }

// Children returns the ordered operands.
func (m *MulExpr) Children() []Node { return []Node{m.left, m.right} }

// Sign composes the operand signs. A scalar square is positive; matrix
// self-products carry no such refinement (X·X can have negative entries)
// and follow the product table.
func (m *MulExpr) Sign() Sign {
	if m.square && m.size.Scalar() {
		return Positive
	}
	return m.left.Sign().Mul(m.right.Sign())
}

// Monotonicity derives each argument's monotonicity from the other
// operand's sign.
func (m *MulExpr) Monotonicity() []Monotonicity {
	return []Monotonicity{
		monotonicityFromSign(m.right.Sign()),
		monotonicityFromSign(m.left.Sign()),
	}
}

// Curvature applies the product rule: a product is only DCP-compliant when
// one operand is a compile-time constant, except for self-multiplication,
// which routes to the squaring rule.
func (m *MulExpr) Curvature() Vexity {
	lv, rv := m.left.Curvature(), m.right.Curvature()
	if lv == ConstVexity && rv == ConstVexity {
		return ConstVexity
	}
	if m.square {
		// Squaring rule: the square of an affine expression is convex.
		if lv == AffineVexity {
			return ConvexVexity
		}
		return NotDcp
	}
	if lv == ConstVexity || rv == ConstVexity {
		// A product with one constant side is treated as constant for
		// composition purposes.
		return ConstVexity
	}
	return NotDcp
}

// Evaluate computes the concrete product under env.
func (m *MulExpr) Evaluate(env Env) (*mat.Dense, error) {
	l, err := m.left.Evaluate(env)
	if err != nil {
		return nil, err
	}
	r, err := m.right.Evaluate(env)
	if err != nil {
		return nil, err
	}
	lr, lc := l.Dims()
	rr, rc := r.Dims()
	var out mat.Dense
	switch {
	case lr == 1 && lc == 1:
		out.Scale(l.At(0, 0), r)
	case rr == 1 && rc == 1:
		out.Scale(r.At(0, 0), l)
	default:
		out.Mul(l, r)
	}
	return &out, nil
}

func (m *MulExpr) lower(cache conicform.FormCache) (*operator.AffineMap, error) {
	lval, lconst := constValue(m.left)
	rval, rconst := constValue(m.right)

	// Scalar broadcast: either operand is 1×1.
	if m.left.Size().Scalar() || m.right.Size().Scalar() {
		var cval *mat.Dense
		var other Node
		switch {
		case lconst:
			cval, other = lval, m.right
		case rconst:
			cval, other = rval, m.left
		default:
			return nil, fmt.Errorf("multiply: %w: product of two non-constant expressions cannot be lowered", ErrNotDcp)
		}
		f, err := Lower(other, cache)
		if err != nil {
			return nil, err
		}
		cr, cc := cval.Dims()
		if cr == 1 && cc == 1 {
			return f.Scale(cval.At(0, 0)), nil
		}
		// Non-scalar constant times scalar expression: broadcast the
		// expression's single-row sensitivity across the constant's
		// flattened entries.
		return f.BroadcastRow(operator.Vec(cval))
	}

	// Constant on the left: vec(A·X) = (I_cols(X) ⊗ A)·vec(X).
	if lconst {
		f, err := Lower(m.right, cache)
		if err != nil {
			return nil, err
		}
		return f.MulLeft(operator.KronEyeLeft(m.size.Cols, lval))
	}

	// Constant on the right: vec(X·B) = (Bᵗ ⊗ I_rows(X))·vec(X).
	if rconst {
		f, err := Lower(m.left, cache)
		if err != nil {
			return nil, err
		}
		return f.MulLeft(operator.KronEyeRight(rval.T(), m.size.Rows))
	}

	return nil, fmt.Errorf("multiply: %w: product of two non-constant expressions cannot be lowered", ErrNotDcp)
}
