package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/id"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// VarSpace is the registry of a model's optimization variables. It assigns
// every variable a stable offset range inside the single stacked vector of
// problem unknowns; lowered operators are expressed against that vector.
type VarSpace struct {
	total int
	vars  []*Variable
}

// NewVarSpace creates an empty variable space.
func NewVarSpace() *VarSpace { return &VarSpace{} }

// Size returns the total count of stacked unknowns.
func (s *VarSpace) Size() int { return s.total }

// Variables returns the registered variables in creation order.
func (s *VarSpace) Variables() []*Variable {
	return append([]*Variable(nil), s.vars...)
}

// NewVariable registers a rows×cols variable and assigns its offset range.
func (s *VarSpace) NewVariable(rows, cols int) (*Variable, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("variable: %w: invalid size %dx%d", ErrDimensionMismatch, rows, cols)
	}
	uid := id.NewVariableID()
	v := &Variable{
		uid:    uid,
		size:   Size{Rows: rows, Cols: cols},
		offset: s.total,
		id:     identity.Leaf("variable", []byte(uid)),
	}
	s.vars = append(s.vars, v)
	s.total += rows * cols
	return v, nil
}

// Stacked assembles the concrete stacked-unknowns vector from an
// environment binding every registered variable.
func (s *VarSpace) Stacked(env Env) (*mat.VecDense, error) {
	if s.total == 0 {
		return nil, fmt.Errorf("varspace: no variables registered")
	}
	x := mat.NewVecDense(s.total, nil)
	for _, v := range s.vars {
		val, ok := env[v.uid]
		if !ok {
			return nil, fmt.Errorf("varspace: %w: %s", ErrUnboundVariable, v.uid)
		}
		r, c := val.Dims()
		if r != v.size.Rows || c != v.size.Cols {
			return nil, fmt.Errorf("varspace: %w: %s bound to %dx%d, declared %s",
				ErrDimensionMismatch, v.uid, r, c, v.size)
		}
		for i, f := range operator.Vec(val) {
			x.SetVec(v.offset+i, f)
		}
	}
	return x, nil
}

// Variable is a terminal node owning a position range in the stacked
// unknowns vector. Identity derives from the variable's uid, so only
// literal sharing of the same instance deduplicates.
type Variable struct {
	uid    string
	size   Size
	offset int
	id     identity.Digest
}

// UID returns the variable's unique id (var_*).
func (v *Variable) UID() string { return v.uid }

// Offset returns the variable's start position in the stacked vector.
func (v *Variable) Offset() int { return v.offset }

// ID returns the structural identity.
func (v *Variable) ID() identity.Digest { return v.id }

// Size returns the variable's shape.
func (v *Variable) Size() Size { return v.size }

// Children returns nil; variables are terminal.
func (v *Variable) Children() []Node { return nil }

// Sign returns NoSign; an unknown takes any value.
func (v *Variable) Sign() Sign { return NoSign }

// Monotonicity returns the variable's monotonicity with respect to itself.
func (v *Variable) Monotonicity() []Monotonicity { return []Monotonicity{Nondecreasing} }

// Curvature returns AffineVexity.
func (v *Variable) Curvature() Vexity { return AffineVexity }

// Evaluate returns the value bound to the variable in env.
func (v *Variable) Evaluate(env Env) (*mat.Dense, error) {
	val, ok := env[v.uid]
	if !ok {
		return nil, fmt.Errorf("variable %s: %w", v.uid, ErrUnboundVariable)
	}
	r, c := val.Dims()
	if r != v.size.Rows || c != v.size.Cols {
		return nil, fmt.Errorf("variable %s: %w: bound to %dx%d, declared %s",
			v.uid, ErrDimensionMismatch, r, c, v.size)
	}
	return mat.DenseCopyOf(val), nil
}

func (v *Variable) lower(cache conicform.FormCache) (*operator.AffineMap, error) {
	return operator.Selector(v.size.Len(), cache.InputDim(), v.offset)
}
