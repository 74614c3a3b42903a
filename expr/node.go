package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// Size is the (rows, columns) shape of an expression's value.
type Size struct {
	Rows int
	Cols int
}

// Scalar reports whether the size is 1×1.
func (s Size) Scalar() bool { return s.Rows == 1 && s.Cols == 1 }

// Len returns the vectorized length rows·cols.
func (s Size) Len() int { return s.Rows * s.Cols }

// String returns the size as "RxC".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

// Env binds variables to concrete values for evaluation, keyed by variable
// uid.
type Env map[string]*mat.Dense

// Bind assigns a value to a variable.
func (e Env) Bind(v *Variable, value *mat.Dense) {
	e[v.UID()] = value
}

// Node is the capability contract every expression type implements. Nodes
// are immutable after construction; all properties derive from construction
// arguments.
type Node interface {
	// ID returns the structural identity: a deterministic digest of the
	// operator tag and the children's identities.
	ID() identity.Digest
	// Size returns the shape of the node's value.
	Size() Size
	// Children returns the node's ordered children. Children are shared, not
	// owned; the same child may appear under multiple parents.
	Children() []Node
	// Sign returns the sign of the node's value.
	Sign() Sign
	// Monotonicity returns the node's per-argument monotonicities, computed
	// from the other operands' signs. Leaves report monotonicity with
	// respect to themselves.
	Monotonicity() []Monotonicity
	// Curvature returns the node's vexity under DCP composition.
	Curvature() Vexity
	// Evaluate returns the node's concrete value under env, independent of
	// the lowering path.
	Evaluate(env Env) (*mat.Dense, error)

	// lower produces the node's conic form. Called through Lower so results
	// are memoized by structural identity.
	lower(cache conicform.FormCache) (*operator.AffineMap, error)
}

// Lower converts a node into a sparse affine map over the stacked-unknowns
// vector, memoizing through the cache: for a given cache, nodes of equal
// structural identity lower at most once and resolve to the same map.
func Lower(n Node, cache conicform.FormCache) (*operator.AffineMap, error) {
	return cache.Resolve(n.ID(), func() (*operator.AffineMap, error) {
		return n.lower(cache)
	})
}

// constValue returns the concrete value of n when n is a compile-time
// constant, i.e. its curvature is ConstVexity. Constant subgraphs evaluate
// without an environment.
func constValue(n Node) (*mat.Dense, bool) {
	if n.Curvature() != ConstVexity {
		return nil, false
	}
	v, err := n.Evaluate(nil)
	if err != nil {
		return nil, false
	}
	return v, true
}
