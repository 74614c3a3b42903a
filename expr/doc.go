// Package expr implements the expression-graph core of a disciplined convex
// programming (DCP) modeling layer.
//
// Expressions are immutable nodes: leaves (Constant, Variable) and atoms
// combining children. Children are shared rather than owned, so a graph is a
// DAG; a subexpression referenced by several parents exists once. Every node
// carries a structural identity derived from its operator tag and its
// children's identities, computed at construction. Identity is the key for
// equality, for the lowering cache, and for self-reference detection (x*x
// routes to the squaring rule rather than the generic product rule).
//
// Each node exposes the DCP composition properties — Sign, Monotonicity and
// Curvature — plus numeric Evaluate and lowering into a sparse affine map
// over the stacked-unknowns vector. Curvature violations are reported as the
// NotDcp value, not as faults: composite expressions stay queryable and the
// modeling layer decides whether NotDcp is fatal. Dimension mismatches, in
// contrast, fail at construction and abort the compile pass.
//
// Lowering is memoized through a conicform cache so shared subexpressions
// lower exactly once per pass:
//
//	space := expr.NewVarSpace()
//	x, _ := space.NewVariable(2, 1)
//	e, _ := expr.DotMul(expr.MustC([][]float64{{2}, {3}}), x)
//	cache := conicform.NewCache(space.Size())
//	form, _ := expr.Lower(e, cache)
package expr
