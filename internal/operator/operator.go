// Package operator implements sparse affine maps over the stacked-unknowns
// vector, the output form of expression lowering.
//
// An AffineMap represents y = A·x + b where x is the stacked vector of all
// problem unknowns, A is a sparse matrix and b a dense offset. Matrices are
// flattened column-major (vec), so matrix multiplication by a constant becomes
// a Kronecker-product premultiplication of the operand's map:
//
//	vec(C·X) = (I ⊗ C)·vec(X)
//	vec(X·C) = (Cᵗ ⊗ I)·vec(X)
//
// The problem-assembly layer stacks the per-node maps into the solver's
// objective and constraint matrices.
package operator

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// AffineMap is a sparse affine map from the stacked-unknowns vector to a
// node's vectorized value.
type AffineMap struct {
	a   *sparse.CSR
	b   *mat.VecDense
	out int
	in  int
}

// New creates an affine map from a sparse matrix and a dense offset. The
// offset may be nil, meaning zero.
func New(a *sparse.CSR, b *mat.VecDense) (*AffineMap, error) {
	out, in := a.Dims()
	if b == nil {
		b = mat.NewVecDense(out, nil)
	}
	if b.Len() != out {
		return nil, fmt.Errorf("operator: offset length %d does not match output dimension %d", b.Len(), out)
	}
	return &AffineMap{a: a, b: b, out: out, in: in}, nil
}

// Zero creates the zero map of the given shape.
func Zero(out, in int) *AffineMap {
	return &AffineMap{
		a:   emptyCSR(out, in),
		b:   mat.NewVecDense(out, nil),
		out: out,
		in:  in,
	}
}

// FromConst creates the map of a constant value: zero sensitivity to the
// unknowns and the value itself as offset.
func FromConst(v []float64, in int) *AffineMap {
	out := len(v)
	b := mat.NewVecDense(out, nil)
	for i, x := range v {
		b.SetVec(i, x)
	}
	return &AffineMap{a: emptyCSR(out, in), b: b, out: out, in: in}
}

// Selector creates the map of a variable occupying [offset, offset+out) of
// the stacked vector: an identity block at that range, zero offset.
func Selector(out, in, offset int) (*AffineMap, error) {
	if offset < 0 || offset+out > in {
		return nil, fmt.Errorf("operator: selector range [%d,%d) exceeds input dimension %d", offset, offset+out, in)
	}
	rows := make([]int, out)
	cols := make([]int, out)
	data := make([]float64, out)
	for i := 0; i < out; i++ {
		rows[i] = i
		cols[i] = offset + i
		data[i] = 1
	}
	return &AffineMap{
		a:   sparse.NewCOO(out, in, rows, cols, data).ToCSR(),
		b:   mat.NewVecDense(out, nil),
		out: out,
		in:  in,
	}, nil
}

// Dims returns the (output, input) dimensions of the map.
func (m *AffineMap) Dims() (out, in int) { return m.out, m.in }

// Matrix returns the sparse sensitivity matrix A.
func (m *AffineMap) Matrix() *sparse.CSR { return m.a }

// Offset returns the constant offset b.
func (m *AffineMap) Offset() *mat.VecDense { return m.b }

// Scale returns s·A, s·b as a new map.
func (m *AffineMap) Scale(s float64) *AffineMap {
	var rows, cols []int
	var data []float64
	m.a.DoNonZero(func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		data = append(data, s*v)
	})
	b := mat.NewVecDense(m.out, nil)
	b.ScaleVec(s, m.b)
	return &AffineMap{
		a:   sparse.NewCOO(m.out, m.in, rows, cols, data).ToCSR(),
		b:   b,
		out: m.out,
		in:  m.in,
	}
}

// MulLeft returns l·A, l·b as a new map. The left matrix's column count must
// equal the map's output dimension.
func (m *AffineMap) MulLeft(l *sparse.CSR) (*AffineMap, error) {
	lr, lc := l.Dims()
	if lc != m.out {
		return nil, fmt.Errorf("operator: cannot premultiply %dx%d map by %dx%d matrix", m.out, m.in, lr, lc)
	}
	var a sparse.CSR
	a.Mul(l, m.a)

	b := mat.NewVecDense(lr, nil)
	l.DoNonZero(func(i, j int, v float64) {
		b.SetVec(i, b.AtVec(i)+v*m.b.AtVec(j))
	})
	return New(&a, b)
}

// BroadcastRow expands a single-row map into len(weights) rows, each equal to
// the original row scaled by the corresponding weight. This is the lowering of
// a non-scalar constant times a scalar expression.
func (m *AffineMap) BroadcastRow(weights []float64) (*AffineMap, error) {
	if m.out != 1 {
		return nil, fmt.Errorf("operator: broadcast requires a scalar map, have output dimension %d", m.out)
	}
	out := len(weights)
	var rows, cols []int
	var data []float64
	m.a.DoNonZero(func(_, j int, v float64) {
		for i, w := range weights {
			rows = append(rows, i)
			cols = append(cols, j)
			data = append(data, w*v)
		}
	})
	b := mat.NewVecDense(out, nil)
	for i, w := range weights {
		b.SetVec(i, w*m.b.AtVec(0))
	}
	return New(sparse.NewCOO(out, m.in, rows, cols, data).ToCSR(), b)
}

// Apply evaluates the map against a concrete stacked-unknowns vector.
func (m *AffineMap) Apply(x *mat.VecDense) (*mat.VecDense, error) {
	if x.Len() != m.in {
		return nil, fmt.Errorf("operator: input length %d does not match input dimension %d", x.Len(), m.in)
	}
	y := mat.NewVecDense(m.out, nil)
	y.CopyVec(m.b)
	m.a.DoNonZero(func(i, j int, v float64) {
		y.SetVec(i, y.AtVec(i)+v*x.AtVec(j))
	})
	return y, nil
}

func emptyCSR(r, c int) *sparse.CSR {
	return sparse.NewCOO(r, c, nil, nil, nil).ToCSR()
}
