package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
)

func TestMulConstruction(t *testing.T) {
	space := NewVarSpace()
	x23, err := space.NewVariable(2, 3)
	require.NoError(t, err)
	x31, err := space.NewVariable(3, 1)
	require.NoError(t, err)
	s, err := space.NewVariable(1, 1)
	require.NoError(t, err)

	t.Run("inner dimensions agree", func(t *testing.T) {
		m, err := Mul(x23, x31)
		require.NoError(t, err)
		assert.Equal(t, Size{2, 1}, m.Size())
	})

	t.Run("scalar broadcasts", func(t *testing.T) {
		m, err := Mul(s, x23)
		require.NoError(t, err)
		assert.Equal(t, Size{2, 3}, m.Size())

		m, err = Mul(x23, s)
		require.NoError(t, err)
		assert.Equal(t, Size{2, 3}, m.Size())
	})

	t.Run("dimension mismatch fails", func(t *testing.T) {
		a := MustC([][]float64{{1, 2, 3}, {4, 5, 6}}) // 2x3
		b, err := space.NewVariable(2, 2)
		require.NoError(t, err)
		_, err = Mul(a, b)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("children are ordered", func(t *testing.T) {
		m, err := Mul(x23, x31)
		require.NoError(t, err)
		children := m.Children()
		require.Len(t, children, 2)
		assert.Equal(t, x23.ID(), children[0].ID())
		assert.Equal(t, x31.ID(), children[1].ID())
	})
}

func TestMulEvaluate(t *testing.T) {
	t.Run("scalar constant scales", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(2, 2)
		require.NoError(t, err)
		m, err := Mul(Scalar(2.5), x)
		require.NoError(t, err)

		xval := mat.NewDense(2, 2, []float64{1, -2, 3, 4})
		env := Env{}
		env.Bind(x, xval)

		got, err := m.Evaluate(env)
		require.NoError(t, err)
		var want mat.Dense
		want.Scale(2.5, xval)
		requireMatEqual(t, &want, got)
	})

	t.Run("matrix product", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(3, 2)
		require.NoError(t, err)
		a := MustC([][]float64{{1, 0, 2}, {-1, 3, 1}}) // 2x3
		m, err := Mul(a, x)
		require.NoError(t, err)

		xval := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
		env := Env{}
		env.Bind(x, xval)

		got, err := m.Evaluate(env)
		require.NoError(t, err)
		var want mat.Dense
		want.Mul(a.Value(), xval)
		requireMatEqual(t, &want, got)
	})
}

func TestMulLowering(t *testing.T) {
	t.Run("left matrix multiply matches direct evaluation", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(3, 2)
		require.NoError(t, err)
		a := MustC([][]float64{{1, 0, 2}, {-1, 3, 1}}) // 2x3
		m, err := Mul(a, x)
		require.NoError(t, err)

		env := Env{}
		env.Bind(x, mat.NewDense(3, 2, []float64{1, -2, 0, 4, 5, 6}))

		want, err := m.Evaluate(env)
		require.NoError(t, err)
		requireMatEqual(t, want, applyLowered(t, space, m, env))
	})

	t.Run("right matrix multiply matches direct evaluation", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(2, 2)
		require.NoError(t, err)
		b := MustC([][]float64{{1, 2, 0}, {0, -1, 3}}) // 2x3
		m, err := Mul(x, b)
		require.NoError(t, err)
		assert.Equal(t, Size{2, 3}, m.Size())

		env := Env{}
		env.Bind(x, mat.NewDense(2, 2, []float64{1, 2, 3, 4}))

		want, err := m.Evaluate(env)
		require.NoError(t, err)
		requireMatEqual(t, want, applyLowered(t, space, m, env))
	})

	t.Run("scalar constant scales the operand map", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(2, 1)
		require.NoError(t, err)
		m, err := Mul(x, Scalar(-3))
		require.NoError(t, err)

		env := Env{}
		env.Bind(x, mat.NewDense(2, 1, []float64{1, 2}))

		got := applyLowered(t, space, m, env)
		requireMatEqual(t, mat.NewDense(2, 1, []float64{-3, -6}), got)
	})

	t.Run("matrix constant broadcasts a scalar expression", func(t *testing.T) {
		space := NewVarSpace()
		s, err := space.NewVariable(1, 1)
		require.NoError(t, err)
		c := MustC([][]float64{{2, 0}, {1, -1}})
		m, err := Mul(c, s)
		require.NoError(t, err)
		assert.Equal(t, Size{2, 2}, m.Size())

		env := Env{}
		env.Bind(s, mat.NewDense(1, 1, []float64{3}))

		want, err := m.Evaluate(env)
		require.NoError(t, err)
		requireMatEqual(t, want, applyLowered(t, space, m, env))
	})

	t.Run("nested constant expressions lower through evaluation", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(2, 1)
		require.NoError(t, err)
		// (2*3) * x: the constant side is a composite, not a literal.
		c, err := Mul(Scalar(2), Scalar(3))
		require.NoError(t, err)
		m, err := Mul(c, x)
		require.NoError(t, err)

		env := Env{}
		env.Bind(x, mat.NewDense(2, 1, []float64{1, -1}))

		got := applyLowered(t, space, m, env)
		requireMatEqual(t, mat.NewDense(2, 1, []float64{6, -6}), got)
	})

	t.Run("two non-constant operands fail defensively", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(1, 1)
		require.NoError(t, err)
		y, err := space.NewVariable(1, 1)
		require.NoError(t, err)
		m, err := Mul(x, y)
		require.NoError(t, err)

		_, err = Lower(m, conicform.NewCache(space.Size()))
		assert.ErrorIs(t, err, ErrNotDcp)
	})

	t.Run("self multiply does not lower through the product rule", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(1, 1)
		require.NoError(t, err)
		m, err := Mul(x, x)
		require.NoError(t, err)
		require.Equal(t, ConvexVexity, m.Curvature())

		_, err = Lower(m, conicform.NewCache(space.Size()))
		assert.ErrorIs(t, err, ErrNotDcp)
	})
}

func TestNeg(t *testing.T) {
	space := NewVarSpace()
	x, err := space.NewVariable(2, 1)
	require.NoError(t, err)
	n := Neg(x)

	env := Env{}
	env.Bind(x, mat.NewDense(2, 1, []float64{1, -4}))

	got, err := n.Evaluate(env)
	require.NoError(t, err)
	requireMatEqual(t, mat.NewDense(2, 1, []float64{-1, 4}), got)
	requireMatEqual(t, got, applyLowered(t, space, n, env))
}
