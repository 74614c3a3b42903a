package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignMul(t *testing.T) {
	cases := []struct {
		a, b, want Sign
	}{
		{Positive, Positive, Positive},
		{Positive, Negative, Negative},
		{Negative, Positive, Negative},
		{Negative, Negative, Positive},
		{Positive, ZeroSign, ZeroSign},
		{NoSign, ZeroSign, ZeroSign},
		{Positive, NoSign, NoSign},
		{Negative, NoSign, NoSign},
		{NoSign, NoSign, NoSign},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.a.Mul(c.b), "%s * %s", c.a, c.b)
	}
}

func TestProductSign(t *testing.T) {
	space := NewVarSpace()
	x, err := space.NewVariable(1, 1)
	require.NoError(t, err)

	t.Run("constant times unknown is indeterminate", func(t *testing.T) {
		m, err := Mul(Scalar(2), x)
		require.NoError(t, err)
		assert.Equal(t, NoSign, m.Sign())
	})

	t.Run("zero constant absorbs", func(t *testing.T) {
		m, err := Mul(Scalar(0), x)
		require.NoError(t, err)
		assert.Equal(t, ZeroSign, m.Sign())
	})

	t.Run("scalar square is positive", func(t *testing.T) {
		m, err := Mul(x, x)
		require.NoError(t, err)
		assert.Equal(t, Positive, m.Sign())
	})

	t.Run("matrix self product is indeterminate", func(t *testing.T) {
		// X=[[0,1],[-1,0]] gives X·X=-I: entries of a matrix self-product
		// can be negative.
		space := NewVarSpace()
		bigX, err := space.NewVariable(2, 2)
		require.NoError(t, err)
		m, err := Mul(bigX, bigX)
		require.NoError(t, err)
		assert.Equal(t, NoSign, m.Sign())
	})
}

func TestProductMonotonicity(t *testing.T) {
	space := NewVarSpace()
	x, err := space.NewVariable(1, 1)
	require.NoError(t, err)

	t.Run("positive other operand is nondecreasing", func(t *testing.T) {
		m, err := Mul(x, Scalar(3))
		require.NoError(t, err)
		assert.Equal(t, []Monotonicity{Nondecreasing, AnyMonotonicity}, m.Monotonicity())
	})

	t.Run("negative other operand is nonincreasing", func(t *testing.T) {
		m, err := Mul(x, Scalar(-3))
		require.NoError(t, err)
		assert.Equal(t, []Monotonicity{Nonincreasing, AnyMonotonicity}, m.Monotonicity())
	})

	t.Run("indeterminate other operand is any", func(t *testing.T) {
		space := NewVarSpace()
		y, err := space.NewVariable(1, 1)
		require.NoError(t, err)
		m, err := Mul(x, y)
		require.NoError(t, err)
		assert.Equal(t, []Monotonicity{AnyMonotonicity, AnyMonotonicity}, m.Monotonicity())
	})
}

func TestProductCurvature(t *testing.T) {
	space := NewVarSpace()
	x, err := space.NewVariable(1, 1)
	require.NoError(t, err)
	y, err := space.NewVariable(1, 1)
	require.NoError(t, err)

	t.Run("two unknowns are not dcp", func(t *testing.T) {
		m, err := Mul(x, y)
		require.NoError(t, err)
		assert.Equal(t, NotDcp, m.Curvature())
	})

	t.Run("self multiply routes to the squaring rule", func(t *testing.T) {
		m, err := Mul(x, x)
		require.NoError(t, err)
		assert.Equal(t, ConvexVexity, m.Curvature())
	})

	t.Run("constant side collapses to constant vexity", func(t *testing.T) {
		m, err := Mul(Scalar(2), x)
		require.NoError(t, err)
		assert.Equal(t, ConstVexity, m.Curvature())
	})

	t.Run("two constants are constant", func(t *testing.T) {
		m, err := Mul(Scalar(2), Scalar(3))
		require.NoError(t, err)
		assert.Equal(t, ConstVexity, m.Curvature())
	})

	t.Run("not dcp propagates without fault", func(t *testing.T) {
		inner, err := Mul(x, y)
		require.NoError(t, err)
		outer, err := Mul(Scalar(2), inner)
		require.NoError(t, err)
		// Queryable all the way up; the consumer decides how to react.
		assert.Equal(t, ConstVexity, outer.Curvature())
		assert.Equal(t, NotDcp, inner.Curvature())
	})
}

func TestLeafProperties(t *testing.T) {
	t.Run("variable", func(t *testing.T) {
		space := NewVarSpace()
		x, err := space.NewVariable(2, 3)
		require.NoError(t, err)
		assert.Equal(t, AffineVexity, x.Curvature())
		assert.Equal(t, NoSign, x.Sign())
		assert.Equal(t, []Monotonicity{Nondecreasing}, x.Monotonicity())
		assert.Nil(t, x.Children())
	})

	t.Run("constant sign", func(t *testing.T) {
		assert.Equal(t, Positive, MustC([][]float64{{1, 0}, {2, 3}}).Sign())
		assert.Equal(t, Negative, MustC([][]float64{{-1, 0}, {-2, -3}}).Sign())
		assert.Equal(t, ZeroSign, MustC([][]float64{{0, 0}}).Sign())
		assert.Equal(t, NoSign, MustC([][]float64{{-1, 2}}).Sign())
		assert.Equal(t, ConstVexity, Scalar(5).Curvature())
	})
}
