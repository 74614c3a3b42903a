package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// applyLowered lowers n with a fresh cache and applies the resulting map to
// the stacked vector built from env, reshaping the output to n's size.
func applyLowered(t *testing.T, s *VarSpace, n Node, env Env) *mat.Dense {
	t.Helper()
	cache := conicform.NewCache(s.Size())
	f, err := Lower(n, cache)
	require.NoError(t, err)

	x, err := s.Stacked(env)
	require.NoError(t, err)
	y, err := f.Apply(x)
	require.NoError(t, err)

	size := n.Size()
	out := mat.NewDense(size.Rows, size.Cols, nil)
	for k := 0; k < y.Len(); k++ {
		out.Set(k%size.Rows, k/size.Rows, y.AtVec(k))
	}
	return out
}

func requireMatEqual(t *testing.T, want, got mat.Matrix) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr, "row count")
	require.Equal(t, wc, gc, "column count")
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			require.InDelta(t, want.At(i, j), got.At(i, j), 1e-12, "entry (%d,%d)", i, j)
		}
	}
}

// countingCache wraps a FormCache and counts how many computations actually
// run, as opposed to resolving from cache.
type countingCache struct {
	conicform.FormCache
	computes map[identity.Digest]int
}

func newCountingCache(inner conicform.FormCache) *countingCache {
	return &countingCache{FormCache: inner, computes: make(map[identity.Digest]int)}
}

func (c *countingCache) Resolve(d identity.Digest, compute func() (*operator.AffineMap, error)) (*operator.AffineMap, error) {
	return c.FormCache.Resolve(d, func() (*operator.AffineMap, error) {
		c.computes[d]++
		return compute()
	})
}
