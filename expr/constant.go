package expr

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/convexgo/convex/conicform"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/operator"
)

// Constant is a terminal node wrapping fixed numeric data. Two constants
// with equal dimensions and entries share a structural identity.
type Constant struct {
	value *mat.Dense
	size  Size
	sign  Sign
	id    identity.Digest
}

// NewConstant creates a constant from a matrix value. The value is copied.
func NewConstant(v mat.Matrix) *Constant {
	d := mat.DenseCopyOf(v)
	r, c := d.Dims()
	return &Constant{
		value: d,
		size:  Size{Rows: r, Cols: c},
		sign:  signOf(d),
		id:    identity.Leaf("constant", constPayload(d)),
	}
}

// Scalar creates a 1×1 constant.
func Scalar(v float64) *Constant {
	return NewConstant(mat.NewDense(1, 1, []float64{v}))
}

// C normalizes a raw value into a constant node. Accepted forms: float64,
// int, []float64 (column vector), [][]float64 (rows) and mat.Matrix.
func C(v any) (*Constant, error) {
	switch x := v.(type) {
	case float64:
		return Scalar(x), nil
	case int:
		return Scalar(float64(x)), nil
	case []float64:
		if len(x) == 0 {
			return nil, fmt.Errorf("constant: %w: empty vector", ErrDimensionMismatch)
		}
		return NewConstant(mat.NewDense(len(x), 1, append([]float64(nil), x...))), nil
	case [][]float64:
		if len(x) == 0 || len(x[0]) == 0 {
			return nil, fmt.Errorf("constant: %w: empty matrix", ErrDimensionMismatch)
		}
		cols := len(x[0])
		data := make([]float64, 0, len(x)*cols)
		for _, row := range x {
			if len(row) != cols {
				return nil, fmt.Errorf("constant: %w: ragged rows", ErrDimensionMismatch)
			}
			data = append(data, row...)
		}
		return NewConstant(mat.NewDense(len(x), cols, data)), nil
	case mat.Matrix:
		return NewConstant(x), nil
	default:
		return nil, fmt.Errorf("constant: unsupported value type %T", v)
	}
}

// MustC is C for values known valid at compile time.
func MustC(v any) *Constant {
	c, err := C(v)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the structural identity.
func (c *Constant) ID() identity.Digest { return c.id }

// Size returns the constant's shape.
func (c *Constant) Size() Size { return c.size }

// Children returns nil; constants are terminal.
func (c *Constant) Children() []Node { return nil }

// Sign returns the sign derived from the constant's entries.
func (c *Constant) Sign() Sign { return c.sign }

// Monotonicity returns the constant's monotonicity with respect to itself.
func (c *Constant) Monotonicity() []Monotonicity { return []Monotonicity{ConstMonotonicity} }

// Curvature returns ConstVexity.
func (c *Constant) Curvature() Vexity { return ConstVexity }

// Value returns a copy of the constant's value.
func (c *Constant) Value() *mat.Dense { return mat.DenseCopyOf(c.value) }

// Evaluate returns the constant's value; the environment is ignored.
func (c *Constant) Evaluate(Env) (*mat.Dense, error) {
	return mat.DenseCopyOf(c.value), nil
}

func (c *Constant) lower(cache conicform.FormCache) (*operator.AffineMap, error) {
	return operator.FromConst(operator.Vec(c.value), cache.InputDim()), nil
}

// signOf scans a matrix: all entries ≥0 gives Positive (ZeroSign when all
// zero), all ≤0 gives Negative, mixed gives NoSign.
func signOf(d *mat.Dense) Sign {
	r, c := d.Dims()
	allNonneg, allNonpos := true, true
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := d.At(i, j)
			if v > 0 {
				allNonpos = false
			}
			if v < 0 {
				allNonneg = false
			}
			if math.IsNaN(v) {
				return NoSign
			}
		}
	}
	switch {
	case allNonneg && allNonpos:
		return ZeroSign
	case allNonneg:
		return Positive
	case allNonpos:
		return Negative
	default:
		return NoSign
	}
}

// constPayload encodes dimensions and entries for identity hashing.
func constPayload(d *mat.Dense) []byte {
	r, c := d.Dims()
	buf := make([]byte, 16, 16+8*r*c)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(r))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(c))
	var e [8]byte
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			binary.LittleEndian.PutUint64(e[:], math.Float64bits(d.At(i, j)))
			buf = append(buf, e[:]...)
		}
	}
	return buf
}
