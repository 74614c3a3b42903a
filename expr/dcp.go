package expr

// Sign classifies the values an expression can take.
type Sign int

const (
	Positive Sign = iota
	Negative
	ZeroSign
	NoSign // indeterminate
)

// String returns the string representation of the sign.
func (s Sign) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case ZeroSign:
		return "zero"
	case NoSign:
		return "nosign"
	default:
		return "unknown"
	}
}

// Mul composes the sign of a product: like signs are positive, unlike signs
// negative, zero absorbs, anything indeterminate stays indeterminate.
func (s Sign) Mul(o Sign) Sign {
	switch {
	case s == ZeroSign || o == ZeroSign:
		return ZeroSign
	case s == NoSign || o == NoSign:
		return NoSign
	case s == o:
		return Positive
	default:
		return Negative
	}
}

// Nonnegative reports whether the sign excludes negative values.
func (s Sign) Nonnegative() bool { return s == Positive || s == ZeroSign }

// Nonpositive reports whether the sign excludes positive values.
func (s Sign) Nonpositive() bool { return s == Negative || s == ZeroSign }

// Monotonicity describes an atom's sensitivity to one argument.
type Monotonicity int

const (
	Nondecreasing Monotonicity = iota
	Nonincreasing
	ConstMonotonicity
	AnyMonotonicity
)

// String returns the string representation of the monotonicity.
func (m Monotonicity) String() string {
	switch m {
	case Nondecreasing:
		return "nondecreasing"
	case Nonincreasing:
		return "nonincreasing"
	case ConstMonotonicity:
		return "constant"
	case AnyMonotonicity:
		return "any"
	default:
		return "unknown"
	}
}

// monotonicityFromSign derives an argument's monotonicity in a product from
// the other operand's sign.
func monotonicityFromSign(s Sign) Monotonicity {
	switch {
	case s.Nonnegative():
		return Nondecreasing
	case s.Nonpositive():
		return Nonincreasing
	default:
		return AnyMonotonicity
	}
}

// Vexity classifies an expression's curvature under DCP composition.
// NotDcp is an ordinary propagated value rather than a fault so composite
// expressions keep being queryable; the outermost consumer decides whether
// it is fatal.
type Vexity int

const (
	ConstVexity Vexity = iota
	AffineVexity
	ConvexVexity
	ConcaveVexity
	NotDcp
)

// String returns the string representation of the vexity.
func (v Vexity) String() string {
	switch v {
	case ConstVexity:
		return "constant"
	case AffineVexity:
		return "affine"
	case ConvexVexity:
		return "convex"
	case ConcaveVexity:
		return "concave"
	case NotDcp:
		return "not-dcp"
	default:
		return "unknown"
	}
}
