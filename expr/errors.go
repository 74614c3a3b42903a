package expr

import "errors"

var (
	// ErrDimensionMismatch reports operand sizes incompatible with the
	// requested operation. Raised at construction time.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotDcp reports a composition that cannot be lowered: a product of
	// two non-constant expressions reaching the lowering stage. The primary
	// enforcement path is the Curvature query; this fault is the defensive
	// re-check.
	ErrNotDcp = errors.New("expression is not dcp compliant")

	// ErrUnboundVariable reports evaluation of a variable with no value in
	// the environment.
	ErrUnboundVariable = errors.New("variable has no bound value")

	// ErrZeroDivisor reports division by a constant containing a zero entry.
	// Only raised when strict division is enabled; otherwise the reciprocal's
	// non-finite entries propagate.
	ErrZeroDivisor = errors.New("division by a constant containing zero")
)
