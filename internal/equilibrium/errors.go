package equilibrium

import "errors"

// Solver failures. Callers match them with errors.Is; the returned errors
// carry the offending values as wrapped context.
var (
	ErrValidation         = errors.New("initial concentration and Ka value must be positive")
	ErrNoRealRoots        = errors.New("quadratic has no real roots")
	ErrNoPositiveRoot     = errors.New("could not find a valid positive concentration for H+ from quadratic equation")
	ErrInvalidEquilibrium = errors.New("calculated H+ concentration was not positive")
)

// Error kinds reported to callers, metrics and logs.
const (
	KindValidation         = "validation"
	KindNoPositiveRoot     = "no_positive_root"
	KindInvalidEquilibrium = "invalid_equilibrium"
	KindUnknown            = "unknown"
)

// Kind classifies err into one of the Kind* constants.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNoPositiveRoot), errors.Is(err, ErrNoRealRoots):
		return KindNoPositiveRoot
	case errors.Is(err, ErrInvalidEquilibrium):
		return KindInvalidEquilibrium
	default:
		return KindUnknown
	}
}
