package equilibrium

import "fmt"

// Thresholds for the small-x approximation. They are the usual classroom
// heuristics; changing either one changes which path an input takes.
const (
	// ApproximationRatioThreshold is the C₀/Ka ratio that must be exceeded
	// before the approximation is attempted.
	ApproximationRatioThreshold = 100.0

	// MaxPercentDissociation is the largest percent dissociation at which
	// an attempted approximation is accepted.
	MaxPercentDissociation = 5.0
)

// ApproximationOutcome tags the result of the small-x stage.
type ApproximationOutcome int

const (
	Accepted ApproximationOutcome = iota
	RejectedRatioTooLow
	RejectedDissociationTooHigh
)

func (o ApproximationOutcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedRatioTooLow:
		return "rejected_ratio_too_low"
	case RejectedDissociationTooHigh:
		return "rejected_dissociation_too_high"
	default:
		return fmt.Sprintf("ApproximationOutcome(%d)", int(o))
	}
}

// Approximation is the outcome of Assess. X and PercentDissociation are only
// meaningful when the approximation was attempted (Attempted reports true).
type Approximation struct {
	Outcome             ApproximationOutcome
	Ratio               float64
	Quadratic           Quadratic
	X                   float64
	PercentDissociation float64
}

// Attempted reports whether the ratio test passed and x was computed.
func (a Approximation) Attempted() bool {
	return a.Outcome != RejectedRatioTooLow
}

// Assess runs the ratio test and, if it passes, the percent dissociation
// check on x = √(Ka·C₀). The input must already be valid.
func Assess(in Input) Approximation {
	a := Approximation{Ratio: in.InitialConcentration / in.Ka}

	if !(a.Ratio > ApproximationRatioThreshold) {
		a.Outcome = RejectedRatioTooLow
		return a
	}

	a.Quadratic = ApproximateQuadratic(in)
	_, x, err := a.Quadratic.Solve()
	if err != nil {
		// Ka·C₀ underflowed to zero. The exact path reports the failure.
		a.Outcome = RejectedDissociationTooHigh
		return a
	}

	a.X = x
	a.PercentDissociation = 100 * x / in.InitialConcentration

	if a.PercentDissociation <= MaxPercentDissociation {
		a.Outcome = Accepted
	} else {
		a.Outcome = RejectedDissociationTooHigh
	}
	return a
}
