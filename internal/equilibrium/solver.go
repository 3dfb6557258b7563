// Package equilibrium solves the dissociation equilibrium of a single
// monoprotic weak acid in water and explains the derivation step by step.
package equilibrium

import (
	"fmt"
	"math"
)

// Input is the initial state of the solution: the molarity of undissociated
// acid and its dissociation constant.
type Input struct {
	InitialConcentration float64 `json:"initial_concentration"`
	Ka                   float64 `json:"ka"`
}

// Validate requires both values to be finite and strictly positive.
func (in Input) Validate() error {
	if !positiveFinite(in.InitialConcentration) || !positiveFinite(in.Ka) {
		return fmt.Errorf("%w (concentration=%g, Ka=%g)", ErrValidation, in.InitialConcentration, in.Ka)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Path names the branch that produced the equilibrium concentration.
type Path string

const (
	PathNone          Path = ""
	PathApproximation Path = "approximation"
	PathQuadratic     Path = "quadratic"
)

// Trace is every intermediate value the solver produced, in the order it
// produced them. Narrate renders it; nothing in it is formatted text.
type Trace struct {
	Input         Input
	Approximation Approximation
	Path          Path

	// Set only on the quadratic path.
	Quadratic *Quadratic
	Roots     [2]float64
	Root      float64

	HPlus float64
	PH    float64

	// Completed is false when the solver stopped before the pH step.
	Completed bool
}

// Result is the outcome of Solve. On failure Err is set and HPlusEquilibrium
// and PH are nil; Narration then holds only the steps finished before the
// failure.
type Result struct {
	Input             Input    `json:"input"`
	HPlusEquilibrium  *float64 `json:"h_plus_equilibrium,omitempty"`
	PH                *float64 `json:"ph,omitempty"`
	ApproximationUsed bool     `json:"approximation_used"`
	Path              Path     `json:"path,omitempty"`
	Narration         []string `json:"narration"`
	Trace             Trace    `json:"-"`
	Err               error    `json:"-"`
}

// OK reports whether the solve produced a pH.
func (r Result) OK() bool {
	return r.Err == nil
}

// Solve computes the equilibrium hydronium concentration and pH for a weak
// acid of initial concentration c0 (M) and dissociation constant ka.
//
// Solve never panics on numeric input and never returns failure any other
// way than Result.Err.
func Solve(c0, ka float64) Result {
	in := Input{InitialConcentration: c0, Ka: ka}
	res := Result{Input: in}

	if err := in.Validate(); err != nil {
		res.Err = err
		return res
	}

	tr, err := solve(in)
	res.Trace = tr
	res.Narration = Narrate(tr)
	if err != nil {
		res.Err = err
		return res
	}

	h, ph := tr.HPlus, tr.PH
	res.HPlusEquilibrium = &h
	res.PH = &ph
	res.ApproximationUsed = tr.Path == PathApproximation
	res.Path = tr.Path
	return res
}

// solve is the numeric pipeline. It fills the trace as it goes so a failure
// still carries the steps that led to it.
func solve(in Input) (Trace, error) {
	tr := Trace{Input: in}

	tr.Approximation = Assess(in)

	var h float64
	if tr.Approximation.Outcome == Accepted {
		tr.Path = PathApproximation
		h = tr.Approximation.X
	} else {
		q := ExactQuadratic(in)
		tr.Quadratic = &q

		roots, root, err := q.Solve()
		tr.Roots = roots
		if err != nil {
			return tr, err
		}
		// x < C₀ holds exactly; rounding in c/q can land on or above C₀
		// when Ka dwarfs C₀.
		if root >= in.InitialConcentration {
			root = math.Nextafter(in.InitialConcentration, 0)
		}
		tr.Path = PathQuadratic
		tr.Root = root
		h = root
	}

	ph, err := PH(h)
	if err != nil {
		return tr, err
	}

	tr.HPlus = h
	tr.PH = ph
	tr.Completed = true
	return tr, nil
}

// PH returns -log10(h). It refuses non-positive or non-finite
// concentrations rather than returning NaN or Inf.
func PH(h float64) (float64, error) {
	if !(h > 0) || math.IsInf(h, 1) {
		return 0, fmt.Errorf("%w: [H+]=%g", ErrInvalidEquilibrium, h)
	}
	return -math.Log10(h), nil
}
