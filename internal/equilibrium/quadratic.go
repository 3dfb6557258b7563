package equilibrium

import (
	"fmt"
	"math"
)

// Quadratic holds the coefficients of a·x² + b·x + c = 0.
type Quadratic struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// ExactQuadratic clears the denominator of Ka = x²/(C₀ − x), giving
// x² + Ka·x − Ka·C₀ = 0. If Ka·C₀ overflows the equation is divided through
// by Ka instead: x²/Ka + x − C₀ = 0.
func ExactQuadratic(in Input) Quadratic {
	if productOverflows(in) {
		return Quadratic{A: 1 / in.Ka, B: 1, C: -in.InitialConcentration}
	}
	return Quadratic{A: 1, B: in.Ka, C: -in.Ka * in.InitialConcentration}
}

// ApproximateQuadratic is the small-x form Ka = x²/C₀, i.e. x² − Ka·C₀ = 0,
// divided through by Ka when Ka·C₀ overflows.
func ApproximateQuadratic(in Input) Quadratic {
	if productOverflows(in) {
		return Quadratic{A: 1 / in.Ka, B: 0, C: -in.InitialConcentration}
	}
	return Quadratic{A: 1, B: 0, C: -in.Ka * in.InitialConcentration}
}

func productOverflows(in Input) bool {
	return math.IsInf(in.Ka*in.InitialConcentration, 0)
}

// Discriminant is b² − 4ac as evaluated directly. It can overflow for large
// coefficients even when the roots are representable; Roots does not rely
// on it in that case.
func (q Quadratic) Discriminant() float64 {
	return q.B*q.B - 4*q.A*q.C
}

func (q Quadratic) finite() bool {
	for _, v := range [...]float64{q.A, q.B, q.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sqrtDiscriminant returns √(b² − 4ac), or false when it is not real. When
// the direct form overflows it is rebuilt from |b| and g = 2√|a|√|c|.
func (q Quadratic) sqrtDiscriminant() (float64, bool) {
	d := q.Discriminant()
	if !math.IsInf(d, 0) && !math.IsNaN(d) {
		if d < 0 {
			return 0, false
		}
		return math.Sqrt(d), true
	}

	b := math.Abs(q.B)
	g := 2 * math.Sqrt(math.Abs(q.A)) * math.Sqrt(math.Abs(q.C))
	if q.A*q.C <= 0 {
		return math.Hypot(b, g), true
	}
	if b < g {
		return 0, false
	}
	return math.Sqrt(b-g) * math.Sqrt(b+g), true
}

// Roots returns both real roots ordered r1 <= r2, or ErrNoRealRoots when the
// discriminant is negative.
//
// With b != 0 the root that would subtract nearly equal terms is taken from
// c/q instead, so a tiny positive root does not cancel to zero when Ka is
// large next to C₀. With b == 0 the roots are ±√D/2a, which keeps the
// small-x root identical to √(Ka·C₀).
func (q Quadratic) Roots() (float64, float64, error) {
	if q.A == 0 {
		return 0, 0, fmt.Errorf("leading coefficient is zero: %w", ErrNoRealRoots)
	}
	if !q.finite() {
		return 0, 0, fmt.Errorf("non-finite coefficients %+v: %w", q, ErrNoRealRoots)
	}

	s, ok := q.sqrtDiscriminant()
	if !ok {
		return 0, 0, fmt.Errorf("discriminant %g: %w", q.Discriminant(), ErrNoRealRoots)
	}

	var r1, r2 float64
	if q.B == 0 {
		r2 = s / (2 * q.A)
		r1 = -r2
	} else {
		k := -(q.B/2 + math.Copysign(s, q.B)/2)
		r1 = k / q.A
		r2 = q.C / k
	}

	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return r1, r2, nil
}

// SelectRoot applies the physical root policy to a pair of roots:
//
//	r1 > 0, r2 <= 0  -> r1
//	r1 <= 0, r2 > 0  -> r2
//	r1 > 0, r2 > 0   -> min(r1, r2)
//	neither positive -> ErrNoPositiveRoot
//
// When both are positive the smaller one is the bounded dissociation extent;
// the larger is discarded as spurious.
func SelectRoot(r1, r2 float64) (float64, error) {
	p1, p2 := r1 > 0, r2 > 0

	switch {
	case p1 && !p2:
		return r1, nil
	case !p1 && p2:
		return r2, nil
	case p1 && p2:
		return math.Min(r1, r2), nil
	default:
		return 0, fmt.Errorf("roots %g and %g: %w", r1, r2, ErrNoPositiveRoot)
	}
}

// Solve returns the roots of q and the one selected by SelectRoot.
func (q Quadratic) Solve() (roots [2]float64, root float64, err error) {
	r1, r2, err := q.Roots()
	if err != nil {
		return roots, 0, fmt.Errorf("%w: %w", ErrNoPositiveRoot, err)
	}
	roots = [2]float64{r1, r2}

	root, err = SelectRoot(r1, r2)
	if err != nil {
		return roots, 0, err
	}
	return roots, root, nil
}
