package equilibrium

import (
	"errors"
	"math"
	"testing"
)

func TestSolveScenarios(t *testing.T) {
	tests := []struct {
		name       string
		c0, ka     float64
		wantApprox bool
		wantH      float64
		wantPH     float64
	}{
		{name: "acetic acid uses approximation", c0: 0.10, ka: 1.8e-5, wantApprox: true, wantH: 1.3416e-3, wantPH: 2.872},
		{name: "low ratio uses quadratic", c0: 0.010, ka: 1.0e-3, wantApprox: false, wantH: 2.7016e-3, wantPH: 2.568},
		{name: "dilute acid uses quadratic", c0: 0.0001, ka: 1.8e-5, wantApprox: false, wantH: 3.4370e-5, wantPH: 4.464},
		{name: "high dissociation rejects approximation", c0: 0.02, ka: 1e-4, wantApprox: false, wantH: 1.3651e-3, wantPH: 2.865},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Solve(tc.c0, tc.ka)
			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if res.ApproximationUsed != tc.wantApprox {
				t.Fatalf("expected approximation_used %t, got %t", tc.wantApprox, res.ApproximationUsed)
			}
			if got := *res.HPlusEquilibrium; math.Abs(got-tc.wantH)/tc.wantH > 1e-3 {
				t.Fatalf("expected [H+] ~ %g, got %g", tc.wantH, got)
			}
			if got := *res.PH; math.Abs(got-tc.wantPH) > 0.005 {
				t.Fatalf("expected pH ~ %.3f, got %.4f", tc.wantPH, got)
			}
		})
	}
}

func TestSolveApproximationStageOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		c0, ka float64
		want   ApproximationOutcome
		path   Path
	}{
		{name: "accepted", c0: 0.10, ka: 1.8e-5, want: Accepted, path: PathApproximation},
		{name: "ratio too low", c0: 0.010, ka: 1.0e-3, want: RejectedRatioTooLow, path: PathQuadratic},
		{name: "ratio exactly at threshold", c0: 50, ka: 0.5, want: RejectedRatioTooLow, path: PathQuadratic},
		{name: "dissociation too high", c0: 0.02, ka: 1e-4, want: RejectedDissociationTooHigh, path: PathQuadratic},
		{name: "dissociation exactly at limit", c0: 100, ka: 0.25, want: Accepted, path: PathApproximation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Solve(tc.c0, tc.ka)
			if res.Err != nil {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if got := res.Trace.Approximation.Outcome; got != tc.want {
				t.Fatalf("expected outcome %s, got %s", tc.want, got)
			}
			if res.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, res.Path)
			}
		})
	}
}

func TestSolveRejectsNonPositiveInput(t *testing.T) {
	tests := []struct {
		name   string
		c0, ka float64
	}{
		{name: "negative concentration", c0: -0.1, ka: 1.8e-5},
		{name: "zero concentration", c0: 0, ka: 1.8e-5},
		{name: "negative Ka", c0: 0.1, ka: -1.8e-5},
		{name: "zero Ka", c0: 0.1, ka: 0},
		{name: "NaN concentration", c0: math.NaN(), ka: 1.8e-5},
		{name: "infinite Ka", c0: 0.1, ka: math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Solve(tc.c0, tc.ka)
			if !errors.Is(res.Err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", res.Err)
			}
			if res.OK() {
				t.Fatal("expected OK() to be false")
			}
			if res.HPlusEquilibrium != nil || res.PH != nil {
				t.Fatalf("expected no numeric fields, got h=%v pH=%v", res.HPlusEquilibrium, res.PH)
			}
			if res.ApproximationUsed {
				t.Fatal("expected approximation_used false on failure")
			}
			if len(res.Narration) != 0 {
				t.Fatalf("expected no narration, got %d segments", len(res.Narration))
			}
			if got := Kind(res.Err); got != KindValidation {
				t.Fatalf("expected kind %q, got %q", KindValidation, got)
			}
		})
	}
}

func TestSolveValidationMessage(t *testing.T) {
	res := Solve(-0.1, 1.8e-5)
	if res.Err == nil {
		t.Fatal("expected an error")
	}

	want := "initial concentration and Ka value must be positive (concentration=-0.1, Ka=1.8e-05)"
	if got := res.Err.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSolveUnderflowReportsNoPositiveRoot(t *testing.T) {
	res := Solve(1e-200, 1e-300)

	if !errors.Is(res.Err, ErrNoPositiveRoot) {
		t.Fatalf("expected ErrNoPositiveRoot, got %v", res.Err)
	}
	if res.HPlusEquilibrium != nil || res.PH != nil {
		t.Fatal("expected no numeric fields on failure")
	}
	if len(res.Narration) == 0 {
		t.Fatal("expected narration of the steps completed before the failure")
	}
}

func TestSolveExtremeInputs(t *testing.T) {
	tests := []struct {
		c0, ka float64
	}{
		{c0: 1e200, ka: 1e200},
		{c0: 1e-300, ka: 1e300},
		{c0: 1e-100, ka: 1e200},
		{c0: 1.7e-28, ka: 3.1e-4},
		{c0: 1.7e308, ka: 0.3},
		{c0: 1e300, ka: 1e-300},
	}

	for _, tc := range tests {
		res := Solve(tc.c0, tc.ka)
		if res.Err != nil {
			t.Fatalf("Solve(%g, %g): unexpected error: %v", tc.c0, tc.ka, res.Err)
		}

		h, ph := *res.HPlusEquilibrium, *res.PH
		if !(h > 0 && h < tc.c0) {
			t.Fatalf("Solve(%g, %g): [H+]=%v outside (0, C0)", tc.c0, tc.ka, h)
		}
		if math.IsInf(ph, 0) || math.IsNaN(ph) {
			t.Fatalf("Solve(%g, %g): pH %g is not finite", tc.c0, tc.ka, ph)
		}
	}
}

func TestPHRejectsNonPositiveConcentration(t *testing.T) {
	for _, h := range []float64{0, -1e-7, math.NaN(), math.Inf(1)} {
		if _, err := PH(h); !errors.Is(err, ErrInvalidEquilibrium) {
			t.Fatalf("PH(%g): expected ErrInvalidEquilibrium, got %v", h, err)
		}
	}

	ph, err := PH(1e-7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(ph-7) > 1e-12 {
		t.Fatalf("expected pH 7, got %g", ph)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: ErrValidation, want: KindValidation},
		{err: ErrNoPositiveRoot, want: KindNoPositiveRoot},
		{err: ErrNoRealRoots, want: KindNoPositiveRoot},
		{err: ErrInvalidEquilibrium, want: KindInvalidEquilibrium},
		{err: errors.New("other"), want: KindUnknown},
	}

	for _, tc := range tests {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v): expected %q, got %q", tc.err, tc.want, got)
		}
	}
}

// logGrid returns 10^from .. 10^to in quarter-decade steps.
func logGrid(from, to int) []float64 {
	var out []float64
	for e := float64(from); e <= float64(to); e += 0.25 {
		out = append(out, math.Pow(10, e))
	}
	return out
}

func TestSolveProperties(t *testing.T) {
	for _, c0 := range logGrid(-8, 1) {
		for _, ka := range logGrid(-12, 1) {
			res := Solve(c0, ka)
			if res.Err != nil {
				t.Fatalf("Solve(%g, %g): unexpected error: %v", c0, ka, res.Err)
			}

			h, ph := *res.HPlusEquilibrium, *res.PH
			if !(h > 0 && h < c0) {
				t.Fatalf("Solve(%g, %g): [H+]=%g outside (0, C0)", c0, ka, h)
			}
			if math.IsInf(ph, 0) || math.IsNaN(ph) {
				t.Fatalf("Solve(%g, %g): pH %g is not finite", c0, ka, ph)
			}
			if math.Abs(ph+math.Log10(h)) > 1e-12 {
				t.Fatalf("Solve(%g, %g): pH %g != -log10(%g)", c0, ka, ph, h)
			}

			ratio := c0 / ka
			percent := 100 * math.Sqrt(ka*c0) / c0
			eligible := ratio > ApproximationRatioThreshold && percent <= MaxPercentDissociation
			if res.ApproximationUsed != eligible {
				t.Fatalf("Solve(%g, %g): approximation_used=%t, ratio=%g percent=%g", c0, ka, res.ApproximationUsed, ratio, percent)
			}

			if res.ApproximationUsed {
				if want := math.Sqrt(ka * c0); h != want {
					t.Fatalf("Solve(%g, %g): expected sqrt(Ka*C0)=%v, got %v", c0, ka, want, h)
				}
				continue
			}

			residual := h*h + ka*h - ka*c0
			if math.Abs(residual) > 1e-9*ka*c0 {
				t.Fatalf("Solve(%g, %g): [H+]=%g leaves residual %g", c0, ka, h, residual)
			}
			if other := res.Trace.Roots[0]; other > 0 && other < h {
				t.Fatalf("Solve(%g, %g): smaller positive root %g was not chosen", c0, ka, other)
			}
		}
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	a := Solve(0.0001, 1.8e-5)
	b := Solve(0.0001, 1.8e-5)

	if *a.HPlusEquilibrium != *b.HPlusEquilibrium || *a.PH != *b.PH {
		t.Fatal("expected identical results for identical input")
	}
	if len(a.Narration) != len(b.Narration) {
		t.Fatal("expected identical narration for identical input")
	}
}
