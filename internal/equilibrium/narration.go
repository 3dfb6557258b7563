package equilibrium

import "fmt"

// narrator accumulates markdown segments. Segments are append-only.
type narrator struct {
	segments []string
	step     int
}

func (n *narrator) heading(title string) {
	n.step++
	n.segments = append(n.segments, fmt.Sprintf("**%d. %s**", n.step, title))
}

func (n *narrator) line(format string, args ...any) {
	n.segments = append(n.segments, "   "+fmt.Sprintf(format, args...))
}

func (n *narrator) blank() {
	n.segments = append(n.segments, "   ")
}

// Narrate renders a solver trace as an ordered list of markdown segments
// with inline LaTeX. It is a pure formatting pass: every number it prints
// comes from tr. Steps the solver never reached are not rendered.
func Narrate(tr Trace) []string {
	n := &narrator{}
	c0, ka := tr.Input.InitialConcentration, tr.Input.Ka

	narrateSetup(n, c0, ka)
	narrateApproximation(n, c0, ka, tr.Approximation)

	if tr.Quadratic != nil {
		if !narrateQuadratic(n, c0, ka, tr) {
			return n.segments
		}
	}

	if tr.Completed {
		narratePH(n, c0, ka, tr.HPlus, tr.PH)
	}
	return n.segments
}

func narrateSetup(n *narrator, c0, ka float64) {
	n.heading("Write the Dissociation Reaction and ICE Table:")
	n.line("For a weak acid HA, the dissociation is:")
	n.line("HA(aq) + H₂O(l) ⇌ H₃O⁺(aq) + A⁻(aq)")
	n.blank()
	n.line("| Species    | Initial (M)      | Change (M) | Equilibrium (M) |")
	n.line("|------------|------------------|------------|-----------------|")
	n.line("| HA         | %.4f     | -x         | %.4f - x |", c0, c0)
	n.line("| H₃O⁺       | 0                | +x         | x               |")
	n.line("| A⁻         | 0                | +x         | x               |")
	n.blank()

	n.heading("Write the Acid Dissociation Constant (Ka) Expression:")
	n.line(`$K_a = \frac{[H_3O^+][A^-]}{[HA]}$`)
	n.line("Substituting the equilibrium concentrations:")
	n.line(`$%.2e = \frac{(x)(x)}{(%.4f - x)}$`, ka, c0)
	n.blank()
}

func narrateApproximation(n *narrator, c0, ka float64, a Approximation) {
	n.heading("Attempt the Small 'x' Approximation:")
	n.line("If 'x' is much smaller than the initial concentration of HA (typically if the initial concentration / $K_a$ > %g), we can approximate $(%.4f - x) \\approx %.4f$.",
		ApproximationRatioThreshold, c0, c0)
	n.line(`Ratio (Initial Conc / $K_a$) = $%.4f / %.2e = %.2f$`, c0, ka, a.Ratio)

	if !a.Attempted() {
		n.line("Since the ratio (%.2f) is less than or equal to %g, the approximation is likely **NOT** valid.", a.Ratio, ApproximationRatioThreshold)
		return
	}

	product := ka * c0
	n.line("Since the ratio (%.2f) is greater than %g, the approximation is likely valid.", a.Ratio, ApproximationRatioThreshold)
	n.line(`Using the approximation: $%.2e = \frac{x^2}{%.4f}$`, ka, c0)
	n.line(`$x^2 = %.2e \times %.4f = %.2e$`, ka, c0, product)
	n.line(`$x = \sqrt{%.2e} = %.4e$ M`, product, a.X)
	n.blank()
	n.line("**Check Approximation Validity:**")
	n.line(`Percent dissociation = $(x / \text{Initial HA Conc}) \times 100\%% = (%.4e / %.4f) \times 100\%% = %.2f\%%$`,
		a.X, c0, a.PercentDissociation)

	if a.Outcome == Accepted {
		n.line(`Since the percent dissociation is %.2f%% (which is $\le %g\%%$), the approximation is valid.`,
			a.PercentDissociation, MaxPercentDissociation)
		n.blank()
		return
	}
	n.line(`Since the percent dissociation is %.2f%% (which is $> %g\%%$), the approximation is **NOT** valid. We must use the quadratic formula.`,
		a.PercentDissociation, MaxPercentDissociation)
}

// narrateQuadratic reports false when the quadratic produced no usable root.
func narrateQuadratic(n *narrator, c0, ka float64, tr Trace) bool {
	q := *tr.Quadratic
	product := ka * c0

	n.heading("Solve using the Quadratic Formula:")
	n.line(`Rearrange the Ka expression: $x^2 = %.2e (%.4f - x)$`, ka, c0)
	n.line(`$x^2 = %.2e - %.2ex$`, product, ka)
	n.line(`$x^2 + %.2ex - %.2e = 0$`, ka, product)
	if q.A != 1 {
		n.line(`$K_a \times C_0$ is too large to represent, so divide through by $K_a$: $\frac{x^2}{%.2e} + x - %.4f = 0$`, ka, c0)
	}
	n.line("This is in the form $ax^2 + bx + c = 0$, where:")
	n.line("$a = %g$", q.A)
	n.line("$b = %.2e$", q.B)
	n.line("$c = %.2e$", q.C)
	n.line(`Using the quadratic formula: $x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}$`)

	if tr.Path != PathQuadratic {
		return false
	}

	if tr.Roots[0] > 0 && tr.Roots[1] > 0 {
		n.line("Roots: $x_1 = %.4e$, $x_2 = %.4e$; both are positive, so the smaller root is selected.", tr.Roots[0], tr.Roots[1])
	} else {
		n.line("Roots: $x_1 = %.4e$, $x_2 = %.4e$; only the positive root is physically meaningful.", tr.Roots[0], tr.Roots[1])
	}
	n.line("$x = %.4e$ M", tr.Root)
	n.blank()
	return true
}

func narratePH(n *narrator, c0, ka, h, ph float64) {
	n.heading("Calculate pH:")
	n.line("At equilibrium, $[H_3O^+] = x = %.4e$ M", h)
	n.line("$pH = -log_{10}[H_3O^+] = -log_{10}(%.4e)$", h)
	n.line("**$pH = %.2f$**", ph)
	n.blank()
	n.segments = append(n.segments,
		fmt.Sprintf("**Conclusion:** The pH of a %.4f M solution of a weak acid with $K_a = %.2e$ is **%.2f**.", c0, ka, ph))
}
