package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"weak-acid-ph/internal/acid"
	"weak-acid-ph/internal/input"
	"weak-acid-ph/internal/observability"
)

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:  "solve",
		Usage: "Calculate the pH of a weak acid solution and explain each step",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "concentration",
				Aliases:  []string{"c"},
				Usage:    "Initial concentration of the acid [HA] in M (e.g. 0.10)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "ka",
				Aliases:  []string{"k"},
				Usage:    "Acid dissociation constant (e.g. 1.8e-5)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "formula",
				Aliases: []string{"a"},
				Value:   input.DefaultFormula,
				Usage:   "Acid formula, for display only (e.g. CH3COOH)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
		},
		Action: runSolve,
	}
}

func runSolve(c *cli.Context) error {
	format := c.String("format")
	if format != "text" && format != "json" {
		return cli.Exit(fmt.Sprintf("unknown format %q (want text or json)", format), exitMalformedInput)
	}

	req := acid.SolveRequest{
		Formula:       c.String("formula"),
		Concentration: acid.NumericText(c.String("concentration")),
		Ka:            acid.NumericText(c.String("ka")),
	}

	resp, _, err := acid.Solve(req)
	if err != nil {
		observability.Logger.Debug("solve failed", zap.Error(err))

		if errors.Is(err, input.ErrMalformedNumber) || errors.Is(err, input.ErrFormulaTooLong) {
			return cli.Exit(fmt.Sprintf("Invalid input: %v", err), exitMalformedInput)
		}
		return cli.Exit(fmt.Sprintf("Calculation Error: %v", err), exitSolveFailed)
	}

	observability.Logger.Debug("solved",
		zap.String("path", resp.Path),
		zap.Float64("ph", resp.PH),
	)

	if format == "json" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	writeText(c.App.Writer, resp)
	return nil
}

func writeText(w io.Writer, resp acid.SolveResponse) {
	fmt.Fprintf(w, "Results for %s Solution:\n", resp.Formula)
	fmt.Fprintf(w, "  Initial [%s]: %.4f M\n", resp.Formula, resp.InitialConcentration)
	fmt.Fprintf(w, "  Ka Value: %.2e\n", resp.Ka)
	fmt.Fprintf(w, "  Equilibrium [H₃O⁺]: %.4e M\n", resp.HPlusEquilibrium)
	fmt.Fprintf(w, "  Calculated pH: %.2f\n", resp.PH)
	fmt.Fprintf(w, "\n%s\n\nStep-by-Step Breakdown:\n", resp.Summary)
	for _, step := range resp.Steps {
		fmt.Fprintln(w, step)
	}
}
