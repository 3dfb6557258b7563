// weakacid solves the pH of a weak acid solution from the command line.
//
// Usage:
//
//	weakacid solve --concentration 0.10 --ka 1.8e-5 [--formula CH3COOH] [--format text|json]
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"weak-acid-ph/internal/observability"
)

var (
	version = "dev"
	commit  = "none"
)

// Exit codes. Malformed input and solver failures are kept apart so
// scripts can tell a typo from a chemically impossible request.
const (
	exitMalformedInput = 2
	exitSolveFailed    = 3
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "weakacid",
		Usage:   "Weak acid pH solver with a step-by-step explanation",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"WEAKACID_LOG_LEVEL"},
			},
		},

		Before: func(c *cli.Context) error {
			lvl, err := zapcore.ParseLevel(c.String("log-level"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid --log-level: %v", err), exitMalformedInput)
			}
			return observability.InitLogger(lvl)
		},

		After: func(c *cli.Context) error {
			observability.SyncLogger()
			return nil
		},

		Commands: []*cli.Command{
			solveCommand(),
		},
	}
}
