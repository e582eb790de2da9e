// SPDX-License-Identifier: Apache-2.0

// Command codejudge drives the comparison pipeline from the terminal: it
// reads a reference and a candidate source file, runs them through the
// Verdict Orchestrator, and prints the resulting Verdict.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codejudge/internal/config"
	codejudgeerrors "codejudge/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "codejudge",
	Short: "codejudge compares a candidate program against a reference for algorithmic equivalence",
	Long: `codejudge judges whether a candidate source program is algorithmically
equivalent to a reference solution. It derives a syntactic view from the
parse tree and a semantic view from compiler IR, scores their similarity,
checks the candidate's operation histogram against the reference's, and
prints a structured verdict.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newRunCmd())
}

func buildLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadConfigOrExit(configPath string, cmd *cobra.Command) config.Config {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		var d *codejudgeerrors.Diagnostic
		if errors.As(err, &d) {
			fmt.Fprintln(os.Stderr, codejudgeerrors.NewReporter().Format(d))
		} else {
			fmt.Fprintln(os.Stderr, "codejudge: "+err.Error())
		}
		os.Exit(1)
	}
	return cfg
}
