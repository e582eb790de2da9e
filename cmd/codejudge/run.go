package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codejudge/internal/adapters"
	"codejudge/internal/verdict"
)

type runFlags struct {
	filePath   string
	language   string
	stdinPath  string
	configPath string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile and execute a single program with the local toolchain",
		Long: `run compiles a source file and executes the resulting binary inside a
throwaway working directory, reporting stdout, stderr, exit code, and wall
time. The run is bounded by the configured execution timeout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.filePath, "file", "f", "", "path to the source file (required)")
	flags.StringVarP(&f.language, "lang", "l", "c", "language tag: c or cpp")
	flags.StringVar(&f.stdinPath, "stdin", "", "optional file whose contents are fed to the program's stdin")
	flags.StringVarP(&f.configPath, "config", "c", "", "optional config file (YAML/JSON)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runExecute(cmd *cobra.Command, f runFlags) error {
	cfg := loadConfigOrExit(f.configPath, cmd)
	logger := buildLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	src, err := os.ReadFile(f.filePath)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}

	var stdin string
	if f.stdinPath != "" {
		data, err := os.ReadFile(f.stdinPath)
		if err != nil {
			return fmt.Errorf("reading stdin file: %w", err)
		}
		stdin = string(data)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ExecTimeout())
	defer cancel()

	executor := adapters.NewLocalExecutor(logger)
	res, err := executor.Execute(ctx, verdict.ProgramInput{Language: f.language, Source: string(src)}, stdin)
	if err != nil {
		return err
	}

	dim := color.New(color.Faint)
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(os.Stderr, res.Stderr)
	}
	dim.Printf("exit code %d, wall time %.3fs\n", res.ExitCode, res.WallTimeSeconds)
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}
