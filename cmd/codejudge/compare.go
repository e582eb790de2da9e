package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codejudge/internal/adapters"
	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/logic"
	"codejudge/internal/verdict"
)

type compareFlags struct {
	referencePath string
	candidatePath string
	language      string
	configPath    string
	clangPath     string
	judgeURL      string
	judgeAPIKey   string
	asJSON        bool
}

func newCompareCmd() *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a candidate program against a reference solution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.referencePath, "reference", "r", "", "path to the reference source file (required)")
	flags.StringVarP(&f.candidatePath, "candidate", "u", "", "path to the candidate source file (required)")
	flags.StringVarP(&f.language, "lang", "l", "c", "language tag: c or cpp")
	flags.StringVarP(&f.configPath, "config", "c", "", "optional config file (YAML/JSON)")
	flags.StringVar(&f.clangPath, "clang", "", "path to the clang binary used for IR production (defaults to $PATH)")
	flags.StringVar(&f.judgeURL, "judge-url", "", "secondary-judge HTTP endpoint; omit to disable the secondary opinion")
	flags.StringVar(&f.judgeAPIKey, "judge-api-key", "", "API key for the secondary-judge endpoint")
	flags.BoolVar(&f.asJSON, "json", false, "print the verdict as JSON instead of colorized text")

	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("candidate")

	return cmd
}

func runCompare(cmd *cobra.Command, f compareFlags) error {
	cfg := loadConfigOrExit(f.configPath, cmd)
	logger := buildLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	refSrc, err := os.ReadFile(f.referencePath)
	if err != nil {
		return fmt.Errorf("reading reference file: %w", err)
	}
	candSrc, err := os.ReadFile(f.candidatePath)
	if err != nil {
		return fmt.Errorf("reading candidate file: %w", err)
	}

	irProducer := adapters.NewClangIR(f.clangPath, logger)
	parser := adapters.CParser{}

	var judge verdict.SecondaryJudge
	if f.judgeURL != "" {
		cfg.JudgeEnabled = true
		judge = adapters.NewHTTPJudge(f.judgeURL, f.judgeAPIKey, nil, logger)
	}

	cache := logic.NewCache(cfg.CacheSoftLimit, cfg.CacheTTL())
	orch := verdict.New(irProducer, parser, judge, cache, cfg, logger)

	v := orch.Compare(context.Background(),
		verdict.ProgramInput{Language: f.language, Source: string(refSrc)},
		verdict.ProgramInput{Language: f.language, Source: string(candSrc)},
	)

	if f.asJSON {
		return printJSON(v)
	}
	printVerdict(v)
	return nil
}

func printJSON(v verdict.Verdict) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printVerdict(v verdict.Verdict) {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	reporter := codejudgeerrors.NewReporter()

	switch {
	case v.Logic == nil:
		fail.Println("INCONCLUSIVE")
	case v.Logic.Passed:
		pass.Println("PASS")
	default:
		fail.Println("FAIL")
	}
	fmt.Printf("  %s\n", v.Summary)
	if !v.ParseUnavailable {
		fmt.Printf("  similarity: %d%% (%s)\n", v.OverallSimilarity, v.SimilarityLevel)
		dim.Printf("  breakdown: structural=%.0f control_flow=%.0f operations=%.0f node_types=%.0f functions=%.0f\n",
			v.Breakdown.Structural, v.Breakdown.ControlFlow, v.Breakdown.Operations, v.Breakdown.NodeTypes, v.Breakdown.Functions)
	}
	if v.IR != nil {
		dim.Printf("  ir: countA=%d countB=%d efficiency=%s adjusted=%d%%\n",
			v.IR.CountA, v.IR.CountB, v.IR.EfficiencyRating, v.IR.AdjustedSimilarity)
	}

	if v.IRUnavailable {
		fmt.Println(reporter.Format(codejudgeerrors.New(codejudgeerrors.IRUnavailable,
			"IR acquisition failed; the logic check was omitted")))
	}
	if v.ParseUnavailable {
		fmt.Println(reporter.Format(codejudgeerrors.New(codejudgeerrors.ParseUnavailable,
			"parse-tree acquisition failed; the syntactic comparison was omitted")))
	}
	if v.ExecTimeout {
		fmt.Println(reporter.Format(codejudgeerrors.New(codejudgeerrors.ExecTimeout,
			"a collaborator call timed out")))
	}

	if v.Logic != nil {
		if v.Logic.Hardcoded.Detected {
			fail.Printf("  hardcoded return detected: %s\n", v.Logic.Hardcoded.Literal)
		}
		if len(v.Logic.Comparison.Missing) > 0 {
			fail.Printf("  missing operations: %s\n", joinDiscrepancies(v.Logic.Comparison.Missing))
		}
		if len(v.Logic.Comparison.Extra) > 0 {
			fail.Printf("  extra operations: %s\n", joinDiscrepancies(v.Logic.Comparison.Extra))
		}
	}

	if v.Secondary != nil {
		label := "LEGITIMATE"
		renderer := pass
		if !v.Secondary.IsLegitimate {
			label = "FLAGGED"
			renderer = fail
		}
		renderer.Printf("  secondary judge: %s (confidence %d%%): %s\n", label, v.Secondary.Confidence, v.Secondary.Reason)
	}
}

func joinDiscrepancies(ds []logic.Discrepancy) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d.Opcode)
	}
	return fmt.Sprint(names)
}
