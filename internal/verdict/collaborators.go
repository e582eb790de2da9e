package verdict

import (
	"context"

	"codejudge/internal/ptree"
)

// ProgramInput is one side of a comparison request: the source a reference
// or candidate program was submitted as.
type ProgramInput struct {
	Language string
	Source   string
}

// IRProducer is the external collaborator that lowers a program to SSA-form
// IR text. A failure is surfaced as an ir-unavailable diagnostic by
// the orchestrator, not by the producer itself.
type IRProducer interface {
	ProduceIR(ctx context.Context, in ProgramInput) (string, error)
}

// Parser is the external collaborator that produces a parse tree.
type Parser interface {
	Parse(ctx context.Context, in ProgramInput) (ptree.Tree, error)
}

// ExecResult is the sandboxed executor's output shape.
type ExecResult struct {
	Stdout          string
	Stderr          string
	ExitCode        int
	WallTimeSeconds float64
}

// Executor is the sandboxed-execution collaborator. Not required by the
// comparison core itself; available for surrounding orchestration that
// wants to run either program.
type Executor interface {
	Execute(ctx context.Context, in ProgramInput, stdin string) (ExecResult, error)
}

// Judgment is the secondary judge's structured output.
type Judgment struct {
	IsLegitimate       bool
	Confidence         int
	Reason             string
	DetailedAnalysis   string
	CheatingIndicators []string
	Recommendation     string
}

// JudgeRequest bundles everything the secondary judge needs to render an
// opinion on a pair already run through the comparison core.
type JudgeRequest struct {
	SourceA, SourceB         string
	Language                 string
	NormalizedA, NormalizedB string
	LogicSummary             string
}

// SecondaryJudge is the external LLM-judge collaborator consulted when the
// Logic Checker's verdict is inconclusive.
type SecondaryJudge interface {
	Judge(ctx context.Context, req JudgeRequest) (Judgment, error)
}
