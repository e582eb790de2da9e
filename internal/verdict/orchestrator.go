// Package verdict implements the Verdict Orchestrator: it sequences the
// IR and parse-tree pipelines for a (reference, candidate) program pair,
// consults the Reference Cache, and assembles the composite Verdict.
package verdict

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codejudge/internal/config"
	codejudgeerrors "codejudge/internal/errors"
	"codejudge/internal/features"
	"codejudge/internal/logic"
	"codejudge/internal/ops"
	"codejudge/internal/ptree"
	"codejudge/internal/semanticeq"
	"codejudge/internal/syntactic"
	"codejudge/internal/tac"
)

// elaborateInstructionThreshold is the normalized-instruction-count cutoff
// past which a failing logic check is treated as "looks elaborate" for the
// purposes of deciding whether to consult the secondary judge.
const elaborateInstructionThreshold = 5

// Orchestrator wires the pure comparison core to the external collaborators
// and the Reference Cache.
type Orchestrator struct {
	IR     IRProducer
	Parser Parser
	Judge  SecondaryJudge // optional; nil disables secondary-judge consultation
	Cache  *logic.Cache
	Config config.Config
	Logger *zap.Logger
}

// New builds an Orchestrator. A nil logger falls back to zap.NewNop so
// callers that don't care about structured logs don't need to thread one
// through.
func New(ir IRProducer, parser Parser, judge SecondaryJudge, cache *logic.Cache, cfg config.Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{IR: ir, Parser: parser, Judge: judge, Cache: cache, Config: cfg, Logger: logger}
}

// Compare runs the full comparison pipeline for a reference/candidate
// pair: IR acquisition and normalization, parse-tree acquisition and
// feature extraction, syntactic scoring, the logic check against the
// reference cache, semantic-equivalence adjustment, and (when the logic
// verdict is inconclusive) the secondary judge.
func (o *Orchestrator) Compare(ctx context.Context, reference, candidate ProgramInput) Verdict {
	v := Verdict{Success: true}

	if reference.Source == "" && candidate.Source == "" {
		empty := features.Extract(ptree.Tree{})
		report := logic.Check(ops.Histogram{}, ops.Histogram{}, tac.NormalizedProgram{})
		v.Summary = "both programs empty"
		v.Logic = &report
		v.SimilarityLevel = syntactic.Identical
		v.OverallSimilarity = 100
		v.Breakdown = syntactic.Breakdown{Structural: 100, ControlFlow: 100, Operations: 100, NodeTypes: 100, Functions: 100}
		v.Details = Details{ProgramA: empty, ProgramB: empty}
		v.IR = &IRSummary{EfficiencyRating: semanticeq.Optimal, AdjustedSimilarity: 100}
		return v
	}

	irA, irB, irErr := o.acquireIR(ctx, reference, candidate)
	if irErr != nil {
		o.Logger.Warn("ir acquisition degraded", zap.Error(irErr))
		v.IRUnavailable = true
		if codejudgeerrors.Is(irErr, codejudgeerrors.ExecTimeout) {
			v.ExecTimeout = true
		}
	} else {
		o.Logger.Info("ir acquired", zap.String("language", reference.Language))
	}

	treeA, treeB, parseErr := o.acquireTrees(ctx, reference, candidate)
	if parseErr != nil {
		o.Logger.Warn("parse acquisition degraded", zap.Error(parseErr))
		v.ParseUnavailable = true
		if codejudgeerrors.Is(parseErr, codejudgeerrors.ExecTimeout) {
			v.ExecTimeout = true
		}
	}

	// Each sub-report is derived only from inputs its collaborator actually
	// delivered. A failed acquisition omits the sub-report entirely rather
	// than scoring two empty inputs as a perfect match.
	var featA, featB features.ParseFeatures
	var synReport syntactic.Report
	if parseErr == nil {
		featA = features.Extract(treeA)
		featB = features.Extract(treeB)
		v.Details = Details{ProgramA: featA, ProgramB: featB}
		o.Logger.Debug("features extracted",
			zap.Int("nodesA", featA.TotalNodes), zap.Int("nodesB", featB.TotalNodes))

		weights := syntactic.Weights{
			Structural:  o.Config.Weights.Structural,
			ControlFlow: o.Config.Weights.ControlFlow,
			Operations:  o.Config.Weights.Operations,
			NodeTypes:   o.Config.Weights.NodeTypes,
			Functions:   o.Config.Weights.Functions,
		}
		synReport = syntactic.Compare(featA, featB, weights)
		v.OverallSimilarity = synReport.Overall
		v.SimilarityLevel = synReport.Level
		v.Breakdown = synReport.Breakdown
	}

	var normA, normB tac.NormalizedProgram
	var logicReport logic.Report
	if irErr == nil {
		normA = tac.Normalize(irA)
		normB = tac.Normalize(irB)

		refHist := o.referenceHistogram(reference, normA)
		userHist := ops.Extract(normB)
		logicReport = logic.Check(refHist, userHist, normB)
		o.Logger.Info("logic checked", zap.Bool("passed", logicReport.Passed), zap.Bool("exact_match", logicReport.ExactMatch))

		base := semanticeq.BaseSimilarity(normA.InstructionCount, normB.InstructionCount)
		v.Logic = &logicReport
		v.IR = &IRSummary{
			CountA:             normA.InstructionCount,
			CountB:             normB.InstructionCount,
			EfficiencyRating:   semanticeq.RatingFor(base),
			AdjustedSimilarity: base,
		}
	}

	// The adjuster needs both views; with only one available the raw
	// syntactic or IR readings stand.
	if irErr == nil && parseErr == nil {
		adjustment := semanticeq.Adjust(featA, featB, synReport, normA.InstructionCount, normB.InstructionCount, o.Config.BoostIntermediate, o.Config.BoostIRMinorDiff)
		v.OverallSimilarity = adjustment.AdjustedSyntactic
		v.SimilarityLevel = adjustment.AdjustedLevel
		v.IR.EfficiencyRating = adjustment.Efficiency
		v.IR.AdjustedSimilarity = adjustment.AdjustedIRSimilarity
	}

	if v.Logic != nil && o.Judge != nil && o.Config.JudgeEnabled && inconclusive(logicReport, normB) {
		o.Logger.Info("secondary judge invoked")
		v.Secondary = o.consultSecondaryJudge(ctx, reference, candidate, normA, normB, logicReport)
	}

	v.Success = !v.IRUnavailable && !v.ParseUnavailable
	v.Summary = summarize(v)
	return v
}

// acquireIR fetches both programs' IR concurrently via the external IR
// producer, each call bounded by its own timeout.
func (o *Orchestrator) acquireIR(ctx context.Context, a, b ProgramInput) (string, string, error) {
	if o.IR == nil {
		return "", "", codejudgeerrors.New(codejudgeerrors.IRUnavailable, "no IR producer configured")
	}
	var irA, irB string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, o.Config.ExecTimeout())
		defer cancel()
		out, err := o.IR.ProduceIR(cctx, a)
		if err != nil {
			return wrapIRErr(err)
		}
		irA = out
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, o.Config.ExecTimeout())
		defer cancel()
		out, err := o.IR.ProduceIR(cctx, b)
		if err != nil {
			return wrapIRErr(err)
		}
		irB = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return irA, irB, err
	}
	return irA, irB, nil
}

func wrapIRErr(err error) error {
	if err == context.DeadlineExceeded {
		return codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "IR producer timed out", err)
	}
	return codejudgeerrors.Wrap(codejudgeerrors.IRUnavailable, "IR producer failed", err)
}

// acquireTrees fetches both programs' parse trees concurrently via the
// external parser collaborator, each call bounded by its own timeout.
func (o *Orchestrator) acquireTrees(ctx context.Context, a, b ProgramInput) (ptree.Tree, ptree.Tree, error) {
	if o.Parser == nil {
		return ptree.Tree{}, ptree.Tree{}, codejudgeerrors.New(codejudgeerrors.ParseUnavailable, "no parser configured")
	}
	var treeA, treeB ptree.Tree
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, o.Config.ExecTimeout())
		defer cancel()
		t, err := o.Parser.Parse(cctx, a)
		if err != nil {
			return wrapParseErr(err)
		}
		treeA = t
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, o.Config.ExecTimeout())
		defer cancel()
		t, err := o.Parser.Parse(cctx, b)
		if err != nil {
			return wrapParseErr(err)
		}
		treeB = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return treeA, treeB, err
	}
	if !treeA.Available() || !treeB.Available() {
		return treeA, treeB, codejudgeerrors.New(codejudgeerrors.ParseUnavailable, "parser returned a rootless tree")
	}
	return treeA, treeB, nil
}

func wrapParseErr(err error) error {
	if err == context.DeadlineExceeded {
		return codejudgeerrors.Wrap(codejudgeerrors.ExecTimeout, "parser timed out", err)
	}
	return codejudgeerrors.Wrap(codejudgeerrors.ParseUnavailable, "parser failed", err)
}

// referenceHistogram consults the Reference Cache for the reference
// program's operation histogram, computing and storing it on a miss.
func (o *Orchestrator) referenceHistogram(reference ProgramInput, normA tac.NormalizedProgram) ops.Histogram {
	if o.Cache == nil {
		return ops.Extract(normA)
	}
	if h, ok := o.Cache.Lookup(reference.Language, reference.Source); ok {
		o.Logger.Debug("reference cache hit", zap.String("language", reference.Language))
		return h
	}
	h := ops.Extract(normA)
	o.Cache.Store(reference.Language, reference.Source, h)
	o.Logger.Debug("reference cache miss, stored", zap.String("language", reference.Language))
	return h
}

// consultSecondaryJudge invokes the secondary-judge collaborator. An
// unavailable or malformed judgment degrades to a heuristic read of the
// error text rather than aborting the verdict.
func (o *Orchestrator) consultSecondaryJudge(ctx context.Context, reference, candidate ProgramInput, normA, normB tac.NormalizedProgram, logicReport logic.Report) *Judgment {
	req := JudgeRequest{
		SourceA:      reference.Source,
		SourceB:      candidate.Source,
		Language:     reference.Language,
		NormalizedA:  normA.String(),
		NormalizedB:  normB.String(),
		LogicSummary: logicReport.Message,
	}
	jctx, cancel := context.WithTimeout(ctx, o.Config.ExecTimeout())
	defer cancel()
	judgment, err := o.Judge.Judge(jctx, req)
	if err != nil {
		o.Logger.Warn("secondary judge degraded", zap.Error(err))
		fallback := heuristicJudgment(err.Error())
		return &fallback
	}
	return &judgment
}

// heuristicJudgment is the degraded path: when the judge is
// unavailable or its response is malformed, a crude token scan of whatever
// text is available stands in for a real opinion.
func heuristicJudgment(raw string) Judgment {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "legitimate") || strings.Contains(lower, "correct") {
		return Judgment{IsLegitimate: true, Confidence: 50, Reason: "heuristic fallback", Recommendation: "PASS"}
	}
	return Judgment{IsLegitimate: false, Confidence: 50, Reason: "heuristic fallback", Recommendation: "FAIL"}
}

func summarize(v Verdict) string {
	switch {
	case v.IRUnavailable && v.ParseUnavailable:
		return "comparison unavailable: IR and parse acquisition both failed"
	case v.IRUnavailable:
		return fmt.Sprintf("logic check unavailable (IR acquisition failed); syntactic similarity %d%%", v.OverallSimilarity)
	case v.ParseUnavailable:
		return "syntactic comparison unavailable (parse acquisition failed); " + v.Logic.Message
	default:
		return fmt.Sprintf("%s (%d%% similar)", v.Logic.Message, v.OverallSimilarity)
	}
}

// inconclusive reports whether the logic verdict deserves a second
// opinion: the check passed but operation counts
// differed, or it failed on a normalized program elaborate enough that a
// shallow mismatch might be a false positive.
func inconclusive(r logic.Report, user tac.NormalizedProgram) bool {
	if r.Passed && !r.ExactMatch {
		return true
	}
	if !r.Passed && user.InstructionCount > elaborateInstructionThreshold {
		return true
	}
	return false
}
