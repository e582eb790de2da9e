// Package semanticeq implements the Semantic-Equivalence Adjuster: it
// recognizes "same algorithm, different style" pairs (e.g. one side using
// an intermediate accumulator the other inlines) and boosts both the
// syntactic and IR similarity scores to reflect that they're not really
// different implementations.
package semanticeq

import (
	"sort"

	"codejudge/internal/features"
	"codejudge/internal/syntactic"
)

var declarationNodeKinds = []string{
	"declaration", "init_declarator", "variable_declaration",
	"lexical_declaration", "local_variable_declaration",
}

// HasIntermediateVariables reports whether a feature bundle shows signs of
// using named intermediate values rather than computing everything inline.
func HasIntermediateVariables(f features.ParseFeatures) bool {
	if f.Operations.Assignment > 0 && len(f.VariableDeclarations) > 0 {
		return true
	}
	for _, kind := range declarationNodeKinds {
		if f.NodeTypes[kind] > 0 {
			return true
		}
	}
	return false
}

// EfficiencyRating buckets an adjusted IR similarity into a human-facing
// rating.
type EfficiencyRating string

const (
	Optimal     EfficiencyRating = "OPTIMAL"
	VerySimilar EfficiencyRating = "VERY_SIMILAR"
	Good        EfficiencyRating = "GOOD"
	Acceptable  EfficiencyRating = "ACCEPTABLE"
	Inefficient EfficiencyRating = "INEFFICIENT"
)

// Result bundles the adjusted syntactic and IR outputs.
type Result struct {
	Equivalent bool
	Adjustment int

	AdjustedSyntactic int
	AdjustedLevel     syntactic.Level

	AdjustedIRSimilarity int
	Efficiency           EfficiencyRating
}

// Adjust decides semantic equivalence for a (reference, user) pair and
// applies the resulting boosts to both the syntactic report and the IR
// instruction-count comparison. minorDiffFloor is the score the IR
// similarity is raised to when the pair is equivalent and the instruction
// counts differ by at most 2 (the boost_ir_minor_diff configuration knob).
func Adjust(ref, user features.ParseFeatures, syn syntactic.Report, countA, countB int, boostIntermediate, minorDiffFloor int) Result {
	equivalent, adjustment := decide(ref, user, syn, boostIntermediate)

	adjustedSyn := syn.Overall + adjustment
	if adjustedSyn > 100 {
		adjustedSyn = 100
	}

	irSim := BaseSimilarity(countA, countB)
	if equivalent && absInt(countA-countB) <= 2 && irSim < minorDiffFloor {
		irSim = minorDiffFloor
	}
	irSim += adjustment
	if irSim > 100 {
		irSim = 100
	}

	return Result{
		Equivalent:           equivalent,
		Adjustment:           adjustment,
		AdjustedSyntactic:    adjustedSyn,
		AdjustedLevel:        levelFor(float64(adjustedSyn)),
		AdjustedIRSimilarity: irSim,
		Efficiency:           RatingFor(irSim),
	}
}

func decide(ref, user features.ParseFeatures, syn syntactic.Report, boostIntermediate int) (bool, int) {
	if !controlFlowMatches(ref, user) || !functionsMatch(ref, user) {
		return false, 0
	}

	refHasIntermediate := HasIntermediateVariables(ref)
	userHasIntermediate := HasIntermediateVariables(user)

	max := ref.TotalNodes
	if user.TotalNodes > max {
		max = user.TotalNodes
	}
	var nodeRatio float64
	if max > 0 {
		nodeRatio = float64(absInt(ref.TotalNodes-user.TotalNodes)) / float64(max)
	}

	if refHasIntermediate != userHasIntermediate || (nodeRatio >= 0.1 && nodeRatio <= 0.3) {
		return true, boostIntermediate
	}
	return false, 0
}

func controlFlowMatches(a, b features.ParseFeatures) bool {
	return a.ControlFlow == b.ControlFlow
}

func functionsMatch(a, b features.ParseFeatures) bool {
	if len(a.Functions) != len(b.Functions) {
		return false
	}
	sa := append([]string(nil), a.Functions...)
	sb := append([]string(nil), b.Functions...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// BaseSimilarity is a simple count-closeness score in [0,100]: the
// pre-adjustment reading for a pair of instruction counts. The orchestrator
// also uses it directly when parse features are unavailable and no
// adjustment can run.
func BaseSimilarity(countA, countB int) int {
	max := countA
	if countB > max {
		max = countB
	}
	if max == 0 {
		return 100
	}
	diff := absInt(countA - countB)
	score := (max - diff) * 100 / max
	if score < 0 {
		score = 0
	}
	return score
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func levelFor(overall float64) syntactic.Level {
	switch {
	case overall >= 95:
		return syntactic.Identical
	case overall >= 80:
		return syntactic.VerySimilar
	case overall >= 60:
		return syntactic.Similar
	case overall >= 40:
		return syntactic.SomewhatSimilar
	case overall >= 20:
		return syntactic.Different
	default:
		return syntactic.VeryDifferent
	}
}

// RatingFor buckets an adjusted IR similarity into its EfficiencyRating.
func RatingFor(adjusted int) EfficiencyRating {
	switch {
	case adjusted >= 95:
		return Optimal
	case adjusted >= 85:
		return VerySimilar
	case adjusted >= 70:
		return Good
	case adjusted >= 50:
		return Acceptable
	default:
		return Inefficient
	}
}
