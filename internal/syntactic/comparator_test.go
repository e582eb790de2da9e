package syntactic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codejudge/internal/features"
)

func sample() features.ParseFeatures {
	return features.ParseFeatures{
		TotalNodes:  10,
		Depth:       4,
		Functions:   []string{"add"},
		ControlFlow: features.ControlFlow{IfStatements: 1},
		Operations:  features.Operations{Arithmetic: 2},
		NodeTypes:   map[string]int{"binary_expression": 2, "identifier": 3},
	}
}

func TestCompare_SelfSimilarityIsIdentical(t *testing.T) {
	f := sample()
	r := Compare(f, f, DefaultWeights())

	assert.Equal(t, 100, r.Overall)
	assert.Equal(t, Identical, r.Level)
}

func TestCompare_Symmetry(t *testing.T) {
	a := sample()
	b := sample()
	b.TotalNodes = 7
	b.Depth = 2
	b.Operations.Arithmetic = 1

	r1 := Compare(a, b, DefaultWeights())
	r2 := Compare(b, a, DefaultWeights())

	assert.Equal(t, r1.Overall, r2.Overall)
	assert.Equal(t, r1.Level, r2.Level)
}

func TestCompare_BothEmptyIsIdentical(t *testing.T) {
	empty := features.ParseFeatures{NodeTypes: map[string]int{}}
	r := Compare(empty, empty, DefaultWeights())

	assert.Equal(t, 100, r.Overall)
	assert.Equal(t, Identical, r.Level)
}

func TestCompare_ScoresBoundedToRange(t *testing.T) {
	a := sample()
	b := features.ParseFeatures{
		TotalNodes: 1000,
		Depth:      50,
		NodeTypes:  map[string]int{"something_else": 40},
		Functions:  []string{"unrelated"},
		Operations: features.Operations{Logical: 9},
	}

	r := Compare(a, b, DefaultWeights())
	assert.GreaterOrEqual(t, r.Overall, 0)
	assert.LessOrEqual(t, r.Overall, 100)
	assert.Equal(t, VeryDifferent, r.Level)
}

func TestCompare_DisjointNodeTypesScoreZero(t *testing.T) {
	a := features.ParseFeatures{NodeTypes: map[string]int{"a": 1}}
	b := features.ParseFeatures{NodeTypes: map[string]int{"b": 1}}

	r := Compare(a, b, DefaultWeights())
	assert.Equal(t, float64(0), r.Breakdown.NodeTypes)
}
