package semanticeq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codejudge/internal/features"
	"codejudge/internal/syntactic"
)

func TestHasIntermediateVariables(t *testing.T) {
	withVar := features.ParseFeatures{
		Operations:           features.Operations{Assignment: 1},
		VariableDeclarations: []string{"s"},
		NodeTypes:            map[string]int{},
	}
	assert.True(t, withVar.Operations.Assignment > 0)
	assert.True(t, HasIntermediateVariables(withVar))

	byNodeType := features.ParseFeatures{NodeTypes: map[string]int{"init_declarator": 1}}
	assert.True(t, HasIntermediateVariables(byNodeType))

	inline := features.ParseFeatures{NodeTypes: map[string]int{}}
	assert.False(t, HasIntermediateVariables(inline))
}

func TestAdjust_StyleVariationBoosts(t *testing.T) {
	ref := features.ParseFeatures{
		TotalNodes:  10,
		Functions:   []string{"sumTo"},
		ControlFlow: features.ControlFlow{ForLoops: 1},
		NodeTypes:   map[string]int{"declaration": 1},
	}
	user := features.ParseFeatures{
		TotalNodes:  9,
		Functions:   []string{"sumTo"},
		ControlFlow: features.ControlFlow{ForLoops: 1},
		NodeTypes:   map[string]int{},
	}
	syn := syntactic.Compare(ref, user, syntactic.DefaultWeights())

	result := Adjust(ref, user, syn, 6, 5, 10, 95)

	assert.True(t, result.Equivalent)
	assert.Equal(t, 10, result.Adjustment)
	assert.GreaterOrEqual(t, result.AdjustedIRSimilarity, 95)
	assert.Equal(t, Optimal, result.Efficiency)
}

func TestAdjust_ConfigurableMinorDiffFloor(t *testing.T) {
	ref := features.ParseFeatures{
		TotalNodes: 10,
		Functions:  []string{"f"},
		NodeTypes:  map[string]int{"declaration": 1},
	}
	user := features.ParseFeatures{TotalNodes: 9, Functions: []string{"f"}, NodeTypes: map[string]int{}}
	syn := syntactic.Compare(ref, user, syntactic.DefaultWeights())

	// A lowered floor with a zero intermediate boost leaves the adjusted
	// IR similarity at exactly the floor.
	result := Adjust(ref, user, syn, 10, 8, 0, 85)
	assert.True(t, result.Equivalent)
	assert.Equal(t, 85, result.AdjustedIRSimilarity)
	assert.Equal(t, VerySimilar, result.Efficiency)
}

func TestAdjust_NoMatchWhenControlFlowDiffers(t *testing.T) {
	ref := features.ParseFeatures{Functions: []string{"f"}, ControlFlow: features.ControlFlow{ForLoops: 1}}
	user := features.ParseFeatures{Functions: []string{"f"}, ControlFlow: features.ControlFlow{WhileLoops: 1}}
	syn := syntactic.Compare(ref, user, syntactic.DefaultWeights())

	result := Adjust(ref, user, syn, 3, 3, 10, 95)
	assert.False(t, result.Equivalent)
	assert.Equal(t, 0, result.Adjustment)
}

func TestAdjust_CapsAt100(t *testing.T) {
	ref := features.ParseFeatures{
		TotalNodes: 10, Functions: []string{"f"},
		NodeTypes: map[string]int{"declaration": 1}, Operations: features.Operations{Assignment: 1},
		VariableDeclarations: []string{"x"},
	}
	user := features.ParseFeatures{TotalNodes: 10, Functions: []string{"f"}, NodeTypes: map[string]int{}}
	syn := syntactic.Compare(ref, user, syntactic.DefaultWeights())

	result := Adjust(ref, user, syn, 2, 2, 10, 95)
	assert.LessOrEqual(t, result.AdjustedSyntactic, 100)
	assert.LessOrEqual(t, result.AdjustedIRSimilarity, 100)
}
