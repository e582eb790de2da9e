package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codejudge/internal/ops"
	"codejudge/internal/tac"
)

func histOf(ir string) (ops.Histogram, tac.NormalizedProgram) {
	p := tac.Normalize(ir)
	return ops.Extract(p), p
}

// A hardcoded constant return against an add reference: fails with a
// missing add and a recorded literal.
func TestCheck_AddVsHardcoded(t *testing.T) {
	refHist, _ := histOf("define i32 @add(i32 %a, i32 %b) {\n  %1 = add i32 %a, %b\n  ret i32 %1\n}")
	userHist, userProg := histOf("define i32 @add(i32 %a, i32 %b) {\n  ret i32 8\n}")

	report := Check(refHist, userHist, userProg)

	assert.False(t, report.Passed)
	require.Len(t, report.Comparison.Missing, 1)
	assert.Equal(t, tac.OpAdd, report.Comparison.Missing[0].Opcode)
	assert.True(t, report.Hardcoded.Detected)
	assert.Equal(t, "8", report.Hardcoded.Literal)
}

// Scenario 3: commutative reorder normalizes identically and the logic
// check reports an exact match.
func TestCheck_CommutativeReorder_ExactMatch(t *testing.T) {
	refHist, _ := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = add i32 %a, %b\n  ret i32 %1\n}")
	userHist, userProg := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = add i32 %b, %a\n  ret i32 %1\n}")

	report := Check(refHist, userHist, userProg)

	assert.True(t, report.Passed)
	assert.True(t, report.ExactMatch)
	assert.Equal(t, "TAC operations match", report.Reason)
}

// Scenario 4: extra multiplication.
func TestCheck_ExtraMultiplication(t *testing.T) {
	refHist, _ := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = add i32 %a, %b\n  ret i32 %1\n}")
	userHist, userProg := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = mul i32 %a, 1\n  %2 = add i32 %1, %b\n  ret i32 %2\n}")

	report := Check(refHist, userHist, userProg)

	assert.False(t, report.Passed)
	require.Len(t, report.Comparison.Extra, 1)
	assert.Equal(t, tac.OpMul, report.Comparison.Extra[0].Opcode)
}

func TestCheck_CountMismatch_PassesButNotExact(t *testing.T) {
	// Reference multiplies once; user multiplies twice (a redundant "* 1"),
	// giving a count mismatch on the critical mul opcode while no critical
	// opcode is missing or extra.
	refHist, _ := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = mul i32 %a, %b\n  ret i32 %1\n}")
	userHist, userProg := histOf(`define i32 @f(i32 %a, i32 %b) {
  %1 = mul i32 %a, %b
  %2 = mul i32 %1, 1
  ret i32 %2
}`)

	report := Check(refHist, userHist, userProg)

	assert.True(t, report.Passed)
	assert.False(t, report.ExactMatch)
	require.Len(t, report.Comparison.MismatchedCounts, 1)
	assert.Equal(t, tac.OpMul, report.Comparison.MismatchedCounts[0].Opcode)
	assert.Equal(t, "Operation count mismatch", report.Reason)
}

// Reference non-zero for a critical opcode, user
// zero => passed must be false.
func TestCheck_LogicMonotonicity(t *testing.T) {
	refHist, _ := histOf("define i32 @f(i32 %a, i32 %b) {\n  %1 = sub i32 %a, %b\n  ret i32 %1\n}")
	userHist, userProg := histOf("define i32 @f(i32 %a, i32 %b) {\n  ret i32 %a\n}")

	report := Check(refHist, userHist, userProg)
	assert.False(t, report.Passed)
}

// Scenario 6: empty programs.
func TestCheck_EmptyPrograms(t *testing.T) {
	refHist, _ := histOf("")
	userHist, userProg := histOf("")

	report := Check(refHist, userHist, userProg)
	assert.True(t, report.Passed)
	assert.True(t, report.ExactMatch)
}

func TestCheck_NoHardcodedWhenReturningVariable(t *testing.T) {
	userHist, userProg := histOf("define i32 @f(i32 %a) {\n  ret i32 %a\n}")
	refHist, _ := histOf("define i32 @f(i32 %a) {\n  %1 = add i32 %a, %a\n  ret i32 %1\n}")

	report := Check(refHist, userHist, userProg)
	assert.False(t, report.Hardcoded.Detected)
}

func TestCheck_NoHardcodedForNonNumericConstant(t *testing.T) {
	refHist, _ := histOf("define i1 @f(i32 %a) {\n  %1 = call i1 @helper(i32 %a)\n  ret i1 %1\n}")
	userHist, userProg := histOf("define i1 @f(i32 %a) {\n  ret i1 true\n}")

	report := Check(refHist, userHist, userProg)

	// The boolean constant is not a numeric literal, so no hardcoded
	// finding; the check still fails on the missing call.
	assert.False(t, report.Hardcoded.Detected)
	assert.False(t, report.Passed)
	require.Len(t, report.Comparison.Missing, 1)
	assert.Equal(t, tac.OpCall, report.Comparison.Missing[0].Opcode)
}
