package tac

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addIR = `
define i32 @add(i32 %a, i32 %b) {
entry:
  %1 = alloca i32, align 4
  %2 = alloca i32, align 4
  store i32 %a, i32* %1, align 4
  store i32 %b, i32* %2, align 4
  %3 = load i32, i32* %1, align 4
  %4 = load i32, i32* %2, align 4
  %5 = add nsw i32 %3, %4
  ret i32 %5
}
`

const addIRReordered = `
define i32 @add(i32 %a, i32 %b) {
entry:
  %x = alloca i32, align 4
  %y = alloca i32, align 4
  store i32 %a, i32* %x, align 4
  store i32 %b, i32* %y, align 4
  %p = load i32, i32* %x, align 4
  %q = load i32, i32* %y, align 4
  %r = add nsw i32 %q, %p
  ret i32 %r
}
`

func TestNormalize_Determinism(t *testing.T) {
	a := Normalize(addIR)
	b := Normalize(addIR)
	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestNormalize_AlphaInvariance(t *testing.T) {
	// addIRReordered uses different temp names and a flipped operand order
	// on the commutative add; canonicalization should make them equal.
	a := Normalize(addIR)
	b := Normalize(addIRReordered)
	assert.Equal(t, a, b)
}

func TestNormalize_CommutativeCanonicalization(t *testing.T) {
	xy := Normalize("define i32 @f() {\n  %1 = add i32 %a, %b\n  ret i32 %1\n}")
	yx := Normalize("define i32 @f() {\n  %1 = add i32 %b, %a\n  ret i32 %1\n}")
	assert.Equal(t, xy, yx)
}

// TestCanonicalize_OperandOrderIrrelevant exercises pass 4 directly, on
// already-renamed operands, independent of any renaming order effects.
func TestCanonicalize_OperandOrderIrrelevant(t *testing.T) {
	x := Operand{Kind: OperandTemp, Text: "t3"}
	y := Operand{Kind: OperandTemp, Text: "t7"}

	forward := canonicalize([]Instruction{{Op: OpAdd, Arg1: x, Arg2: y}})
	backward := canonicalize([]Instruction{{Op: OpAdd, Arg1: y, Arg2: x}})
	assert.Equal(t, forward, backward)

	forwardMul := canonicalize([]Instruction{{Op: OpMul, Arg1: x, Arg2: y}})
	backwardMul := canonicalize([]Instruction{{Op: OpMul, Arg1: y, Arg2: x}})
	assert.Equal(t, forwardMul, backwardMul)
}

func TestNormalize_FilterIdempotence(t *testing.T) {
	p := Normalize(addIR)
	once := Filter(p)
	twice := Filter(once)
	assert.Equal(t, once, twice)
}

func TestNormalize_DropsAllocaAndMetadata(t *testing.T) {
	ir := `
; ModuleID = 'add.c'
define dso_local i32 @add(i32 %0, i32 %1) #0 {
  %3 = alloca i32, align 4
  %4 = alloca i32, align 4
  store i32 %0, i32* %3, align 4, !dbg !10
  store i32 %1, i32* %4, align 4
  %5 = load i32, i32* %3, align 4
  %6 = load i32, i32* %4, align 4
  %7 = add nsw i32 %5, %6
  ret i32 %7
}

attributes #0 = { noinline nounwind }
!llvm.module.flags = !{!0}
!10 = !DILocation(line: 1)
`
	p := Normalize(ir)
	for _, inst := range p.Instructions {
		assert.NotEqual(t, OpAlloca, inst.Op)
	}
	// The first store carries an inline "!dbg" reference and is dropped
	// whole by the Clean pass, leaving 1 store, 2 loads, 1 add, 1 return.
	require.Equal(t, 5, p.InstructionCount)
}

func TestNormalize_HardcodedReturn(t *testing.T) {
	p := Normalize("define i32 @add(i32 %a, i32 %b) {\n  ret i32 8\n}")
	require.Len(t, p.Instructions, 1)
	inst := p.Instructions[0]
	assert.Equal(t, OpReturn, inst.Op)
	assert.Equal(t, OperandConst, inst.Value.Kind)
	assert.Equal(t, "8", inst.Value.Text)
}

func TestNormalize_RetVoid(t *testing.T) {
	p := Normalize("define void @noop() {\n  ret void\n}")
	require.Len(t, p.Instructions, 1)
	assert.True(t, p.Instructions[0].Value.IsZero())
}

func TestNormalize_Call(t *testing.T) {
	p := Normalize(`define i32 @main() {
  %1 = call i32 @helper(i32 1, i32 2)
  ret i32 %1
}`)
	require.Len(t, p.Instructions, 2)
	call := p.Instructions[0]
	assert.Equal(t, OpCall, call.Op)
	assert.True(t, call.HasDest)
	assert.Equal(t, "helper", call.Func.Text)
}

func TestNormalize_EmptyProgram(t *testing.T) {
	p := Normalize("")
	assert.Equal(t, 0, p.InstructionCount)
	assert.Empty(t, p.Instructions)
}

func TestNormalize_DivVariants(t *testing.T) {
	for _, op := range []string{"sdiv", "udiv"} {
		ir := "define i32 @f(i32 %a, i32 %b) {\n  %1 = " + op + " i32 %a, %b\n  ret i32 %1\n}"
		p := Normalize(ir)
		require.Len(t, p.Instructions, 2)
		assert.Equal(t, OpDiv, p.Instructions[0].Op)
	}
}

func TestNormalize_DiagnosticTextTolerated(t *testing.T) {
	// A failure text from the IR producer, beginning with the comment
	// marker, should normalize to an empty program rather than erroring.
	p := Normalize("; error: could not compile reference.c\n; clang exited with status 1\n")
	assert.Empty(t, p.Instructions)
	assert.True(t, strings.HasPrefix("; error: could not compile reference.c", ";"))
}
