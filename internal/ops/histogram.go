// Package ops reduces a normalized instruction stream to a histogram over
// the fixed opcode alphabet.
package ops

import "codejudge/internal/tac"

// Alphabet is the fixed set of opcodes an OperationHistogram always reports
// counts for, in a stable display order. alloca is always zero after the
// Normalizer's filter pass but is retained for compatibility with upstream
// callers that supply pre-filter instruction data.
var Alphabet = []tac.Opcode{
	tac.OpAdd,
	tac.OpSub,
	tac.OpMul,
	tac.OpDiv,
	tac.OpCall,
	tac.OpReturn,
	tac.OpLoad,
	tac.OpStore,
	tac.OpAlloca,
}

// Histogram is a mapping from the fixed opcode alphabet to non-negative
// counts. Keys absent from the alphabet are meaningless; keys in the
// alphabet but never observed read as zero.
type Histogram map[tac.Opcode]int

// Count returns the count for opcode op, treating an absent key as zero.
func (h Histogram) Count(op tac.Opcode) int {
	return h[op]
}

// Extract performs a single pass over a NormalizedProgram's instruction
// sequence and returns its OperationHistogram.
func Extract(p tac.NormalizedProgram) Histogram {
	h := make(Histogram, len(Alphabet))
	for _, op := range Alphabet {
		h[op] = 0
	}
	for _, inst := range p.Instructions {
		h[inst.Op]++
	}
	return h
}
