package logic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"codejudge/internal/ops"
	"codejudge/internal/tac"
)

// arithmeticOpcodes is the subset of the critical alphabet the hardcoded-
// return detector inspects.
var arithmeticOpcodes = []tac.Opcode{tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv}

// Check compares a reference and a user OperationHistogram over the
// critical alphabet and inspects the user's NormalizedProgram for a
// hardcoded-constant return, producing a deterministic LogicReport.
func Check(reference, user ops.Histogram, userProgram tac.NormalizedProgram) Report {
	var comparison Comparison

	for _, op := range CriticalAlphabet {
		r, u := reference.Count(op), user.Count(op)
		switch {
		case r > 0 && u == 0:
			comparison.Missing = append(comparison.Missing, Discrepancy{Opcode: op, RefCount: r, UserCount: u})
		case r == 0 && u > 0:
			comparison.Extra = append(comparison.Extra, Discrepancy{Opcode: op, RefCount: r, UserCount: u})
		case r > 0 && u > 0 && r != u:
			comparison.MismatchedCounts = append(comparison.MismatchedCounts, Discrepancy{Opcode: op, RefCount: r, UserCount: u})
		}
	}

	hardcoded := detectHardcodedReturn(userProgram)

	passed := len(comparison.Missing) == 0 && len(comparison.Extra) == 0 && !hardcoded.Detected
	exactMatch := passed && len(comparison.MismatchedCounts) == 0

	reason, message := classify(comparison, hardcoded, exactMatch)

	return Report{
		Passed:     passed,
		ExactMatch: exactMatch,
		Message:    message,
		Reason:     reason,
		Comparison: comparison,
		Hardcoded:  hardcoded,
	}
}

// classify produces the report's reason (a short deterministic tag) and
// message (the user-visible sentence). Hardcoded findings take precedence,
// then missing, then extra, then count mismatches.
func classify(c Comparison, h HardcodedReturn, exactMatch bool) (reason, message string) {
	switch {
	case h.Detected:
		reason = fmt.Sprintf("Hardcoded return value: %s", h.Literal)
		message = fmt.Sprintf(
			"The user program returns a hardcoded constant (%s) without performing any of the reference's arithmetic.",
			h.Literal)
	case len(c.Missing) > 0:
		reason = "Missing operations: " + joinOpcodes(c.Missing)
		message = "The reference program uses operations the user program never performs: " + joinOpcodes(c.Missing) + "."
	case len(c.Extra) > 0:
		reason = "Extra operations: " + joinOpcodes(c.Extra)
		message = "The user program performs operations the reference never needed: " + joinOpcodes(c.Extra) + "."
	case len(c.MismatchedCounts) > 0:
		reason = "Operation count mismatch"
		message = "Operations match but counts differ: different but plausibly valid implementation."
	default:
		reason = "TAC operations match"
		message = "Reference and user programs use identical critical operations."
	}
	return reason, message
}

func joinOpcodes(ds []Discrepancy) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d.Opcode)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// detectHardcodedReturn flags a user program that returns a numeric
// literal: triggered when the program has at least one return
// instruction and performs none of the arithmetic opcodes. Only inspects
// the user program.
func detectHardcodedReturn(user tac.NormalizedProgram) HardcodedReturn {
	hasReturn := false
	hasArithmetic := false
	var literal string
	literalFound := false

	for _, inst := range user.Instructions {
		if inst.Op == tac.OpReturn {
			hasReturn = true
			if !literalFound && inst.Value.Kind == tac.OperandConst && isNumericLiteral(inst.Value.Text) {
				literal = inst.Value.Text
				literalFound = true
			}
			continue
		}
		for _, arith := range arithmeticOpcodes {
			if inst.Op == arith {
				hasArithmetic = true
			}
		}
	}

	if !hasReturn || hasArithmetic || !literalFound {
		return HardcodedReturn{}
	}
	return HardcodedReturn{Detected: true, Literal: literal}
}

// isNumericLiteral distinguishes numeric return constants from the other
// constant spellings the IR can return (true, false, undef, null).
func isNumericLiteral(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
