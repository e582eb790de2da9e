package tac

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	modifierFlags = regexp.MustCompile(`\b(nsw|nuw|exact|inbounds)\b`)
	multiSpace    = regexp.MustCompile(`\s+`)

	allocaPattern  = regexp.MustCompile(`^(%[A-Za-z0-9_.]+)\s*=\s*alloca\b`)
	storePattern   = regexp.MustCompile(`^store\s+\S+\s+([^,]+),\s*\S+\s+(%[A-Za-z0-9_.]+)`)
	loadPattern    = regexp.MustCompile(`^(%[A-Za-z0-9_.]+)\s*=\s*load\s+[^,]+,\s*\S+\s+(%[A-Za-z0-9_.]+)`)
	arithPattern   = regexp.MustCompile(`^(%[A-Za-z0-9_.]+)\s*=\s*(add|sub|mul|udiv|sdiv|div)\s+\S+\s+([^,]+),\s*(.+)$`)
	callPattern    = regexp.MustCompile(`^(?:(%[A-Za-z0-9_.]+)\s*=\s*)?call\s+\S+\s+(@[A-Za-z0-9_.]+)\s*\(`)
	retVoidPattern = regexp.MustCompile(`^ret\s+void\s*$`)
	retPattern     = regexp.MustCompile(`^ret\s+\S+\s+(.+)$`)
)

// Normalize runs the five-pass IR Normalizer pipeline over raw IR
// text and returns the resulting NormalizedProgram. It never fails: lines it
// cannot interpret are silently dropped.
func Normalize(irText string) NormalizedProgram {
	lines := clean(irText)
	raw := convert(lines)
	renamed := rename(raw)
	canonical := canonicalize(renamed)
	return filter(canonical)
}

// clean is pass 1: split into lines, trim, and drop everything that is not
// an instruction line.
func clean(irText string) []string {
	var kept []string
	for _, line := range strings.Split(irText, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, ";"):
		case strings.HasPrefix(line, "define"):
		case strings.HasPrefix(line, "declare"):
		case strings.HasPrefix(line, "attributes"):
		case strings.HasPrefix(line, "!"):
		case strings.Contains(line, "!dbg"):
		case line == "{" || line == "}":
		default:
			kept = append(kept, line)
		}
	}
	return kept
}

// convert is pass 2: match each cleaned line against the fixed opcode
// pattern family and emit a raw Instruction with un-renamed operand text.
func convert(lines []string) []Instruction {
	var out []Instruction
	for _, line := range lines {
		line = strings.TrimSpace(multiSpace.ReplaceAllString(modifierFlags.ReplaceAllString(line, ""), " "))
		if line == "" {
			continue
		}

		if m := allocaPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Instruction{
				Dest: rawOperand(m[1]), HasDest: true, Op: OpAlloca,
			})
			continue
		}
		if m := storePattern.FindStringSubmatch(line); m != nil {
			out = append(out, Instruction{
				Op:    OpStore,
				Value: rawOperand(strings.TrimSpace(m[1])),
				Addr:  rawOperand(m[2]),
			})
			continue
		}
		if m := loadPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Instruction{
				Dest: rawOperand(m[1]), HasDest: true, Op: OpLoad,
				Addr: rawOperand(m[2]),
			})
			continue
		}
		if m := arithPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Instruction{
				Dest: rawOperand(m[1]), HasDest: true, Op: arithOpcode(m[2]),
				Arg1: rawOperand(strings.TrimSpace(m[3])),
				Arg2: rawOperand(strings.TrimSpace(m[4])),
			})
			continue
		}
		if m := callPattern.FindStringSubmatch(line); m != nil {
			inst := Instruction{Op: OpCall, Func: rawOperand(m[2])}
			if m[1] != "" {
				inst.Dest = rawOperand(m[1])
				inst.HasDest = true
			}
			out = append(out, inst)
			continue
		}
		if retVoidPattern.MatchString(line) {
			out = append(out, Instruction{Op: OpReturn})
			continue
		}
		if m := retPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Instruction{
				Op:    OpReturn,
				Value: rawOperand(strings.TrimSpace(m[1])),
			})
			continue
		}
		// Unrecognized line: dropped.
	}
	return out
}

// arithOpcode maps the signed/unsigned division spellings onto the single
// "div" opcode in our instruction alphabet.
func arithOpcode(token string) Opcode {
	switch token {
	case "udiv", "sdiv", "div":
		return OpDiv
	default:
		return Opcode(token)
	}
}

// rawOperand classifies a textual operand token by the IR's SSA sigil
// ("%"), its symbol sigil ("@"), or else treats it as a constant.
func rawOperand(token string) Operand {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return Operand{}
	case strings.HasPrefix(token, "%"):
		return Operand{Kind: OperandTemp, Text: token}
	case strings.HasPrefix(token, "@"):
		return Operand{Kind: OperandSymbol, Text: strings.TrimPrefix(token, "@")}
	default:
		return Operand{Kind: OperandConst, Text: token}
	}
}

// rename is pass 3: walk the sequence in order, mapping original temporary
// names to dense fresh names t1, t2, ... assigned on first encounter.
func rename(instrs []Instruction) []Instruction {
	names := map[string]string{}
	next := 1

	freshen := func(op Operand) Operand {
		if op.Kind != OperandTemp {
			return op
		}
		name, ok := names[op.Text]
		if !ok {
			name = "t" + strconv.Itoa(next)
			names[op.Text] = name
			next++
		}
		return Operand{Kind: OperandTemp, Text: name}
	}

	out := make([]Instruction, len(instrs))
	for i, inst := range instrs {
		if inst.HasDest {
			inst.Dest = freshen(inst.Dest)
		}
		inst.Arg1 = freshen(inst.Arg1)
		inst.Arg2 = freshen(inst.Arg2)
		inst.Addr = freshen(inst.Addr)
		inst.Value = freshen(inst.Value)
		// inst.Func is a symbol, never renamed.
		out[i] = inst
	}
	return out
}

// canonicalize is pass 4: for commutative opcodes, reorder the operand pair
// so arg1 <= arg2 under lexicographic comparison of their textual form.
func canonicalize(instrs []Instruction) []Instruction {
	out := make([]Instruction, len(instrs))
	for i, inst := range instrs {
		if commutative(inst.Op) && inst.Arg2.Text < inst.Arg1.Text {
			inst.Arg1, inst.Arg2 = inst.Arg2, inst.Arg1
		}
		out[i] = inst
	}
	return out
}

// filter is pass 5: keep only instructions in the countable opcode
// alphabet; instruction_count is the length of the kept sequence.
func filter(instrs []Instruction) NormalizedProgram {
	kept := make([]Instruction, 0, len(instrs))
	for _, inst := range instrs {
		if countableAlphabet[inst.Op] {
			kept = append(kept, inst)
		}
	}
	return NormalizedProgram{Instructions: kept, InstructionCount: len(kept)}
}

// Filter re-applies pass 5 to an already-built NormalizedProgram. It is
// idempotent: filtering an already-filtered program returns it unchanged.
func Filter(p NormalizedProgram) NormalizedProgram {
	return filter(p.Instructions)
}
