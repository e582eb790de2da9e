package tac

import (
	"fmt"
	"strings"
)

// String renders an Instruction in a compact three-address form, mainly
// useful for debugging and golden-output tests.
func (i Instruction) String() string {
	switch i.Op {
	case OpAlloca:
		return fmt.Sprintf("%s = alloca", i.Dest.Text)
	case OpLoad:
		return fmt.Sprintf("%s = load %s", i.Dest.Text, i.Addr.Text)
	case OpStore:
		return fmt.Sprintf("store %s, %s", i.Value.Text, i.Addr.Text)
	case OpCall:
		if i.HasDest {
			return fmt.Sprintf("%s = call %s", i.Dest.Text, i.Func.Text)
		}
		return fmt.Sprintf("call %s", i.Func.Text)
	case OpReturn:
		if i.Value.IsZero() {
			return "return"
		}
		return fmt.Sprintf("return %s", i.Value.Text)
	default:
		return fmt.Sprintf("%s = %s %s, %s", i.Dest.Text, i.Op, i.Arg1.Text, i.Arg2.Text)
	}
}

// String renders a NormalizedProgram as one instruction per line.
func (p NormalizedProgram) String() string {
	lines := make([]string, len(p.Instructions))
	for i, inst := range p.Instructions {
		lines[i] = inst.String()
	}
	return strings.Join(lines, "\n")
}
