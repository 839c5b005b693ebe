// Package disasm is a read-only pretty-printer over a bytecode.Chunk. It
// never mutates the chunk it renders; the compiler builds chunks and the
// VM runs them, this package only describes them.
package disasm

import (
	"fmt"
	"strings"

	"wisp/bytecode"
)

// Chunk renders every instruction in chunk under a `== name ==` header.
func Chunk(name string, chunk *bytecode.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	r := bytecode.NewReader(chunk)
	prevLine := -1
	for !r.AtEnd() {
		inst, err := r.Next()
		if err != nil {
			fmt.Fprintf(&b, "<malformed chunk: %v>\n", err)
			break
		}
		b.WriteString(Instruction(chunk, inst, prevLine))
		b.WriteString("\n")
		prevLine = inst.Line
	}
	return b.String()
}

// Instruction renders a single decoded instruction on one line:
//
//	<offset:04> <line:4 or '   |'> <OpCode> [operand:04]... [annotation]
//
// prevLine is the source line of the instruction rendered immediately
// before this one (pass -1 for the first instruction in a chunk); when
// it equals inst.Line, the line column prints '   |' instead of
// repeating the line number.
func Instruction(chunk *bytecode.Chunk, inst bytecode.Instruction, prevLine int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", inst.Offset)
	if inst.Line == prevLine {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", inst.Line)
	}
	b.WriteString(inst.Op.String())
	for _, operand := range inst.Operands {
		fmt.Fprintf(&b, " %04d", operand)
	}
	b.WriteString(annotate(chunk, inst))
	return b.String()
}

// annotate renders the trailing ' <value>' or ' Stack[<slot>]' field for
// opcodes whose operand indexes into the constant pool or the VM's
// local-variable stack slots, respectively.
func annotate(chunk *bytecode.Chunk, inst bytecode.Instruction) string {
	switch inst.Op {
	case bytecode.OpConstant, bytecode.OpGetGlobal, bytecode.OpSetGlobal, bytecode.OpDefineGlobal:
		if len(inst.Operands) == 0 {
			return ""
		}
		v := chunk.GetConstant(byte(inst.Operands[0]))
		return fmt.Sprintf(" %s", v.String())
	case bytecode.OpGetLocal, bytecode.OpSetLocal:
		if len(inst.Operands) == 0 {
			return ""
		}
		return fmt.Sprintf(" Stack[%d]", inst.Operands[0])
	default:
		return ""
	}
}
