package vm

import (
	"fmt"
	"strconv"
	"strings"

	"wisp/bytecode"
)

// RuntimeError reports a failure raised while executing a chunk: a type
// mismatch, an undefined global, or a stack discipline violation. Its
// Error text always names the source line, the byte code offset of the
// failing instruction, and the instruction itself, so a wisp program's
// runtime errors are as locatable as its compile errors.
type RuntimeError struct {
	Line    int
	Offset  int
	Inst    bytecode.Instruction
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[source line %d, byte code offset %d, inst '%s'] %s",
		e.Line, e.Offset, formatInst(e.Inst), e.Message)
}

func formatInst(inst bytecode.Instruction) string {
	parts := make([]string, 0, 1+len(inst.Operands))
	parts = append(parts, inst.Op.String())
	for _, operand := range inst.Operands {
		parts = append(parts, strconv.Itoa(operand))
	}
	return strings.Join(parts, " ")
}
