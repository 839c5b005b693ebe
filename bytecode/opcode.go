package bytecode

import "fmt"

// OpCode is a single bytecode instruction's operation.
type OpCode byte

// The full, fixed instruction set. Operand arity is looked up via
// definitions below; the compiler and VM never hardcode an opcode's
// width anywhere else.
const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNegate
	OpNot
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpReturn
)

var opNames = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNegate:       "OP_NEGATE",
	OpNot:          "OP_NOT",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// OperandWidths gives the number of one-byte operands an opcode is
// encoded with, in encoding order. Jump operands occupy a single
// two-byte big-endian operand, reported here as width 2 so callers can
// distinguish it from the one-byte slot/const-index operands.
var operandWidths = map[OpCode][]int{
	OpConstant:     {1},
	OpGetLocal:     {1},
	OpSetLocal:     {1},
	OpGetGlobal:    {1},
	OpSetGlobal:    {1},
	OpDefineGlobal: {1},
	OpJump:         {2},
	OpJumpIfFalse:  {2},
	OpLoop:         {2},
}

// OperandWidths returns the operand widths for op, in the order they are
// encoded. An opcode not present in the table has no operands.
func OperandWidths(op OpCode) []int {
	return operandWidths[op]
}

// InstructionLen returns the total byte length of an instruction for op,
// including the opcode byte itself.
func InstructionLen(op OpCode) int {
	total := 1
	for _, w := range operandWidths[op] {
		total += w
	}
	return total
}
