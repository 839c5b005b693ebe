package bytecode

import (
	"fmt"

	"wisp/value"
)

// Instruction is a single decoded instruction: its opcode, the operands
// as raw integers (already combined for two-byte jump operands), and the
// offset of the opcode byte within the chunk.
type Instruction struct {
	Op       OpCode
	Operands []int
	Offset   int
	Line     int
}

// Reader decodes instructions from a Chunk one at a time, tracking an
// instruction pointer. The VM and the disassembler both drive a Reader;
// neither indexes chunk bytes directly.
type Reader struct {
	chunk *Chunk
	ip    int
}

// NewReader returns a Reader positioned at the start of chunk.
func NewReader(chunk *Chunk) *Reader {
	return &Reader{chunk: chunk}
}

// IP returns the current instruction pointer, the offset of the next
// byte to be read.
func (r *Reader) IP() int {
	return r.ip
}

// SetIP repositions the reader, used to implement Jump/Loop/JumpIfFalse.
func (r *Reader) SetIP(ip int) {
	r.ip = ip
}

// AtEnd reports whether the reader has consumed the whole chunk.
func (r *Reader) AtEnd() bool {
	return r.ip >= r.chunk.Len()
}

// Next decodes the instruction at the current ip and advances past it.
// It returns an error if ip runs past the end of the chunk mid-operand,
// which indicates a malformed chunk rather than a normal runtime error.
func (r *Reader) Next() (Instruction, error) {
	if r.AtEnd() {
		return Instruction{}, fmt.Errorf("instruction pointer %d past end of chunk (len %d)", r.ip, r.chunk.Len())
	}
	offset := r.ip
	op := OpCode(r.chunk.ByteAt(offset))
	line := r.chunk.LineAt(offset)
	r.ip++

	widths := OperandWidths(op)
	operands := make([]int, 0, len(widths))
	for _, width := range widths {
		if r.ip+width > r.chunk.Len() {
			return Instruction{}, fmt.Errorf("truncated operand for %s at offset %d", op, offset)
		}
		switch width {
		case 1:
			operands = append(operands, int(r.chunk.ByteAt(r.ip)))
			r.ip++
		case 2:
			hi := int(r.chunk.ByteAt(r.ip))
			lo := int(r.chunk.ByteAt(r.ip + 1))
			operands = append(operands, hi<<8|lo)
			r.ip += 2
		default:
			return Instruction{}, fmt.Errorf("unsupported operand width %d for %s", width, op)
		}
	}

	return Instruction{Op: op, Operands: operands, Offset: offset, Line: line}, nil
}

// GetConstant resolves a constant-pool index operand against the
// reader's chunk.
func (r *Reader) GetConstant(index byte) value.Value {
	return r.chunk.GetConstant(index)
}
