// Package vm is wisp's stack-based bytecode interpreter. It has no
// registers: every opcode operates on an evaluation stack, locals are
// absolute stack slots, and globals live in a name-keyed table that
// persists across a VM's lifetime so a REPL session can build on
// earlier statements.
package vm

import (
	"fmt"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"

	"wisp/bytecode"
	"wisp/disasm"
	"wisp/value"
)

// VM is a stack-based virtual machine. It owns a globals table that
// outlives any single Run call, so callers that want persistent state
// across repeated program fragments (a REPL) should reuse one VM.
type VM struct {
	stack   Stack
	globals map[string]value.Value
	trace   bool
	logger  *logrus.Logger
}

// New returns a VM with an empty globals table.
func New() *VM {
	logger := logrus.New()
	logger.SetFormatter(&easy.Formatter{
		LogFormat: "%msg%\n",
	})
	return &VM{
		globals: make(map[string]value.Value),
		logger:  logger,
	}
}

// SetTrace enables or disables execution tracing: every instruction is
// logged, disassembled, alongside the stack state before it runs.
func (vm *VM) SetTrace(trace bool) {
	vm.trace = trace
	if trace {
		vm.logger.SetLevel(logrus.DebugLevel)
	} else {
		vm.logger.SetLevel(logrus.InfoLevel)
	}
}

// Run executes chunk to completion. The evaluation stack is reset to
// empty before execution starts; the globals table is not, so variables
// defined by a previous Run remain visible.
func (vm *VM) Run(chunk *bytecode.Chunk) error {
	vm.stack.Reset()
	reader := bytecode.NewReader(chunk)

	for {
		if reader.AtEnd() {
			return nil
		}

		inst, err := reader.Next()
		if err != nil {
			return err
		}

		if vm.trace {
			vm.logger.Debugf("%s  stack=%v", disasm.Instruction(chunk, inst, -1), vm.stack)
		}

		if err := vm.execute(chunk, reader, inst); err != nil {
			return err
		}
		if inst.Op == bytecode.OpReturn {
			return nil
		}
	}
}

func (vm *VM) execute(chunk *bytecode.Chunk, reader *bytecode.Reader, inst bytecode.Instruction) error {
	switch inst.Op {
	case bytecode.OpReturn:
		return nil

	case bytecode.OpConstant:
		vm.stack.Push(chunk.GetConstant(byte(inst.Operands[0])))

	case bytecode.OpNil:
		vm.stack.Push(value.Nil)

	case bytecode.OpTrue:
		vm.stack.Push(value.Boolean(true))

	case bytecode.OpFalse:
		vm.stack.Push(value.Boolean(false))

	case bytecode.OpPop:
		if _, ok := vm.stack.Pop(); !ok {
			return vm.runtimeError(inst, "stack underflow")
		}

	case bytecode.OpGetLocal:
		slot := inst.Operands[0]
		v, ok := vm.stack.Get(slot)
		if !ok {
			return vm.runtimeError(inst, fmt.Sprintf("invalid local slot %d", slot))
		}
		vm.stack.Push(v)

	case bytecode.OpSetLocal:
		slot := inst.Operands[0]
		v, ok := vm.stack.Peek()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		if !vm.stack.Set(slot, v) {
			return vm.runtimeError(inst, fmt.Sprintf("invalid local slot %d", slot))
		}

	case bytecode.OpGetGlobal:
		name, _ := chunk.GetConstant(byte(inst.Operands[0])).AsString()
		v, ok := vm.globals[name]
		if !ok {
			return vm.runtimeError(inst, fmt.Sprintf("Undefined variable '%s'.", name))
		}
		vm.stack.Push(v)

	case bytecode.OpSetGlobal:
		name, _ := chunk.GetConstant(byte(inst.Operands[0])).AsString()
		v, ok := vm.stack.Peek()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		if _, exists := vm.globals[name]; !exists {
			return vm.runtimeError(inst, fmt.Sprintf("Undefined variable '%s'.", name))
		}
		vm.globals[name] = v

	case bytecode.OpDefineGlobal:
		name, _ := chunk.GetConstant(byte(inst.Operands[0])).AsString()
		v, ok := vm.stack.Pop()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		vm.globals[name] = v

	case bytecode.OpEqual:
		b, okb := vm.stack.Pop()
		a, oka := vm.stack.Pop()
		if !oka || !okb {
			return vm.runtimeError(inst, "stack underflow")
		}
		vm.stack.Push(value.Boolean(value.Equal(a, b)))

	case bytecode.OpGreater, bytecode.OpLess:
		b, okb := vm.stack.Pop()
		a, oka := vm.stack.Pop()
		if !oka || !okb {
			return vm.runtimeError(inst, "stack underflow")
		}
		cmp, ok := value.Compare(a, b)
		if !ok {
			return vm.runtimeError(inst, "Operands must be numbers.")
		}
		if inst.Op == bytecode.OpGreater {
			vm.stack.Push(value.Boolean(cmp > 0))
		} else {
			vm.stack.Push(value.Boolean(cmp < 0))
		}

	case bytecode.OpAdd:
		b, okb := vm.stack.Pop()
		a, oka := vm.stack.Pop()
		if !oka || !okb {
			return vm.runtimeError(inst, "stack underflow")
		}
		if an, aok := a.AsNumber(); aok {
			if bn, bok := b.AsNumber(); bok {
				vm.stack.Push(value.Number(an + bn))
				break
			}
		}
		if as, aok := a.AsString(); aok {
			if bs, bok := b.AsString(); bok {
				vm.stack.Push(value.String(as + bs))
				break
			}
		}
		return vm.runtimeError(inst, "Operands must be two numbers or two strings.")

	case bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide:
		b, okb := vm.stack.Pop()
		a, oka := vm.stack.Pop()
		if !oka || !okb {
			return vm.runtimeError(inst, "stack underflow")
		}
		an, aok := a.AsNumber()
		bn, bok := b.AsNumber()
		if !aok || !bok {
			return vm.runtimeError(inst, "Operands must be numbers.")
		}
		switch inst.Op {
		case bytecode.OpSubtract:
			vm.stack.Push(value.Number(an - bn))
		case bytecode.OpMultiply:
			vm.stack.Push(value.Number(an * bn))
		case bytecode.OpDivide:
			vm.stack.Push(value.Number(an / bn))
		}

	case bytecode.OpNegate:
		a, ok := vm.stack.Pop()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		n, ok := a.AsNumber()
		if !ok {
			return vm.runtimeError(inst, "Attempt to negate a non-numeric value")
		}
		vm.stack.Push(value.Number(-n))

	case bytecode.OpNot:
		a, ok := vm.stack.Pop()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		b, ok := a.AsBoolean()
		if !ok {
			return vm.runtimeError(inst, "Operand must be a boolean.")
		}
		vm.stack.Push(value.Boolean(!b))

	case bytecode.OpPrint:
		v, ok := vm.stack.Pop()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		fmt.Println(v.String())

	case bytecode.OpJump:
		reader.SetIP(reader.IP() + inst.Operands[0])

	case bytecode.OpJumpIfFalse:
		v, ok := vm.stack.Peek()
		if !ok {
			return vm.runtimeError(inst, "stack underflow")
		}
		b, ok := v.AsBoolean()
		if !ok {
			return vm.runtimeError(inst, "Operand must be a boolean.")
		}
		if !b {
			reader.SetIP(reader.IP() + inst.Operands[0])
		}

	case bytecode.OpLoop:
		reader.SetIP(reader.IP() - inst.Operands[0])

	default:
		return vm.runtimeError(inst, fmt.Sprintf("unknown opcode %s", inst.Op))
	}

	return nil
}

func (vm *VM) runtimeError(inst bytecode.Instruction, msg string) error {
	return &RuntimeError{
		Line:    inst.Line,
		Offset:  inst.Offset,
		Inst:    inst,
		Message: msg,
	}
}
