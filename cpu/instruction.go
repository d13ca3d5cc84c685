package cpu

import (
	"iter"
)

// ArgKind is the kind of an instruction operand.
type ArgKind int

const (
	ARG_REG = ArgKind(0) // Register index.
	ARG_IMM = ArgKind(1) // Immediate value.
)

// Handler executes an instruction given its operand bytes.
type Handler func(cpu *Cpu, operands []uint8) (err error)

// Instruction describes a single entry of the instruction set.
type Instruction struct {
	Mnemonic string
	Args     []ArgKind
	Handler  Handler
}

// Operands returns the number of operand bytes consumed by the instruction.
func (inst Instruction) Operands() int {
	return len(inst.Args)
}

// instructionSet maps every opcode to its instruction.
// Entries with a nil handler are illegal opcodes.
var instructionSet = [256]Instruction{
	OP_HLT:  {"HLT", nil, (*Cpu).doHlt},
	OP_LDI:  {"LDI", []ArgKind{ARG_REG, ARG_IMM}, (*Cpu).doLdi},
	OP_PRN:  {"PRN", []ArgKind{ARG_REG}, (*Cpu).doPrn},
	OP_ADD:  {"ADD", []ArgKind{ARG_REG, ARG_REG}, (*Cpu).doAlu},
	OP_MUL:  {"MUL", []ArgKind{ARG_REG, ARG_REG}, (*Cpu).doAlu},
	OP_PUSH: {"PUSH", []ArgKind{ARG_REG}, (*Cpu).doPush},
	OP_POP:  {"POP", []ArgKind{ARG_REG}, (*Cpu).doPop},
	OP_CALL: {"CALL", []ArgKind{ARG_REG}, (*Cpu).doCall},
	OP_RET:  {"RET", nil, (*Cpu).doRet},
}

// Lookup returns the instruction for an opcode.
func Lookup(op Opcode) (inst Instruction, ok bool) {
	inst = instructionSet[op]
	ok = inst.Handler != nil
	return
}

// Instructions returns an iterator over all of the legal opcodes.
func Instructions() iter.Seq2[Opcode, Instruction] {
	return func(yield func(op Opcode, inst Instruction) bool) {
		for n, inst := range instructionSet {
			if inst.Handler == nil {
				continue
			}
			if !yield(Opcode(n), inst) {
				return
			}
		}
	}
}

func (cpu *Cpu) doHlt(operands []uint8) (err error) {
	cpu.Running = false
	cpu.halted = true
	return
}

func (cpu *Cpu) doLdi(operands []uint8) (err error) {
	err = cpu.Register.Set(int(operands[0]), operands[1])
	return
}

func (cpu *Cpu) doPrn(operands []uint8) (err error) {
	value, err := cpu.Register.Get(int(operands[0]))
	if err != nil {
		return
	}

	if cpu.Output == nil {
		err = ErrChannelInvalid
		return
	}

	err = cpu.Output.Send(value)
	return
}

func (cpu *Cpu) doAlu(operands []uint8) (err error) {
	err = cpu.Alu(cpu.Ir.AluOp(), int(operands[0]), int(operands[1]))
	return
}

// doPush reads the register after SP moves, so PUSH SP stores the new SP.
func (cpu *Cpu) doPush(operands []uint8) (err error) {
	reg := int(operands[0])
	_, err = cpu.Register.Get(reg)
	if err != nil {
		return
	}

	sp, err := cpu.stackDown()
	if err != nil {
		return
	}

	value, err := cpu.Register.Get(reg)
	if err != nil {
		return
	}

	err = cpu.Memory.Write(sp, value)
	return
}

// doPop writes the register before SP moves, so POP SP leaves the
// popped value plus one in SP.
func (cpu *Cpu) doPop(operands []uint8) (err error) {
	reg := int(operands[0])
	_, err = cpu.Register.Get(reg)
	if err != nil {
		return
	}

	value, err := cpu.peek()
	if err != nil {
		return
	}

	err = cpu.Register.Set(reg, value)
	if err != nil {
		return
	}

	cpu.stackUp()
	return
}

// doCall reads the target after the push, so CALL SP jumps to the new SP.
func (cpu *Cpu) doCall(operands []uint8) (err error) {
	reg := int(operands[0])
	_, err = cpu.Register.Get(reg)
	if err != nil {
		return
	}

	ret := cpu.Pc + 2
	if ret >= MEMORY_SIZE {
		err = ErrAddress(ret)
		return
	}

	err = cpu.push(uint8(ret))
	if err != nil {
		return
	}

	target, err := cpu.Register.Get(reg)
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	return
}

func (cpu *Cpu) doRet(operands []uint8) (err error) {
	ret, err := cpu.pop()
	if err != nil {
		return
	}

	cpu.Pc = int(ret)
	return
}
