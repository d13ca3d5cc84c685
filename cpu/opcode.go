package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the leading byte of an instruction.
type Opcode uint8

const (
	OP_HLT  = Opcode(0b0000_0001) // hlt
	OP_LDI  = Opcode(0b1000_0010) // ldi
	OP_PRN  = Opcode(0b0100_0111) // prn
	OP_ADD  = Opcode(0b1010_0000) // add
	OP_MUL  = Opcode(0b1010_0010) // mul
	OP_PUSH = Opcode(0b0100_0101) // push
	OP_POP  = Opcode(0b0100_0110) // pop
	OP_CALL = Opcode(0b0101_0000) // call
	OP_RET  = Opcode(0b0001_0001) // ret
)

// Opcode field layout.
const (
	OPCODE_OPERANDS_SHIFT = 6              // Operand count in the top two bits.
	OPCODE_ALU            = Opcode(1 << 5) // ALU operation.
	OPCODE_SETS_PC        = Opcode(1 << 4) // Instruction sets PC directly.
	OPCODE_ALU_OP_MASK    = Opcode(0x0f)   // ALU operation in the low nibble.
)

// Operands returns the number of operand bytes encoded in the opcode.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// IsAlu returns true if the opcode is an ALU operation.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the instruction sets the PC, instead of
// advancing past its operands.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

// AluOp returns the ALU operation of an ALU opcode.
func (op Opcode) AluOp() AluOp {
	return AluOp(op & OPCODE_ALU_OP_MASK)
}

// String returns the mnemonic of the opcode, or its binary encoding
// if the opcode is not part of the instruction set.
func (op Opcode) String() string {
	inst, ok := Lookup(op)
	if ok {
		return inst.Mnemonic
	}

	return fmt.Sprintf("0b%08b", uint8(op))
}

// Code is a fetched instruction: the opcode and its operand bytes.
type Code struct {
	Opcode   Opcode
	Operands []uint8
}

// Len returns the number of bytes of memory occupied by the instruction.
func (code Code) Len() int {
	return 1 + len(code.Operands)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	words := []string{code.Opcode.String()}
	for _, operand := range code.Operands {
		words = append(words, fmt.Sprintf("0x%02x", operand))
	}

	return strings.Join(words, " ")
}
