package cpu

import (
	"fmt"
)

// AluOp is an ALU operation type, as found in the low nibble of an ALU opcode.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0b0000) // add
	ALU_OP_MUL = AluOp(0b0010) // mul
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_MUL:
		return "mul"
	}

	return fmt.Sprintf("AluOp(%d)", int(op))
}

// Alu performs the ALU operation on registers dst and src, storing
// the result in dst. Results wrap at 8 bits.
func (cpu *Cpu) Alu(op AluOp, dst, src int) (err error) {
	a, err := cpu.Register.Get(dst)
	if err != nil {
		return
	}

	b, err := cpu.Register.Get(src)
	if err != nil {
		return
	}

	var output uint8
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_MUL:
		output = a * b
	default:
		err = ErrUnsupportedAluOp
		return
	}

	err = cpu.Register.Set(dst, output)
	return
}
