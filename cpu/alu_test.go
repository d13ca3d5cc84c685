package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     AluOp
		a, b   uint8
		result uint8
	}){
		{"add", ALU_OP_ADD, 3, 4, 7},
		{"add_zero", ALU_OP_ADD, 0x55, 0, 0x55},
		{"add_wrap", ALU_OP_ADD, 200, 100, 44},
		{"mul", ALU_OP_MUL, 8, 9, 72},
		{"mul_zero", ALU_OP_MUL, 0x55, 0, 0},
		{"mul_wrap", ALU_OP_MUL, 16, 16, 0},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register[2] = entry.a
		cpu.Register[5] = entry.b

		err := cpu.Alu(entry.op, 2, 5)
		assert.NoError(err, entry.name)
		assert.Equal(entry.result, cpu.Register[2], entry.name)
		assert.Equal(entry.b, cpu.Register[5], entry.name)
	}
}

func TestAlu_SameRegister(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 12

	assert.NoError(cpu.Alu(ALU_OP_ADD, 0, 0))
	assert.Equal(uint8(24), cpu.Register[0])
}

func TestAlu_Errors(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 3
	cpu.Register[1] = 4

	for _, op := range []AluOp{AluOp(1), AluOp(3), AluOp(0xf)} {
		err := cpu.Alu(op, 0, 1)
		assert.ErrorIs(err, ErrUnsupportedAluOp, op.String())
		assert.Equal(uint8(3), cpu.Register[0])
	}

	assert.ErrorIs(cpu.Alu(ALU_OP_ADD, 8, 1), ErrInvalidRegister)
	assert.ErrorIs(cpu.Alu(ALU_OP_ADD, 0, 8), ErrInvalidRegister)
	assert.Equal(uint8(3), cpu.Register[0])
}
