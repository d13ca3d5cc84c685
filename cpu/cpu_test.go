package cpu

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

// programOf makes a single statement program at address 0.
func programOf(codes ...uint8) *Program {
	return &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0, Codes: codes},
		},
	}
}

// newTestCpu makes a CPU loaded with codes, and a captured output channel.
func newTestCpu(t *testing.T, codes ...uint8) (cpu *Cpu, out *io.Temporary) {
	out = &io.Temporary{Capacity: 16}

	cpu = NewCpu()
	cpu.Output = out
	cpu.Reset()

	err := cpu.Load(programOf(codes...))
	assert.NoError(t, err)

	return
}

func received(out *io.Temporary) []uint8 {
	return slices.Collect(out.Receive())
}

func TestCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	assert.False(cpu.Verbose)
	assert.False(cpu.Running)
	assert.False(cpu.Halted())
	assert.Equal(0, cpu.Pc)
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])
}

func TestCpu_Ldi(t *testing.T) {
	assert := assert.New(t)

	for reg := range REGISTER_COUNT {
		for _, value := range []uint8{0, 1, 0x7f, 0x80, 0xff} {
			cpu, _ := newTestCpu(t,
				uint8(OP_LDI), uint8(reg), value,
				uint8(OP_HLT),
			)

			err := cpu.Run()
			assert.NoError(err)

			got, err := cpu.Register.Get(reg)
			assert.NoError(err)
			assert.Equal(value, got, "r%d", reg)
		}
	}
}

func TestCpu_Multiply(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_LDI), 0, 8,
		uint8(OP_LDI), 1, 9,
		uint8(OP_MUL), 0, 1,
		uint8(OP_PRN), 0,
		uint8(OP_HLT),
	)

	err := cpu.Run()
	assert.NoError(err)

	assert.Equal([]uint8{72}, received(out))
	assert.False(cpu.Running)
	assert.True(cpu.Halted())
	assert.Equal(11, cpu.Pc)
	assert.Equal(5, cpu.Ticks)

	// No further fetches once halted.
	err = cpu.Tick()
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(11, cpu.Pc)
	assert.Equal(5, cpu.Ticks)
}

func TestCpu_Add(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_LDI), 3, 20,
		uint8(OP_LDI), 4, 22,
		uint8(OP_ADD), 3, 4,
		uint8(OP_PRN), 3,
		uint8(OP_PRN), 4,
		uint8(OP_HLT),
	)

	err := cpu.Run()
	assert.NoError(err)

	assert.Equal(uint8(42), cpu.Register[3])
	assert.Equal(uint8(22), cpu.Register[4])
	assert.Equal([]uint8{42, 22}, received(out))
}

func TestCpu_Tick(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		uint8(OP_LDI), 0, 8,
		uint8(OP_HLT),
	)

	assert.False(cpu.Running)

	err := cpu.Tick()
	assert.NoError(err)
	assert.True(cpu.Running)
	assert.Equal(3, cpu.Pc)
	assert.Equal(uint8(8), cpu.Register[0])

	err = cpu.Tick()
	assert.NoError(err)
	assert.False(cpu.Running)
	assert.Equal(3, cpu.Pc)
}

func TestCpu_CallRet(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_LDI), 1, 8,  // 0
		uint8(OP_CALL), 1,    // 3
		uint8(OP_PRN), 0,     // 5
		uint8(OP_HLT),        // 7
		uint8(OP_LDI), 0, 99, // 8
		uint8(OP_RET),        // 11
	)

	assert.NoError(cpu.Tick())
	assert.NoError(cpu.Tick())

	// Jumped to the target, with the return address on the stack.
	assert.Equal(8, cpu.Pc)
	assert.Equal(uint8(STACK_TOP-1), cpu.Register[REG_SP])
	assert.Equal(uint8(5), cpu.Memory[STACK_TOP-1])

	assert.NoError(cpu.Tick())
	assert.NoError(cpu.Tick())

	// Returned, with the stack restored.
	assert.Equal(5, cpu.Pc)
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal([]uint8{99}, received(out))
	assert.Equal(7, cpu.Pc)
}

func TestCpu_CallReturnAddress(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t)

	// CALL in the last two bytes of memory has no valid return address.
	cpu.Memory[0xfe] = uint8(OP_CALL)
	cpu.Memory[0xff] = 0
	cpu.Pc = 0xfe

	err := cpu.Tick()
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])
}

func TestCpu_IllegalOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_LDI), 0, 1,
		0xff,
		uint8(OP_PRN), 0,
		uint8(OP_HLT),
	)

	err := cpu.Run()
	assert.ErrorIs(err, ErrIllegalOpcode)
	assert.ErrorIs(err, ErrOpcode{})
	assert.False(cpu.Running)
	assert.True(cpu.Halted())
	assert.Equal(3, cpu.Pc)
	assert.Equal(1, cpu.Ticks)

	err = cpu.Tick()
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(3, cpu.Pc)
	assert.Empty(received(out))
}

func TestCpu_NoHalt(t *testing.T) {
	assert := assert.New(t)

	// Execution runs into zeroed memory, which is not a legal opcode.
	cpu, _ := newTestCpu(t,
		uint8(OP_LDI), 0, 1,
	)

	err := cpu.Run()
	assert.ErrorIs(err, ErrIllegalOpcode)
	assert.Equal(3, cpu.Pc)
}

func TestCpu_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t)

	// LDI with its last operand past the end of memory.
	cpu.Memory[0xfe] = uint8(OP_LDI)
	cpu.Memory[0xff] = 0
	cpu.Pc = 0xfe

	err := cpu.Tick()
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.True(cpu.Halted())
	assert.Equal(0xfe, cpu.Pc)
}

func TestCpu_InvalidRegister(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		uint8(OP_LDI), 9, 1,
		uint8(OP_HLT),
	)

	err := cpu.Run()
	assert.ErrorIs(err, ErrInvalidRegister)
	assert.Equal(0, cpu.Pc)
}

func TestCpu_NoOutput(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(t,
		uint8(OP_PRN), 0,
		uint8(OP_HLT),
	)
	cpu.Output = nil

	err := cpu.Run()
	assert.ErrorIs(err, ErrChannelInvalid)
}

func TestCpu_OutputFull(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_PRN), 0,
		uint8(OP_PRN), 0,
		uint8(OP_HLT),
	)
	out.Capacity = 1
	out.Rewind()

	err := cpu.Run()
	assert.True(errors.Is(err, io.ErrChannelFull))
	assert.Equal(2, cpu.Pc)
}

func TestCpu_Load(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	prog := &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0xff, Codes: []uint8{1}},
		},
	}
	assert.NoError(cpu.Load(prog))
	assert.Equal(uint8(1), cpu.Memory[0xff])

	prog.Statements[0].Codes = []uint8{1, 2}
	assert.ErrorIs(cpu.Load(prog), ErrOutOfBounds)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu, out := newTestCpu(t,
		uint8(OP_LDI), 2, 7,
		uint8(OP_PUSH), 2,
		uint8(OP_PRN), 2,
		uint8(OP_HLT),
	)

	assert.NoError(cpu.Run())
	assert.Equal(1, out.Size)

	cpu.Reset()

	assert.Equal(0, cpu.Pc)
	assert.Equal(0, cpu.Ticks)
	assert.False(cpu.Running)
	assert.False(cpu.Halted())
	assert.Equal(Registers{0, 0, 0, 0, 0, 0, 0, STACK_TOP}, cpu.Register)
	assert.Equal(Memory{}, cpu.Memory)
	assert.Equal(0, out.Size)
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("R7", defines["SP"])
	assert.Equal("0xff", defines["STACK_TOP"])
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("8", defines["REGISTER_COUNT"])
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[3] = 0x2a

	text := cpu.String()
	assert.True(strings.Contains(text, "   pc: 0x00\n"), text)
	assert.True(strings.Contains(text, "   r3: 0x2a\n"), text)
	assert.True(strings.Contains(text, "   sp: 0xff\n"), text)
}
