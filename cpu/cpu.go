package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"SP":             fmt.Sprintf("R%d", REG_SP),
	"STACK_TOP":      fmt.Sprintf("0x%02x", STACK_TOP),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
}

// Cpu is the simulation context for the LS-8 CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       int       // Current program counter.
	Ir       Opcode    // Opcode of the executing instruction.
	Register Registers // Register bank.
	Memory   Memory    // Program, data and stack memory.
	Running  bool      // Set while the CPU is fetching instructions.
	Output   Channel   // Output channel for PRN.

	Ticks int // CPU ticks counter.

	halted bool
}

// NewCpu creates a new CPU, in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: 0x%02x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "run", cpu.Running)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("r%d", n)
		if n == REG_SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: 0x%02x\n", name, val)
	}

	return
}

// Halted returns true once the CPU has executed HLT, or stopped
// on a fatal error.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Reset the CPU state.
// - Clears memory and the registers.
// - Points SP at the top of memory.
// - Sets PC to 0, and the CPU to idle.
// - Zeros the tick counter.
// - Rewinds the output channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Ir = 0
	cpu.Running = false
	cpu.halted = false
	cpu.Ticks = 0

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load writes the program into memory.
func (cpu *Cpu) Load(prog *Program) (err error) {
	for address, code := range prog.Codes() {
		err = cpu.Memory.Write(address, code)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", prog.Len())
	}

	return
}

// FetchCode fetches the instruction at the PC. Operands are not fetched
// for illegal opcodes.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	op, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(op)

	inst, ok := Lookup(code.Opcode)
	if !ok {
		return
	}

	for n := range inst.Operands() {
		var operand uint8
		operand, err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			return
		}
		code.Operands = append(code.Operands, operand)
	}

	return
}

// Tick executes a single CPU instruction cycle. An idle CPU starts running.
// Any error stops the CPU.
func (cpu *Cpu) Tick() (err error) {
	if cpu.halted {
		err = ErrHalted
		return
	}

	cpu.Running = true

	defer func() {
		if err != nil {
			cpu.Running = false
			cpu.halted = true
		}
	}()

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
	}

	inst, ok := Lookup(code.Opcode)
	if !ok {
		err = ErrIllegalOpcode
		return
	}

	if len(code.Operands) != inst.Operands() {
		err = ErrIllegalOpcode
		return
	}

	next_pc := cpu.Pc + code.Len()

	cpu.Ir = code.Opcode
	err = inst.Handler(cpu, code.Operands)
	if err != nil {
		return
	}

	if !code.Opcode.SetsPc() && !cpu.halted {
		cpu.Pc = next_pc
	}

	cpu.Ticks += 1

	return
}

// Run executes instructions until HLT, or the first error.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if err != nil || !cpu.Running {
			return
		}
	}
}
