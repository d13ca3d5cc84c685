package cpu

import (
	"errors"
)

// stackDown decrements SP, returning the new top of stack.
func (cpu *Cpu) stackDown() (sp int, err error) {
	sp = int(cpu.Register[REG_SP])
	if sp == 0 {
		err = errors.Join(ErrStackOverflow, ErrAddress(sp-1))
		return
	}

	sp--
	cpu.Register[REG_SP] = uint8(sp)
	return
}

// peek returns the value at the top of stack, without moving SP.
func (cpu *Cpu) peek() (value uint8, err error) {
	sp := int(cpu.Register[REG_SP])
	if sp == STACK_TOP {
		err = errors.Join(ErrStackUnderflow, ErrAddress(sp+1))
		return
	}

	value, err = cpu.Memory.Read(sp)
	return
}

// stackUp increments SP.
func (cpu *Cpu) stackUp() {
	cpu.Register[REG_SP]++
}

// push decrements SP, then stores value at the new top of stack.
func (cpu *Cpu) push(value uint8) (err error) {
	sp, err := cpu.stackDown()
	if err != nil {
		return
	}

	err = cpu.Memory.Write(sp, value)
	return
}

// pop loads the value at the top of stack, then increments SP.
func (cpu *Cpu) pop() (value uint8, err error) {
	value, err = cpu.peek()
	if err != nil {
		return
	}

	cpu.stackUp()
	return
}
