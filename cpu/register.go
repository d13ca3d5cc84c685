package cpu

const (
	REGISTER_COUNT = 8    // Number of general purpose registers.
	REG_SP         = 7    // Register reserved as the stack pointer.
	STACK_TOP      = 0xff // Initial stack pointer.
)

// Registers is the general purpose register file.
type Registers [REGISTER_COUNT]uint8

// Get returns the value of a register.
func (reg *Registers) Get(index int) (value uint8, err error) {
	if index < 0 || index >= len(reg) {
		err = ErrRegister(index)
		return
	}

	value = reg[index]
	return
}

// Set sets the value of a register.
func (reg *Registers) Set(index int, value uint8) (err error) {
	if index < 0 || index >= len(reg) {
		err = ErrRegister(index)
		return
	}

	reg[index] = value
	return
}

// Reset clears all registers, and points SP at the top of the stack.
func (reg *Registers) Reset() {
	clear(reg[:])
	reg[REG_SP] = STACK_TOP
}
