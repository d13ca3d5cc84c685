// Package cpu implements the LS-8 microprocessor.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7), an ALU, and 256 bytes of memory shared by program code,
// literal data and the stack. By convention r7 is the stack pointer (SP); the
// stack starts at the top of memory and grows downward.
//
// Instructions are an opcode byte followed by zero, one or two operand bytes.
// The two high bits of the opcode hold the operand count, bit 5 marks an ALU
// operation and bit 4 marks an instruction that sets the PC itself.
package cpu
