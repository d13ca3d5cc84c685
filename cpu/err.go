package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOutOfBounds      = errors.New(f("address out of bounds"))
	ErrInvalidRegister  = errors.New(f("register invalid"))
	ErrUnsupportedAluOp = errors.New(f("alu operation unsupported"))
	ErrIllegalOpcode    = errors.New(f("opcode illegal"))
	ErrStackOverflow    = errors.New(f("stack overflow"))
	ErrStackUnderflow   = errors.New(f("stack underflow"))
	ErrHalted           = errors.New(f("cpu halted"))
	ErrChannelInvalid   = errors.New(f("channel invalid"))
)

// ErrAddress is an access to an address outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x out of bounds", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}

// ErrRegister is an access to a register index outside of the register file.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d invalid", int(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrInvalidRegister
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0b%08b %v", uint8(eo.Opcode), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
