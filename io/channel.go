// Package io provides output channel implementations for the LS-8 emulator.
// A Tape prints values for a human reader, a Temporary keeps them for
// inspection by the host.
package io

// Channel defines the interface for the LS-8 output channel.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single value to the channel.
	Send(value uint8) error
}
