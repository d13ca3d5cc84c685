package io

import (
	"fmt"
	"io"
)

// Tape writes each value sent to it as a decimal line on Output.
// A nil Output discards all values.
type Tape struct {
	Output io.Writer

	Count int // Values written since the last rewind.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; only the counter is reset.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Send writes value to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Count++
	return
}
