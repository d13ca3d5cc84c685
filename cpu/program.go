package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Statement is a line of a program listing, with its source location and
// the bytes it generated.
type Statement struct {
	LineNo    int
	Address   int
	Words     []string
	Codes     []uint8
	LinkLabel string // Label to resolve into Codes[LinkIndex].
	LinkIndex int
}

// Program is a listing of statements, in address order.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

func (prog *Program) Debug(address int) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= st.Address && address < st.Address+len(st.Codes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - st.Address,
			}
			break
		}
	}

	return
}

// Len returns the number of bytes in the program.
func (prog *Program) Len() (size int) {
	for _, st := range prog.Statements {
		size += len(st.Codes)
	}

	return
}

// Binary returns the program as a memory image, starting at address 0.
func (prog *Program) Binary() (bins []uint8) {
	for address, code := range prog.Codes() {
		if address >= len(bins) {
			bins = append(bins, make([]uint8, address+1-len(bins))...)
		}
		bins[address] = code
	}

	return
}

// Codes returns an iterator over the address and value of every program byte.
func (prog *Program) Codes() iter.Seq2[int, uint8] {
	return func(yield func(address int, code uint8) bool) {
		for _, st := range prog.Statements {
			for n, code := range st.Codes {
				if !yield(st.Address+n, code) {
					return
				}
			}
		}
	}
}

// Image writes the program as a text image, one binary literal per line.
// The first byte of each statement is annotated with the statement's words.
func (prog *Program) Image(w io.Writer) (err error) {
	for _, st := range prog.Statements {
		for n, code := range st.Codes {
			line := fmt.Sprintf("%08b", code)
			if n == 0 && len(st.Words) > 0 {
				line += " # " + strings.Join(st.Words, " ")
			}
			_, err = fmt.Fprintln(w, line)
			if err != nil {
				return
			}
		}
	}

	return
}
