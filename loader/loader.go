// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package loader reads LS-8 program images.
//
// An image is text, one byte per line, written as a base-2 literal such as
// 10000010. Blank lines and lines starting with '#' are skipped, and any
// text after the literal is commentary.
package loader

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/cpu"
)

const (
	LITERAL_DIGITS = 8 // Most binary digits in a literal.
)

// Loader parses program images into programs.
type Loader struct {
	Verbose bool // If set, verbosely logs each loaded byte.
}

// Open opens a named program from a file system.
func Open(fsys fs.FS, name string) (file fs.File, err error) {
	file, err = fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		err = errors.Join(ErrProgramMissing, err)
	}

	return
}

// ParseFS opens and parses a named program image from a file system.
func (ld *Loader) ParseFS(fsys fs.FS, name string) (prog *cpu.Program, err error) {
	inf, err := Open(fsys, name)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = ld.Parse(inf)
	return
}

// Parse parses an input stream into a Program, one byte per literal,
// at sequential addresses starting from 0.
func (ld *Loader) Parse(input io.Reader) (prog *cpu.Program, err error) {
	scanner := bufio.NewScanner(input)

	prog = &cpu.Program{}

	var address int
	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		words := strings.Fields(text)
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(words[0], 2, 8)
		if err == nil && len(words[0]) > LITERAL_DIGITS {
			err = strconv.ErrRange
		}
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: text, Err: ErrParseLiteral(words[0])}
			prog = nil
			return
		}

		if address >= cpu.MEMORY_SIZE {
			err = ErrSyntax{LineNo: lineno, Line: text, Err: cpu.ErrAddress(address)}
			prog = nil
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, address, value)
		}

		comment := strings.Join(words[1:], " ")
		comment = strings.TrimPrefix(comment, "#")

		prog.Statements = append(prog.Statements, cpu.Statement{
			LineNo:  lineno,
			Address: address,
			Words:   strings.Fields(comment),
			Codes:   []uint8{uint8(value)},
		})
		address++
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
		return
	}

	if address == 0 {
		err = ErrProgramEmpty
		prog = nil
		return
	}

	return
}
