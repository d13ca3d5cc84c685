// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm implements a single pass assembler for LS-8 programs.
//
// Each line holds an optional label, an instruction or directive, and an
// optional comment introduced by ';':
//
//	Loop:   LDI R0, $(COUNT * 2)   ; load
//	        CALL R1
//	        DB 0x0a, 0b1010
//	.equ COUNT 4
//
// Mnemonics are those of the cpu instruction set. Register operands are R0
// to R7; immediate operands are numbers, labels, or $(...) expressions
// evaluated at assembly time with Starlark.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ls8/cpu"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// mnemonicMap maps instruction mnemonics to opcodes.
var mnemonicMap = func() (mm map[string]cpu.Opcode) {
	mm = make(map[string]cpu.Opcode)
	for op, inst := range cpu.Instructions() {
		mm[inst.Mnemonic] = op
	}
	return
}()

// regMap maps register names to register indexes.
var regMap = func() (rm map[string]int) {
	rm = make(map[string]int, cpu.REGISTER_COUNT)
	for n := range cpu.REGISTER_COUNT {
		rm[fmt.Sprintf("R%d", n)] = n
	}
	rm["SP"] = cpu.REG_SP
	return
}()

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for the LS-8 system.
type Assembler struct {
	Verbose   bool            // If set, verbosely logs the assembler actions.
	Statement []cpu.Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parseInt parses a number in any of the Go integer literal syntaxes.
func parseInt(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// valueOf returns the byte value of a number.
// Negative values down to -128 are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	v64, err := parseInt(word)
	if err != nil {
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}

// registerOf returns the register index named by word.
func (asm *Assembler) registerOf(word string) (reg int, err error) {
	reg, ok := regMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = parseInt(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// currentAddress gets the address of the next statement.
func (asm *Assembler) currentAddress() int {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Address + len(last.Codes)
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *cpu.Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Statement = asm.Statement[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		label := st.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if address >= cpu.MEMORY_SIZE {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			err = cpu.ErrAddress(address)
			return
		}
		st.Codes[st.LinkIndex] = uint8(address)
	}

	prog = &cpu.Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []uint8
	var label string
	var link int

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words
	address := asm.currentAddress()

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		if address+len(codes) > cpu.MEMORY_SIZE {
			err = cpu.ErrAddress(address + len(codes) - 1)
			return
		}
		st := cpu.Statement{
			LineNo:    lineno,
			Address:   address,
			Words:     initial_words,
			Codes:     codes,
			LinkLabel: label,
			LinkIndex: link,
		}
		asm.Statement = append(asm.Statement, st)
	}()

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	// DB value...
	if mnemonic == "DB" {
		if len(args) == 0 {
			err = ErrOperandMissing
			return
		}
		for _, arg := range args {
			var value uint8
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
		return
	}

	op, ok := mnemonicMap[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	inst, _ := cpu.Lookup(op)
	if len(args) < inst.Operands() {
		err = ErrOperandMissing
		return
	}
	if len(args) > inst.Operands() {
		err = ErrOperandExtra
		return
	}

	codes = append(codes, uint8(op))
	for n, kind := range inst.Args {
		arg := args[n]
		switch kind {
		case cpu.ARG_REG:
			var reg int
			reg, err = asm.registerOf(arg)
			if err != nil {
				return
			}
			codes = append(codes, uint8(reg))
		case cpu.ARG_IMM:
			var value uint8
			value, err = asm.valueOf(arg)
			if _, is_num := err.(ErrParseNumber); is_num && labelRe.MatchString(arg) {
				// Resolved at link time.
				err = nil
				label = arg
				link = len(codes)
			}
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
	}

	return
}
