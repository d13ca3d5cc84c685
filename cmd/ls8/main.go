// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ezrec/ls8/asm"
	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/loader"
)

// Exit status for an empty program.
const EXIT_EMPTY = 3

func main() {
	var assemble bool
	var save bool
	var output string
	var verbose bool
	var ticks int

	flag.BoolVar(&assemble, "a", false, "Program is assembly source, not an image")
	flag.BoolVar(&save, "s", false, "Save program image to output, do not execute")
	flag.StringVar(&output, "o", "-", "Output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&ticks, "n", 0, "Maximum instructions to execute (0 is unlimited)")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] progname", os.Args[0])
	}

	name := flag.Arg(0)
	fsys := os.DirFS(filepath.Dir(name))
	base := filepath.Base(name)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxTicks = ticks

	var prog *cpu.Program
	var err error
	if assemble {
		var inf fs.File
		inf, err = loader.Open(fsys, base)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()

		as := &asm.Assembler{Verbose: verbose}
		for equ, value := range emu.Defines() {
			as.Predefine(equ, value)
		}
		prog, err = as.Parse(inf)
		if err == nil && prog.Len() == 0 {
			err = loader.ErrProgramEmpty
		}
	} else {
		ld := &loader.Loader{Verbose: verbose}
		prog, err = ld.ParseFS(fsys, base)
	}
	if errors.Is(err, loader.ErrProgramEmpty) {
		log.Printf("%v: %v", name, err)
		os.Exit(EXIT_EMPTY)
	}
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	if save {
		err = prog.Image(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Program = prog
	emu.Tape.Output = ouf

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	err = emu.Run()
	if err != nil {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			fmt.Fprint(os.Stderr, emu.Cpu.String())
		}
		log.Fatalf("%v: %v", name, err)
	}
}
