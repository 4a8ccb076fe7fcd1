// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
)

func main() {
	var file string
	var save bool
	var list bool

	flags := &config.Config{}

	flag.StringVar(&file, "f", "", "intcode.toml run configuration")
	flag.StringVar(&flags.Program, "p", "", "comma separated program image")
	flag.StringVar(&flags.Source, "c", "", "assembly source file to compile")
	flag.BoolVar(&save, "s", false, "Print the compiled image, do not execute")
	flag.BoolVar(&list, "l", false, "Print a disassembly, do not execute")
	flag.StringVar(&flags.Input, "i", "", "Tape input (default \"-\")")
	flag.StringVar(&flags.Output, "o", "", "Tape output (default \"-\")")
	flag.BoolVar(&flags.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&flags.Strict, "strict", false, "Reject immediate mode write destinations")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	conf := config.Default()
	if len(file) != 0 {
		var err error
		conf, err = config.Load(file)
		if err != nil {
			log.Fatalf("%v: %v", file, err)
		}
	}
	conf.Merge(flags)

	err := conf.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = conf.Verbose
	emu.StrictWrites = conf.Strict

	if len(conf.Source) != 0 {
		// Compile a new instruction stream.
		inf, err := os.Open(conf.Source)
		if err != nil {
			log.Fatalf("%v: %v", conf.Source, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: conf.Verbose}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", conf.Source, err)
		}
	} else {
		inf, err := os.Open(conf.Program)
		if err != nil {
			log.Fatalf("%v: %v", conf.Program, err)
		}
		defer inf.Close()

		image, err := cpu.ParseImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", conf.Program, err)
		}
		emu.Load(image)
	}

	if save {
		fmt.Println(cpu.FormatImage(emu.Program.Binary()))
		return
	}

	if list {
		for ip, text := range cpu.Disassemble(emu.Program.Binary()) {
			fmt.Printf("%04d: %v\n", ip, text)
		}
		return
	}

	if conf.Input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(conf.Input)
		if err != nil {
			log.Fatalf("%v: %v", conf.Input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	var ouf *os.File
	if conf.Output == "-" {
		ouf = os.Stdout
	} else {
		ouf, err = os.Create(conf.Output)
		if err != nil {
			log.Fatalf("%v: %v", conf.Output, err)
		}
		defer ouf.Close()
	}
	output := bufio.NewWriter(ouf)
	defer output.Flush()
	emu.Tape.Output = output
	if ouf != os.Stdout {
		// Prompt the user on the console, not in the output file.
		emu.Tape.Console = os.Stdout
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		output.Flush()
		if emu.Verbose {
			log.Print(emu.Machine.String())
		}
		log.Fatal(err)
	}
}
