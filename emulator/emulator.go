// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Emulator state. Machine + program listing + IO tape.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the Machine simulation.
	Program      *cpu.Program // Reference to the currently running program listing.

	Tape io.Tape // Tape IO channel.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(nil),
		Program: &cpu.Program{},
	}

	emu.Machine.SetChannel(&emu.Tape)

	return
}

// Load replaces the program listing with a bare memory image.
func (emu *Emulator) Load(image []cpu.Word) {
	emu.Program = &cpu.Program{
		Lines: []cpu.Line{{Ip: 0, Codes: image}},
	}
}

// Reset the Machine to the start of the program.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset(emu.Program.Binary())

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Machine.Ticks
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, err := emu.Machine.Fetch()
	if err != nil {
		return cpu.Code(0)
	}

	return code
}

// LineNo returns the current line number for the executing instruction.
// Zero is returned if the instruction is not in the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.Ip)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set Machine verbosity
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	done = emu.Machine.Halted
	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
