// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/intcode/io"
)

// Channel is an I/O channel interface.
type Channel io.Channel

// Machine is the simulation context for a stored-program intcode machine.
// Memory holds both the program and its data.
type Machine struct {
	Verbose      bool // Set to enable verbose logging.
	StrictWrites bool // Set to reject immediate mode write destinations.

	Memory []Word // Program and data memory.
	Ip     int    // Current instruction pointer.
	Halted bool   // Set by the halt instruction.

	Ticks int // Instructions executed since reset.

	channel Channel // IO channel.
}

// NewMachine creates a new Machine with memory initialized from a copy of
// the program image.
func NewMachine(program []Word) (m *Machine) {
	m = &Machine{}
	m.Reset(program)

	return
}

// Reset the Machine state.
// - Replaces memory with a copy of the program image.
// - Clears the instruction pointer, halt flag, and tick counter.
// - Rewinds the IO channel.
func (m *Machine) Reset(program []Word) {
	if m.Verbose {
		log.Printf("cpu: reset (%d words)", len(program))
	}

	m.Memory = slices.Clone(program)
	m.Ip = 0
	m.Halted = false
	m.Ticks = 0

	if m.channel != nil {
		m.channel.Rewind()
	}
}

// SetChannel attaches the IO channel used by the in and out instructions.
func (m *Machine) SetChannel(channel Channel) {
	m.channel = channel
}

// GetChannel gets the attached IO channel.
func (m *Machine) GetChannel() (channel Channel, err error) {
	if m.channel == nil {
		err = ErrChannelInvalid
		return
	}

	channel = m.channel
	return
}

// String returns the current Machine state as a string.
func (m *Machine) String() (text string) {
	text += fmt.Sprintf("% 6s: %d\n", "ip", m.Ip)
	text += fmt.Sprintf("% 6s: %v\n", "halted", m.Halted)
	text += fmt.Sprintf("% 6s: %d\n", "ticks", m.Ticks)
	text += fmt.Sprintf("% 6s: %d\n", "memory", len(m.Memory))
	if m.Ip >= 0 && m.Ip < len(m.Memory) {
		text += fmt.Sprintf("% 6s: %v\n", "code", Code(m.Memory[m.Ip]))
	}

	return
}

// load reads a memory cell.
func (m *Machine) load(index int) (value Word, err error) {
	if index < 0 || index >= len(m.Memory) {
		err = ErrBounds{Index: index, Size: len(m.Memory)}
		return
	}

	value = m.Memory[index]
	return
}

// store writes a memory cell.
func (m *Machine) store(index int, value Word) (err error) {
	if index < 0 || index >= len(m.Memory) {
		err = ErrBounds{Index: index, Size: len(m.Memory)}
		return
	}

	m.Memory[index] = value
	return
}

// Address returns the effective address of the parameter held at slot.
//   - Immediate mode: the slot itself.
//   - Position mode: the value stored at the slot.
func (m *Machine) Address(slot int, mode Mode) (addr int, err error) {
	switch mode {
	case MODE_IMMEDIATE:
		if slot < 0 || slot >= len(m.Memory) {
			err = ErrBounds{Index: slot, Size: len(m.Memory)}
			return
		}
		addr = slot
	case MODE_POSITION:
		addr, err = m.load(slot)
	default:
		err = ErrOpcodeDecode
	}

	return
}

// operand reads the value of parameter n (1-based) of the current instruction.
func (m *Machine) operand(n int, mode Mode) (value Word, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(errArg[n-1], err)
		}
	}()

	addr, err := m.Address(m.Ip+n, mode)
	if err != nil {
		return
	}

	value, err = m.load(addr)
	return
}

// destination resolves the write address of parameter n (1-based) of the
// current instruction.
func (m *Machine) destination(n int, mode Mode) (addr int, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(errArg[n-1], err)
		}
	}()

	if mode == MODE_IMMEDIATE && m.StrictWrites {
		err = ErrImmediateWrite
		return
	}

	addr, err = m.Address(m.Ip+n, mode)
	if err != nil {
		return
	}

	// Validate now, so that a failing instruction never has side effects.
	_, err = m.load(addr)
	return
}

// Fetch returns the instruction word at the instruction pointer.
func (m *Machine) Fetch() (code Code, err error) {
	word, err := m.load(m.Ip)
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Execute executes a single decoded instruction at the instruction pointer.
func (m *Machine) Execute(inst Instruction) (err error) {
	if m.Verbose {
		log.Printf("%03d: %v", m.Ip, inst)
	}

	next_ip := m.Ip + inst.Opcode.Width()

	switch inst.Opcode {
	case OP_ADD, OP_MUL:
		var a, b Word
		var dst int
		a, err = m.operand(1, inst.Modes[0])
		if err != nil {
			return
		}
		b, err = m.operand(2, inst.Modes[1])
		if err != nil {
			return
		}
		dst, err = m.destination(3, inst.Modes[2])
		if err != nil {
			return
		}
		if inst.Opcode == OP_ADD {
			m.Memory[dst] = a + b
		} else {
			m.Memory[dst] = a * b
		}
	case OP_IN:
		var channel Channel
		var dst int
		var value int
		dst, err = m.destination(1, inst.Modes[0])
		if err != nil {
			return
		}
		channel, err = m.GetChannel()
		if err != nil {
			return
		}
		value, err = channel.Receive()
		if err != nil {
			return
		}
		m.Memory[dst] = value
	case OP_OUT:
		var channel Channel
		var value Word
		value, err = m.operand(1, inst.Modes[0])
		if err != nil {
			return
		}
		channel, err = m.GetChannel()
		if err != nil {
			return
		}
		err = channel.Send(value)
		if err != nil {
			return
		}
	case OP_HALT:
		m.Halted = true
	default:
		err = ErrOpcode(inst.Code())
		return
	}

	m.Ip = next_ip
	m.Ticks += 1

	return
}

// Step fetches, decodes, and executes a single instruction.
// Stepping a halted Machine does nothing.
func (m *Machine) Step() (err error) {
	if m.Halted {
		return
	}

	ip := m.Ip
	var code Code
	defer func() {
		if err != nil {
			err = &ErrStep{Ip: ip, Code: code, Err: err}
		}
	}()

	code, err = m.Fetch()
	if err != nil {
		return
	}

	inst, err := code.Decode()
	if err != nil {
		return
	}

	err = m.Execute(inst)
	return
}

// Run steps the Machine until it halts, or an instruction fails.
func (m *Machine) Run() (err error) {
	for !m.Halted {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}
