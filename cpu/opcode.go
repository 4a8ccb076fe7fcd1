package cpu

import (
	"fmt"
	"strings"
)

// Word is a single signed memory cell.
type Word = int

// Opcode is the operation held in the low two decimal digits of a Code.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(1)  // add
	OP_MUL  = Opcode(2)  // mul
	OP_IN   = Opcode(3)  // in
	OP_OUT  = Opcode(4)  // out
	OP_HALT = Opcode(99) // halt
)

// Valid returns true if the opcode is a member of the instruction set.
func (op Opcode) Valid() bool {
	switch op {
	case OP_ADD, OP_MUL, OP_IN, OP_OUT, OP_HALT:
		return true
	}
	return false
}

// Arity returns the number of parameters that follow the opcode.
func (op Opcode) Arity() int {
	switch op {
	case OP_ADD, OP_MUL:
		return 3
	case OP_IN, OP_OUT:
		return 1
	}
	return 0
}

// Width returns the instruction pointer advance after execution.
// Halt never advances.
func (op Opcode) Width() int {
	if op == OP_HALT || !op.Valid() {
		return 0
	}
	return op.Arity() + 1
}

// Mode is a parameter addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
)

// MODE_SLOTS is the number of mode digits in every Code.
const MODE_SLOTS = 3

// Code is a raw instruction word, as fetched from memory.
type Code Word

// Instruction is a decoded Code.
type Instruction struct {
	Opcode Opcode
	Modes  [MODE_SLOTS]Mode
}

// modeScale is the decimal place of each mode digit.
var modeScale = [MODE_SLOTS]Word{100, 1000, 10000}

// MakeCode encodes an opcode and up to three parameter modes.
// Missing modes are position mode.
func MakeCode(op Opcode, modes ...Mode) Code {
	word := Word(op)
	for n, mode := range modes {
		if n >= MODE_SLOTS {
			break
		}
		word += Word(mode) * modeScale[n]
	}
	return Code(word)
}

// Opcode returns the operation digits of the word, without validation.
func (code Code) Opcode() Opcode {
	return Opcode(Word(code) % 100)
}

// Mode returns the raw mode digit for parameter slot n (0-based).
func (code Code) Mode(n int) Mode {
	return Mode((Word(code) / modeScale[n]) % 10)
}

// Decode splits the word into its opcode and the three mode digits.
// All three modes are validated, even if the opcode does not use them.
func (code Code) Decode() (inst Instruction, err error) {
	op := code.Opcode()
	if !op.Valid() {
		err = ErrOpcode(code)
		return
	}
	inst.Opcode = op

	for n := range MODE_SLOTS {
		mode := code.Mode(n)
		switch mode {
		case MODE_POSITION, MODE_IMMEDIATE:
			inst.Modes[n] = mode
		default:
			err = ErrMode{Code: code, Slot: n + 1, Digit: int(mode)}
			return
		}
	}

	return
}

// Code re-encodes the instruction.
func (inst Instruction) Code() Code {
	return MakeCode(inst.Opcode, inst.Modes[:]...)
}

// String returns the disassembly of the instruction, ie 'mul.position.immediate'.
func (inst Instruction) String() string {
	parts := []string{inst.Opcode.String()}
	for n := range inst.Opcode.Arity() {
		parts = append(parts, inst.Modes[n].String())
	}
	return strings.Join(parts, ".")
}

// String returns the disassembly of the code, or its raw value if
// the code does not decode.
func (code Code) String() string {
	inst, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".data.%d", Word(code))
	}
	return inst.String()
}
