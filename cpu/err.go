package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrImmediateWrite = errors.New(f("immediate mode write"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeArg1   = errors.New(f("arg1"))
	ErrOpcodeArg2   = errors.New(f("arg2"))
	ErrOpcodeArg3   = errors.New(f("arg3"))

	// Image errors
	ErrImageEmpty = errors.New(f("image empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("opcode missing"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
)

// errArg maps a 1-based parameter slot to its error.
var errArg = [MODE_SLOTS]error{ErrOpcodeArg1, ErrOpcodeArg2, ErrOpcodeArg3}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode is an instruction word with an unknown opcode.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("unknown opcode %v in %v", strconv.Itoa(int(Code(eo).Opcode())), strconv.Itoa(int(eo)))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrOpcodeDecode {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

// ErrMode is an instruction word with an unknown parameter mode digit.
type ErrMode struct {
	Code  Code
	Slot  int // 1-based parameter slot.
	Digit int
}

func (em ErrMode) Error() string {
	return f("unknown parameter mode %v for arg%v in %v", strconv.Itoa(em.Digit), strconv.Itoa(em.Slot), strconv.Itoa(int(em.Code)))
}

func (em ErrMode) Is(err error) (ok bool) {
	if err == ErrOpcodeDecode {
		return true
	}
	_, ok = err.(ErrMode)
	return
}

// ErrBounds is a memory access outside of the Machine's memory.
type ErrBounds struct {
	Index int
	Size  int
}

func (eb ErrBounds) Error() string {
	return f("address %v out of bounds (memory size %v)", strconv.Itoa(eb.Index), strconv.Itoa(eb.Size))
}

func (eb ErrBounds) Is(err error) (ok bool) {
	_, ok = err.(ErrBounds)
	return
}

// ErrStep indicates the instruction that failed to execute.
type ErrStep struct {
	Ip   int
	Code Code
	Err  error
}

func (err *ErrStep) Error() string {
	return f("ip %v (%v) %v", strconv.Itoa(err.Ip), strconv.Itoa(int(err.Code)), err.Err)
}

func (err *ErrStep) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a valid label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
