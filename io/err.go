package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrEndOfTape   = errors.New(f("end of tape"))
	ErrNoInput     = errors.New(f("no input attached"))
	ErrNoOutput    = errors.New(f("no output attached"))
	ErrInputFormat = errors.New(f("input is not an integer"))
)

// ErrInput reports an input line that could not be parsed.
type ErrInput string

func (err ErrInput) Error() string {
	return f("'%v' is not an integer", string(err))
}

func (err ErrInput) Is(target error) bool {
	return target == ErrInputFormat
}
