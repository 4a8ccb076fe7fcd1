package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// flusher is implemented by buffered outputs, such as bufio.Writer.
type flusher interface {
	Flush() error
}

// Tape provides line-oriented text I/O for a Machine.
// Each Receive consumes exactly one line of Input, and each Send writes
// exactly one line to Output.
//
// Prompts go to Console if it is set, otherwise to Output.
type Tape struct {
	Input   io.Reader
	Output  io.Writer
	Console io.Writer

	reader *bufio.Reader
	source io.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input. The underlying reader is not rewound.
func (tc *Tape) Rewind() {
	tc.reader = nil
	tc.source = nil
}

// flush the writer, if it is buffered.
func flush(w io.Writer) (err error) {
	fl, ok := w.(flusher)
	if ok {
		err = fl.Flush()
	}
	return
}

// Receive writes the prompt, then reads and parses a single line of input.
func (tc *Tape) Receive() (value int, err error) {
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	console := tc.Console
	if console == nil {
		console = tc.Output
	}
	if console != nil {
		_, err = io.WriteString(console, Prompt)
		if err != nil {
			return
		}
		err = flush(console)
		if err != nil {
			return
		}
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}

	line, err := tc.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if len(line) == 0 {
			err = ErrEndOfTape
			return
		}
		// Last line without a trailing newline.
		err = nil
	}
	if err != nil {
		return
	}

	text := strings.TrimSpace(line)
	v64, perr := strconv.ParseInt(text, 10, strconv.IntSize)
	if perr != nil {
		err = ErrInput(text)
		return
	}

	value = int(v64)
	return
}

// Send writes a single '#> value' line to the output.
func (tc *Tape) Send(value int) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%v%d\n", Marker, value)
	if err != nil {
		return
	}

	err = flush(tc.Output)
	return
}
