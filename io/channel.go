// Package io provides the I/O channels a Machine reads input from and
// writes output to. It includes a line-oriented text console (Tape) and an
// in-memory scripted channel (Script).
package io

// Prompt written before every blocking read on a Tape.
const Prompt = "?> "

// Marker prefixed to every value written to a Tape.
const Marker = "#> "

// Channel defines the interface for the Machine's input and output.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive blocks until one signed integer is available.
	Receive() (value int, err error)
	// Send emits a single signed integer.
	Send(value int) error
}
