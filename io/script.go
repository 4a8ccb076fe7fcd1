package io

// Script is an in-memory channel. Inputs are consumed in order, and every
// sent value is appended to Outputs.
type Script struct {
	Inputs  []int
	Outputs []int

	readIndex int
}

var _ Channel = (*Script)(nil)

// Rewind restarts the inputs and discards all outputs.
func (sc *Script) Rewind() {
	sc.readIndex = 0
	sc.Outputs = sc.Outputs[:0]
}

// Remaining returns the number of unread inputs.
func (sc *Script) Remaining() int {
	return len(sc.Inputs) - sc.readIndex
}

// Receive returns the next scripted input.
func (sc *Script) Receive() (value int, err error) {
	if sc.readIndex >= len(sc.Inputs) {
		err = ErrEndOfTape
		return
	}

	value = sc.Inputs[sc.readIndex]
	sc.readIndex++
	return
}

// Send records the value.
func (sc *Script) Send(value int) error {
	sc.Outputs = append(sc.Outputs, value)
	return nil
}
