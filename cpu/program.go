package cpu

import (
	"iter"
)

// Line represents a line of assembled code with its source location and
// generated memory words.
type Line struct {
	LineNo int
	Ip     int
	Words  []string
	Codes  []Word
	Links  map[int]string // Codes index to label name, resolved at link time.
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

// Debug locates a memory address within a Program listing.
type Debug struct {
	*Line
	Index int
}

// Debug returns the listing line that emitted address ip.
// The Line is nil if no line emitted the address.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, line := range prog.Lines {
		if ip >= line.Ip && ip < line.Ip+len(line.Codes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: ip - line.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []Word) {
	for ip, code := range prog.Codes() {
		for len(bins) < ip {
			bins = append(bins, 0)
		}
		bins = append(bins, code)
	}

	return
}

// Codes iterates over every emitted word and its address.
func (prog *Program) Codes() iter.Seq2[int, Word] {
	return func(yield func(ip int, code Word) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Ip+n, code) {
					return
				}
			}
		}
	}
}
