package cpu

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// ParseImage reads a comma separated list of decimal words.
// Whitespace around each word, and a single trailing comma, are ignored.
func ParseImage(input io.Reader) (image []Word, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	text := strings.TrimSpace(string(data))
	text = strings.TrimSuffix(text, ",")
	if len(text) == 0 {
		err = ErrImageEmpty
		return
	}

	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		var v64 int64
		v64, err = strconv.ParseInt(field, 10, strconv.IntSize)
		if err != nil {
			err = ErrParseNumber(field)
			return
		}
		image = append(image, Word(v64))
	}

	return
}

// FormatImage formats memory in the form read by ParseImage.
func FormatImage(image []Word) string {
	words := make([]string, len(image))
	for n, word := range image {
		words[n] = strconv.Itoa(word)
	}
	return strings.Join(words, ",")
}

// Disassemble iterates over memory as a listing of instructions.
// Words that do not decode are listed as '.data'.
func Disassemble(memory []Word) iter.Seq2[int, string] {
	return func(yield func(ip int, text string) bool) {
		for ip := 0; ip < len(memory); {
			code := Code(memory[ip])
			inst, err := code.Decode()
			width := inst.Opcode.Arity() + 1
			if err != nil || ip+width > len(memory) {
				if !yield(ip, fmt.Sprintf(".data %d", memory[ip])) {
					return
				}
				ip++
				continue
			}

			parts := []string{inst.Opcode.String()}
			for n := range inst.Opcode.Arity() {
				param := memory[ip+1+n]
				if inst.Modes[n] == MODE_IMMEDIATE {
					parts = append(parts, fmt.Sprintf("#%d", param))
				} else {
					parts = append(parts, fmt.Sprintf("%d", param))
				}
			}
			if !yield(ip, strings.Join(parts, " ")) {
				return
			}
			ip += width
		}
	}
}
