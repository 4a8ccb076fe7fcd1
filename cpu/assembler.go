// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"IP":             "0",
	"OP_ADD":         fmt.Sprintf("%d", OP_ADD),
	"OP_MUL":         fmt.Sprintf("%d", OP_MUL),
	"OP_IN":          fmt.Sprintf("%d", OP_IN),
	"OP_OUT":         fmt.Sprintf("%d", OP_OUT),
	"OP_HALT":        fmt.Sprintf("%d", OP_HALT),
	"MODE_POSITION":  fmt.Sprintf("%d", MODE_POSITION),
	"MODE_IMMEDIATE": fmt.Sprintf("%d", MODE_IMMEDIATE),
}

// opMap is a map of mnemonics to opcodes.
var opMap = map[string]Opcode{
	"add":  OP_ADD,
	"mul":  OP_MUL,
	"in":   OP_IN,
	"out":  OP_OUT,
	"halt": OP_HALT,
}

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for intcode programs.
//
//	; comment
//	.equ NAME VALUE
//	label: add A B D      ; D = A + B
//	       mul #2 A D     ; '#' selects immediate mode
//	       in D
//	       out #$(NAME*2) ; $(...) is a compile time expression
//	       halt
//	       .data 1 2 label
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to memory addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
// If the word is an unresolved label, it is returned instead.
func (asm *Assembler) valueOf(word string) (value Word, label string, err error) {
	equate, ok := asm.Equate[word]
	if ok {
		word = equate
	}

	v64, perr := strconv.ParseInt(word, 0, strconv.IntSize)
	if perr == nil {
		value = Word(v64)
		return
	}

	if reLabel.MatchString(word) {
		label = word
		return
	}

	err = ErrParseNumber(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, strconv.IntSize)
		if perr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(st_int64)
	return
}

// parseLine parses a single line into words, handling expressions,
// equates, and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	asm.Equate["IP"] = fmt.Sprintf("%v", asm.currentIp())

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrParseValue(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
	}

	return
}

// currentIp gets the address of the next emitted word.
func (asm *Assembler) currentIp() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Ip + len(last.Codes)
}

// emit appends a word, or a label reference, to the line.
func (line *Line) emit(value Word, label string) {
	if len(label) != 0 {
		if line.Links == nil {
			line.Links = map[int]string{}
		}
		line.Links[len(line.Codes)] = label
	}
	line.Codes = append(line.Codes, value)
}

// parseWords converts a line of words into memory words.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	line := Line{
		LineNo: lineno,
		Ip:     asm.currentIp(),
		Words:  words,
	}

	switch words[0] {
	case ".data":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value Word
			var label string
			value, label, err = asm.valueOf(word)
			if err != nil {
				return
			}
			line.emit(value, label)
		}
	default:
		op, ok := opMap[words[0]]
		if !ok {
			_, perr := strconv.ParseInt(strings.TrimPrefix(words[0], "#"), 0, strconv.IntSize)
			if perr == nil || strings.HasPrefix(words[0], "#") {
				err = ErrOpcodeMissing
			} else {
				err = ErrOpcodeInvalid
			}
			return
		}
		args := words[1:]
		if len(args) < op.Arity() {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > op.Arity() {
			err = ErrOpcodeExtraArgs
			return
		}

		modes := make([]Mode, len(args))
		values := make([]Word, len(args))
		labels := make([]string, len(args))
		for n, arg := range args {
			if strings.HasPrefix(arg, "#") {
				modes[n] = MODE_IMMEDIATE
				arg = arg[1:]
			}
			if len(arg) == 0 {
				err = ErrOpcodeValueMissing
				return
			}
			values[n], labels[n], err = asm.valueOf(arg)
			if err != nil {
				return
			}
		}

		line.emit(Word(MakeCode(op, modes...)), "")
		for n := range args {
			line.emit(values[n], labels[n])
		}
	}

	if asm.Verbose {
		log.Printf("%03d: %v", line.Ip, line.Codes)
	}

	asm.Lines = append(asm.Lines, line)

	return
}

// Parse parses an input stream into a Program listing.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]
		for index, label := range op.Links {
			ip, ok := asm.Label[label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			op.Codes[index] += ip
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
