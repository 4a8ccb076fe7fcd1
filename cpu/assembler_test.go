package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/io"
)

func doAssemble(t *testing.T, program []string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%d", OP_HALT), asm.Equate["OP_HALT"])
	assert.Equal(fmt.Sprintf("%d", MODE_IMMEDIATE), asm.Equate["MODE_IMMEDIATE"])
}

func TestAssemblerPrograms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		binary  []Word
	}){
		{"halt", []string{"halt"}, []Word{99}},
		{"add", []string{"add 0 0 0", "halt"}, []Word{1, 0, 0, 0, 99}},
		{"mul_imm", []string{"mul 4 #3 4", ".data 33"}, []Word{1002, 4, 3, 4, 33}},
		{"io", []string{"in 0", "out 0", "halt"}, []Word{3, 0, 4, 0, 99}},
		{"immediates", []string{"add #2 #3 #3", "halt"}, []Word{11101, 2, 3, 3, 99}},
		{"negative", []string{"out #-5", "halt"}, []Word{104, -5, 99}},
		{"hex", []string{".data 0x10 -0x1"}, []Word{16, -1}},
	}

	for _, entry := range table {
		prog := doAssemble(t, entry.program)
		assert.Equal(entry.binary, prog.Binary(), entry.name)
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; double the input",
		"start:  in value",
		"        mul value #2 value",
		"        out value      ; result",
		"        halt",
		"value:  .data 0",
	}

	prog := doAssemble(t, program)

	expected := []Line{
		{LineNo: 2, Ip: 0, Words: []string{"in", "value"},
			Codes: []Word{3, 9}, Links: map[int]string{1: "value"}},
		{LineNo: 3, Ip: 2, Words: []string{"mul", "value", "#2", "value"},
			Codes: []Word{1002, 9, 2, 9}, Links: map[int]string{1: "value", 3: "value"}},
		{LineNo: 4, Ip: 6, Words: []string{"out", "value"},
			Codes: []Word{4, 9}, Links: map[int]string{1: "value"}},
		{LineNo: 5, Ip: 8, Words: []string{"halt"},
			Codes: []Word{99}},
		{LineNo: 6, Ip: 9, Words: []string{".data", "0"},
			Codes: []Word{0}},
	}
	assert.Equal(expected, prog.Lines)
	assert.Equal([]Word{3, 9, 1002, 9, 2, 9, 4, 9, 99, 0}, prog.Binary())

	m := NewMachine(prog.Binary())
	script := &io.Script{Inputs: []int{21}}
	m.SetChannel(script)
	assert.NoError(m.Run())
	assert.Equal([]int{42}, script.Outputs)
}

func TestAssemblerLabelData(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"a: b: .data c a",
		"c:",
		"halt",
	}

	prog := doAssemble(t, program)
	assert.Equal([]Word{2, 0, 99}, prog.Binary())
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ N 5",
		".equ SLOT 0",
		"out #N",
		"out #$(N*2+1)",
		"in SLOT",
		"halt",
		".data $(IP) $(LINENO) $(OP_MUL + 100*MODE_IMMEDIATE)",
	}

	prog := doAssemble(t, program)
	assert.Equal([]Word{104, 5, 104, 11, 3, 0, 99, 7, 7, 102}, prog.Binary())
}

func TestAssemblerExpressionLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"halt",
		"table: .data 7 8 9",
		"out $(table + 2)",
	}

	prog := doAssemble(t, program)
	assert.Equal([]Word{99, 7, 8, 9, 4, 3}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SIZE", "3")
	asm.Predefine("SIZE", "4")
	asm.Predefine("OTHER", "-1")

	prog, err := asm.Parse(strings.NewReader("out #SIZE\nout #OTHER\nhalt"))
	assert.NoError(err)
	assert.Equal([]Word{104, 4, 104, -1, 99}, prog.Binary())
}

func TestAssemblerDisassemble(t *testing.T) {
	assert := assert.New(t)

	image := []Word{3, 13, 1, 13, 13, 14, 4, 14, 1102, 2, 2, 14, 99, 0, 0}

	var program []string
	for _, text := range Disassemble(image) {
		program = append(program, text)
	}

	prog := doAssemble(t, program)
	assert.Equal(image, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"invalid", []string{"bogus 1"}, 1, ErrOpcodeInvalid},
		{"missing", []string{"halt", "#1"}, 2, ErrOpcodeMissing},
		{"missing_number", []string{"7 1"}, 1, ErrOpcodeMissing},
		{"few", []string{"add 1 2"}, 1, ErrOpcodeValueMissing},
		{"extra", []string{"halt 1"}, 1, ErrOpcodeExtraArgs},
		{"empty_imm", []string{"out #"}, 1, ErrOpcodeValueMissing},
		{"empty_data", []string{".data"}, 1, ErrOpcodeValueMissing},
		{"label_dup", []string{"a: halt", "a: halt"}, 2, ErrLabelDuplicate},
		{"equ_syntax", []string{".equ X"}, 1, ErrEquateSyntax},
		{"equ_dup", []string{".equ X 1", ".equ X 2"}, 2, ErrEquateDuplicate},
		{"equ_sys", []string{".equ OP_ADD 1"}, 1, ErrEquateDuplicate},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syn *ErrSyntax
		assert.True(errors.As(err, &syn), entry.name)
		if syn != nil {
			assert.Equal(entry.lineno, syn.LineNo, entry.name)
		}
	}
}

func TestAssemblerParseErrors(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("halt\nout nowhere"))
	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("nowhere"), missing)
	var syn *ErrSyntax
	assert.True(errors.As(err, &syn))
	assert.Equal(2, syn.LineNo)
	assert.Equal("out nowhere", syn.Line)

	_, err = asm.Parse(strings.NewReader("out 1x"))
	var number ErrParseNumber
	assert.True(errors.As(err, &number))
	assert.Equal(ErrParseNumber("1x"), number)

	_, err = asm.Parse(strings.NewReader("out $(1 +)"))
	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))

	_, err = asm.Parse(strings.NewReader(`out $("text")`))
	assert.True(errors.As(err, &expr))

	_, err = asm.Parse(strings.NewReader("1a: halt"))
	var value ErrParseValue
	assert.True(errors.As(err, &value))
}
