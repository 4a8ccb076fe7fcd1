package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImage(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		text  string
		image []Word
	}){
		{"simple", "1,0,0,0,99", []Word{1, 0, 0, 0, 99}},
		{"newline", "1002,4,3,4,33\n", []Word{1002, 4, 3, 4, 33}},
		{"spaces", " 1, -2 ,\n3 ,", []Word{1, -2, 3}},
		{"single", "99", []Word{99}},
	}

	for _, entry := range table {
		image, err := ParseImage(strings.NewReader(entry.text))
		assert.NoError(err, entry.name)
		assert.Equal(entry.image, image, entry.name)
	}
}

func TestParseImageErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseImage(strings.NewReader(""))
	assert.ErrorIs(err, ErrImageEmpty)

	_, err = ParseImage(strings.NewReader(" \n"))
	assert.ErrorIs(err, ErrImageEmpty)

	_, err = ParseImage(strings.NewReader("1,x,3"))
	var pn ErrParseNumber
	assert.True(errors.As(err, &pn))
	assert.Equal(ErrParseNumber("x"), pn)

	_, err = ParseImage(strings.NewReader("1,,3"))
	assert.True(errors.As(err, &pn))
	assert.Equal(ErrParseNumber(""), pn)
}

func TestFormatImage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1002,4,3,4,-33", FormatImage([]Word{1002, 4, 3, 4, -33}))
	assert.Equal("", FormatImage(nil))

	image, err := ParseImage(strings.NewReader(FormatImage([]Word{3, 0, 4, 0, 99})))
	assert.NoError(err)
	assert.Equal([]Word{3, 0, 4, 0, 99}, image)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	type listing struct {
		ip   int
		text string
	}

	table := [](struct {
		name    string
		memory  []Word
		listing []listing
	}){
		{"mul_imm", []Word{1002, 4, 3, 4, 33}, []listing{{0, "mul 4 #3 4"}, {4, ".data 33"}}},
		{"io", []Word{3, 0, 104, -7, 99}, []listing{{0, "in 0"}, {2, "out #-7"}, {4, "halt"}}},
		{"short", []Word{1, 0}, []listing{{0, ".data 1"}, {1, ".data 0"}}},
		{"empty", nil, nil},
	}

	for _, entry := range table {
		var got []listing
		for ip, text := range Disassemble(entry.memory) {
			got = append(got, listing{ip, text})
		}
		assert.Equal(entry.listing, got, entry.name)
	}

	// Early exit
	count := 0
	for range Disassemble([]Word{99, 99, 99}) {
		count++
		break
	}
	assert.Equal(1, count)
}
