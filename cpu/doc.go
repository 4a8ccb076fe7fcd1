// Package cpu implements the machine and assembler for the intcode system.
//
// The machine has a single linear memory of signed words holding both code
// and data, an instruction pointer (IP), and a halt flag. Each instruction
// word holds an opcode in its low two decimal digits, and an addressing mode
// digit for each of up to three parameters in the hundreds, thousands, and
// ten-thousands places.
//
// The assembler provides a small assembly language for the instruction set,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
