// Package assembler defines the supported assembler for reassembling the output.
package assembler

// Nasm is the netwide assembler, the output is written in its syntax.
const Nasm = "nasm"
