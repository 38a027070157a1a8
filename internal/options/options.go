// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input      string // input binary file
	Output     string // output file, stdout if empty
	Batch      string // glob pattern of files to process
	MemoryDump string // file to write the memory image to after execution, - for stdout
}

// Flags contains behavior options.
type Flags struct {
	Execute      bool // execute the decoded program instead of printing the disassembly
	Trace        bool // print a trace line for every executed instruction
	AssembleTest bool // verify the output by reassembling it and comparing it to the input
	Debug        bool
	Quiet        bool
}

// Program options of the simulator.
type Program struct {
	Parameters
	Flags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	Debug bool // log the decoded fields of every instruction
}

// NewDisassembler returns the disassembler options for the given program options.
func NewDisassembler(opts Program) Disassembler {
	return Disassembler{
		Debug: opts.Debug,
	}
}
