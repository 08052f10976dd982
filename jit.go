// Completion: 100% - JIT backend complete for linux/amd64
package main

import (
	"fmt"
	"os"
)

// The JIT backend compiles a finalized Program into one executable code
// buffer and transfers control into it exactly once. The cell region is a
// fixed mapping sized by BF67_MEMORY (default 4 MiB) with a small header
// in front of the cells; generated code reports its outcome through the
// status word in that header. Both mappings are released on every exit
// path, including compilation failure.

const (
	defaultMemSize = 4 * 1024 * 1024

	// memHeaderSize bytes precede the cells; the 32-bit status word is at
	// offset 0 of the region
	memHeaderSize = 64
)

type JIT struct {
	prog    Program
	memSize int
	inFD    int
	outFD   int
}

// NewJIT prepares a JIT run reading from inFD and writing to outFD.
// memSize <= 0 selects the default cell region size.
func NewJIT(prog Program, inFD, outFD, memSize int) *JIT {
	if memSize <= 0 {
		memSize = defaultMemSize
	}
	return &JIT{prog: prog, memSize: memSize, inFD: inFD, outFD: outFD}
}

// Run maps the cell region, compiles the program against its final
// addresses, maps the code write-only first and execute-only after
// population, runs it, and translates the status word into an error.
func (j *JIT) Run() error {
	mem, err := mapRegion(memHeaderSize + j.memSize)
	if err != nil {
		return &CodegenError{Cause: err}
	}
	defer releaseRegion(mem)

	base := regionAddr(mem)
	code := compileProgram(j.prog, codeParams{
		cellsBase:  base + memHeaderSize,
		cellsEnd:   base + uintptr(len(mem)),
		statusAddr: base,
		inFD:       j.inFD,
		outFD:      j.outFD,
	})
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "-> JIT: %d instructions, %d bytes of machine code\n",
			len(j.prog), len(code))
	}

	buf, err := mapExecutable(code)
	if err != nil {
		return &CodegenError{Cause: err}
	}
	defer releaseRegion(buf)

	enterCodeBuffer(buf)

	switch mem[0] {
	case statusOK:
		return nil
	case statusUnderflow:
		return ErrTapeUnderflow
	case statusOverflow:
		return ErrTapeOverflow
	default:
		return fmt.Errorf("generated code returned unknown status %d", mem[0])
	}
}
