// Completion: 100% - Interpreter backend complete
package main

import (
	"io"
)

// Interpreter executes a Program with an explicit program counter against
// a growable Tape. Each run owns its tape exclusively; running the same
// Program from several Interpreters is safe.
type Interpreter struct {
	prog   Program
	tape   *Tape
	input  io.Reader
	output io.Writer
}

func NewInterpreter(prog Program, input io.Reader, output io.Writer) *Interpreter {
	return &Interpreter{
		prog:   prog,
		tape:   NewTape(),
		input:  input,
		output: output,
	}
}

// Run executes the program to completion. The terminal state is the
// program counter reaching the end of the instruction sequence; a
// non-terminating program simply never gets there.
func (in *Interpreter) Run() error {
	pc := 0
	for pc < len(in.prog) {
		ins := in.prog[pc]
		switch ins.Op {
		case OpMovePointer:
			if err := in.tape.Move(ins.Arg); err != nil {
				return err
			}
		case OpAddValue:
			in.tape.Add(byte(ins.Arg))
		case OpSetValue:
			in.tape.Set(byte(ins.Arg))
		case OpOutput:
			if err := in.writeByte(in.tape.Get()); err != nil {
				return err
			}
		case OpInput:
			if err := in.readByte(); err != nil {
				return err
			}
		case OpLoopStart:
			if in.tape.Get() == 0 {
				pc = ins.Match
			}
		case OpLoopEnd:
			if in.tape.Get() != 0 {
				pc = ins.Match
				continue
			}
		case OpScanUntilZero:
			for in.tape.Get() != 0 {
				if err := in.tape.Move(ins.Arg); err != nil {
					return err
				}
			}
		}
		pc++
	}
	return nil
}

// writeByte emits one byte immediately; no buffering, so output ordering
// is observable as the program runs.
func (in *Interpreter) writeByte(b byte) error {
	_, err := in.output.Write([]byte{b})
	return err
}

// readByte reads one byte into the current cell. Exhausted input leaves
// the cell unchanged, matching the JIT backend's read(2) behavior.
func (in *Interpreter) readByte() error {
	var buf [1]byte
	for {
		n, err := in.input.Read(buf[:])
		if n == 1 {
			in.tape.Set(buf[0])
			return nil
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
