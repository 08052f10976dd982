// Completion: 100% - Instruction set complete
package main

import (
	"fmt"
	"strings"
)

// The instruction set. The eight source characters lower to six ops; the
// optimizer introduces the remaining two (OpSetValue from clear loops,
// OpScanUntilZero from scan loops). The set is closed: both backends
// switch exhaustively over it.
type Op int

const (
	OpMovePointer Op = iota // '>' / '<', Arg = signed pointer delta
	OpAddValue              // '+' / '-', Arg = signed cell delta (mod 256)
	OpSetValue              // Arg = value stored into the current cell
	OpOutput                // '.', write the current cell
	OpInput                 // ',', read one byte into the current cell
	OpLoopStart             // '[', Match = index of the partner ']'
	OpLoopEnd               // ']', Match = index of the partner '['
	OpScanUntilZero         // Arg = step, move by step until a zero cell
)

func (op Op) String() string {
	switch op {
	case OpMovePointer:
		return "move"
	case OpAddValue:
		return "add"
	case OpSetValue:
		return "set"
	case OpOutput:
		return "out"
	case OpInput:
		return "in"
	case OpLoopStart:
		return "loop"
	case OpLoopEnd:
		return "end"
	case OpScanUntilZero:
		return "scan"
	default:
		return "unknown"
	}
}

// Instruction is one element of a built program. Arg carries the fused
// delta, set value or scan step; Match is only meaningful for brackets.
type Instruction struct {
	Op    Op
	Arg   int
	Match int
}

func (ins Instruction) String() string {
	switch ins.Op {
	case OpLoopStart, OpLoopEnd:
		return fmt.Sprintf("%s %d", ins.Op, ins.Match)
	case OpOutput, OpInput:
		return ins.Op.String()
	default:
		return fmt.Sprintf("%s %d", ins.Op, ins.Arg)
	}
}

// Program is an ordered instruction sequence. Once built it is never
// mutated; the optimizer produces a fresh Program.
type Program []Instruction

// String returns a one-instruction-per-line listing, used by verbose mode.
func (p Program) String() string {
	var sb strings.Builder
	for i, ins := range p {
		fmt.Fprintf(&sb, "%4d  %s\n", i, ins)
	}
	return sb.String()
}
