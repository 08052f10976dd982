// Completion: 100% - Error taxonomy complete
package main

import (
	"errors"
	"fmt"
)

// The failure classes a run can end with, plus the supplemental right-edge
// overflow for the JIT's fixed memory region:
//   - CompileError: malformed source, detected before any execution
//   - ErrTapeUnderflow: the cell pointer moved left of cell 0
//   - ErrTapeOverflow: the cell pointer ran off the JIT's memory region
//   - CodegenError: executable memory could not be obtained or protected
//
// All of them are unrecoverable for the current run.

type CompileErrorKind int

const (
	UnexpectedRightBracket CompileErrorKind = iota
	UnclosedLeftBracket
)

func (k CompileErrorKind) String() string {
	switch k {
	case UnexpectedRightBracket:
		return "unexpected ']'"
	case UnclosedLeftBracket:
		return "unclosed '['"
	default:
		return "unknown"
	}
}

// CompileError reports an unbalanced bracket together with the position of
// the offending bracket in the source text (1-based line and column).
type CompileError struct {
	Line int
	Col  int
	Kind CompileErrorKind
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Kind, e.Line, e.Col)
}

var (
	ErrTapeUnderflow = errors.New("tape underflow: cell pointer moved left of cell 0")
	ErrTapeOverflow  = errors.New("tape overflow: cell pointer ran off the end of the memory region")
)

// CodegenError wraps whatever went wrong while obtaining or protecting the
// executable code buffer. JIT mode only.
type CodegenError struct {
	Cause error
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("code generation failed: %v", e.Cause)
}

func (e *CodegenError) Unwrap() error {
	return e.Cause
}

// Process exit codes. The numeric values are arbitrary but stable.
const (
	exitOK            = 0
	exitUsage         = 1
	exitUnbalanced    = 2
	exitTapeUnderflow = 3
	exitTapeOverflow  = 4
	exitCodegen       = 5
)

// exitCodeFor maps an error from any phase to the process exit code.
func exitCodeFor(err error) int {
	var ce *CompileError
	var ge *CodegenError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ce):
		return exitUnbalanced
	case errors.Is(err, ErrTapeUnderflow):
		return exitTapeUnderflow
	case errors.Is(err, ErrTapeOverflow):
		return exitTapeOverflow
	case errors.As(err, &ge):
		return exitCodegen
	default:
		return exitUsage
	}
}
