// Completion: 100% - Interpreter backend tests complete
package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// The well-known Hello World program. It exercises nested loops, the [<]
// scan idiom and long fusable runs, which makes it a good end-to-end
// check for both backends in both modes. This is the full classic
// version printing "Hello World!\n", not one of the shortened variants
// that stop after "Hello".
const helloWorldSource = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

const helloWorldOutput = "Hello World!\n"

func runInterpreter(t *testing.T, src string, optimize bool, input string) (string, error) {
	t.Helper()
	prog := mustCompile(t, src)
	if optimize {
		prog = optimizeProgram(prog)
	}
	var out bytes.Buffer
	err := NewInterpreter(prog, strings.NewReader(input), &out).Run()
	return out.String(), err
}

func TestInterpreterHelloWorld(t *testing.T) {
	for _, optimize := range []bool{false, true} {
		out, err := runInterpreter(t, helloWorldSource, optimize, "")
		if err != nil {
			t.Fatalf("optimize=%v: run failed: %v", optimize, err)
		}
		if out != helloWorldOutput {
			t.Errorf("optimize=%v: expected %q, got %q", optimize, helloWorldOutput, out)
		}
	}
}

func TestInterpreterEcho(t *testing.T) {
	out, err := runInterpreter(t, ",.", false, "\x41")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x41" {
		t.Errorf("expected single byte 0x41, got %q", out)
	}
}

func TestInterpreterCat(t *testing.T) {
	// Copies input to output until end of input: relies on EOF leaving
	// the cell unchanged, so a zero cell after the final read ends the loop.
	out, err := runInterpreter(t, ",[.[-],]", false, "hello\x00")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected %q, got %q", "hello", out)
	}
}

func TestInterpreterEndOfInputLeavesCellUnchanged(t *testing.T) {
	// First read stores 'A'; second read hits end of input and must leave
	// the cell alone.
	out, err := runInterpreter(t, ",,.", false, "A")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "A" {
		t.Errorf("expected cell to keep 'A' after exhausted input, got %q", out)
	}
}

func TestInterpreterTapeUnderflow(t *testing.T) {
	for _, src := range []string{"<", "+><<", "+[<]"} {
		_, err := runInterpreter(t, src, false, "")
		if !errors.Is(err, ErrTapeUnderflow) {
			t.Errorf("%q: expected ErrTapeUnderflow, got %v", src, err)
		}
	}
}

func TestInterpreterTapeGrowsRightward(t *testing.T) {
	// Move far beyond the initial tape allocation, then come back.
	src := strings.Repeat(">", initialTapeSize+10) + "+" +
		strings.Repeat("<", initialTapeSize+10) + "."
	out, err := runInterpreter(t, src, false, "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "\x00" {
		t.Errorf("expected zero byte from cell 0, got %q", out)
	}
}

func TestClearLoopFromNonZeroCell(t *testing.T) {
	// A [-] starting from cell value 200 must zero the cell in both the
	// unoptimized run (200 iterations) and the optimized run (SetValue 0).
	for _, optimize := range []bool{false, true} {
		prog := mustCompile(t, "[-]")
		if optimize {
			prog = optimizeProgram(prog)
		}
		in := NewInterpreter(prog, strings.NewReader(""), &bytes.Buffer{})
		in.tape.Set(200)
		if err := in.Run(); err != nil {
			t.Fatalf("optimize=%v: run failed: %v", optimize, err)
		}
		if got := in.tape.Get(); got != 0 {
			t.Errorf("optimize=%v: expected cell 0 to be 0, got %d", optimize, got)
		}
	}
}

func TestScanLoopFindsZeroCell(t *testing.T) {
	// Cells 0..2 are nonzero, cell 3 is zero; [>] must stop there in both
	// modes, and a no-op when starting on a zero cell.
	for _, optimize := range []bool{false, true} {
		prog := mustCompile(t, "+>+>+<<[>]")
		if optimize {
			prog = optimizeProgram(prog)
		}
		in := NewInterpreter(prog, strings.NewReader(""), &bytes.Buffer{})
		if err := in.Run(); err != nil {
			t.Fatalf("optimize=%v: run failed: %v", optimize, err)
		}
		if in.tape.ptr != 3 {
			t.Errorf("optimize=%v: expected pointer at 3, got %d", optimize, in.tape.ptr)
		}
	}
}

func TestScanLoopOnZeroCellDoesNotMove(t *testing.T) {
	for _, optimize := range []bool{false, true} {
		prog := mustCompile(t, "[>]")
		if optimize {
			prog = optimizeProgram(prog)
		}
		in := NewInterpreter(prog, strings.NewReader(""), &bytes.Buffer{})
		if err := in.Run(); err != nil {
			t.Fatalf("optimize=%v: run failed: %v", optimize, err)
		}
		if in.tape.ptr != 0 {
			t.Errorf("optimize=%v: expected pointer to stay at 0, got %d", optimize, in.tape.ptr)
		}
	}
}
