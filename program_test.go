// Completion: 100% - Program builder tests complete
package main

import (
	"errors"
	"testing"
)

func mustCompile(t *testing.T, src string) Program {
	t.Helper()
	prog, err := CompileSource(src)
	if err != nil {
		t.Fatalf("CompileSource(%q) failed: %v", src, err)
	}
	return prog
}

// checkBrackets verifies that every LoopStart/LoopEnd pair is linked both
// ways and that no two pairs cross.
func checkBrackets(t *testing.T, prog Program) {
	t.Helper()
	var open []int
	for i, ins := range prog {
		switch ins.Op {
		case OpLoopStart:
			if ins.Match <= i || ins.Match >= len(prog) {
				t.Fatalf("instruction %d: bad loop start match %d", i, ins.Match)
			}
			if prog[ins.Match].Op != OpLoopEnd || prog[ins.Match].Match != i {
				t.Fatalf("instruction %d: partner %d does not link back", i, ins.Match)
			}
			open = append(open, ins.Match)
		case OpLoopEnd:
			if len(open) == 0 || open[len(open)-1] != i {
				t.Fatalf("instruction %d: loop end crosses another pair", i)
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		t.Fatalf("unclosed loop starts remain: %v", open)
	}
}

func TestBuildSimpleProgram(t *testing.T) {
	prog := mustCompile(t, "+[,.]")
	want := Program{
		{Op: OpAddValue, Arg: 1},
		{Op: OpLoopStart, Match: 4},
		{Op: OpInput},
		{Op: OpOutput},
		{Op: OpLoopEnd, Match: 1},
	}
	if len(prog) != len(want) {
		t.Fatalf("expected %d instructions, got %d:\n%s", len(want), len(prog), prog)
	}
	for i := range want {
		if prog[i] != want[i] {
			t.Errorf("instruction %d: expected %v, got %v", i, want[i], prog[i])
		}
	}
}

func TestBracketInvariant(t *testing.T) {
	sources := []string{
		"[]",
		"[[]]",
		"[][]",
		"[[][]][]",
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.",
	}
	for _, src := range sources {
		checkBrackets(t, mustCompile(t, src))
	}
}

func TestInfiniteLoopIsAcceptedStructurally(t *testing.T) {
	// +[] never terminates at runtime, but it is well formed, so building
	// it must succeed. Non-termination is a runtime characteristic, not a
	// build-time error.
	prog := mustCompile(t, "+[]")
	checkBrackets(t, prog)
}

func TestUnbalancedProgramsRejectedBeforeExecution(t *testing.T) {
	for _, src := range []string{"]", "[", "+]", "++[+"} {
		_, err := CompileSource(src)
		var ce *CompileError
		if !errors.As(err, &ce) {
			t.Errorf("%q: expected a CompileError, got %v", src, err)
		}
	}
}

func TestOptimizedProgramKeepsBracketInvariant(t *testing.T) {
	sources := []string{
		"[->+<]",
		"+>[++[--]<]",
		"[[[]]]",
		"++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.",
	}
	for _, src := range sources {
		checkBrackets(t, optimizeProgram(mustCompile(t, src)))
	}
}
