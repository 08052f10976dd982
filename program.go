// Completion: 100% - Program builder complete
package main

// buildProgram turns a validated token sequence into a Program with every
// bracket pair cross-linked. A single left-to-right pass keeps a stack of
// open '[' indices; each ']' pops one and links both instructions to each
// other. The stack discipline makes crossing pairs impossible, and the
// lexer has already rejected unbalanced input, so the stack operations
// here cannot fail.
func buildProgram(tokens []token) Program {
	prog := make(Program, 0, len(tokens))
	var open []int

	for _, tok := range tokens {
		switch tok.ch {
		case '>':
			prog = append(prog, Instruction{Op: OpMovePointer, Arg: 1})
		case '<':
			prog = append(prog, Instruction{Op: OpMovePointer, Arg: -1})
		case '+':
			prog = append(prog, Instruction{Op: OpAddValue, Arg: 1})
		case '-':
			prog = append(prog, Instruction{Op: OpAddValue, Arg: -1})
		case '.':
			prog = append(prog, Instruction{Op: OpOutput})
		case ',':
			prog = append(prog, Instruction{Op: OpInput})
		case '[':
			open = append(open, len(prog))
			prog = append(prog, Instruction{Op: OpLoopStart})
		case ']':
			start := open[len(open)-1]
			open = open[:len(open)-1]
			prog = append(prog, Instruction{Op: OpLoopEnd, Match: start})
			prog[start].Match = len(prog) - 1
		}
	}
	return prog
}

// CompileSource runs the full front end: lex, validate, build. The result
// is the unoptimized Program; callers pass it through optimizeProgram
// when optimization is requested.
func CompileSource(src string) (Program, error) {
	tokens, err := lexSource(src)
	if err != nil {
		return nil, err
	}
	return buildProgram(tokens), nil
}

// relinkBrackets recomputes every Match index from scratch. The optimizer
// calls this after any pass that adds or removes instructions, instead of
// patching indices incrementally.
func relinkBrackets(prog Program) {
	var open []int
	for i := range prog {
		switch prog[i].Op {
		case OpLoopStart:
			open = append(open, i)
		case OpLoopEnd:
			start := open[len(open)-1]
			open = open[:len(open)-1]
			prog[i].Match = start
			prog[start].Match = i
		}
	}
}
