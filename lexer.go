// Completion: 100% - Lexer and bracket validation complete
package main

// The lexer filters source text down to the eight instruction characters.
// Everything else is a comment and is discarded. Each kept character keeps
// its 1-based line and column so that bracket errors can point at the
// offending bracket rather than at the end of the file.

type token struct {
	ch   byte
	line int
	col  int
}

func isInstructionChar(c byte) bool {
	switch c {
	case '>', '<', '+', '-', '.', ',', '[', ']':
		return true
	}
	return false
}

// lexSource tokenizes src and validates bracket balance. A ']' with no
// open '[' fails immediately; an unclosed '[' at end of input fails with
// the position of the innermost one still open.
func lexSource(src string) ([]token, error) {
	tokens := make([]token, 0, len(src))
	var open []token

	line, col := 1, 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\n' {
			line++
			col = 0
			continue
		}
		col++
		if !isInstructionChar(c) {
			continue
		}
		tok := token{ch: c, line: line, col: col}
		switch c {
		case '[':
			open = append(open, tok)
		case ']':
			if len(open) == 0 {
				return nil, &CompileError{Line: line, Col: col, Kind: UnexpectedRightBracket}
			}
			open = open[:len(open)-1]
		}
		tokens = append(tokens, tok)
	}
	if len(open) > 0 {
		tok := open[len(open)-1]
		return nil, &CompileError{Line: tok.line, Col: tok.col, Kind: UnclosedLeftBracket}
	}
	return tokens, nil
}
