package compiler

import "fmt"

// ParseError reports a syntax or semantic error discovered while
// compiling a token stream: an unexpected token, a missing delimiter, a
// local/constant-pool overflow, an invalid assignment target, or use of
// an uninitialized local.
type ParseError struct {
	Msg    string
	Lexeme string
	Line   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Compile error: '%s' - %s", e.Line, e.Lexeme, e.Msg)
}
