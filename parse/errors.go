package parse

import "fmt"

// SyntaxError is returned by ParseKB, ParseRule and ParseQuery on
// malformed source, carrying the position of the offending token.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}
