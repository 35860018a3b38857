package ast

import "fmt"

// Span is a source location, attached to every untyped and typed AST
// node. It is the unit diagnostics anchor on (spec §4.6: annotations
// carry a span, and the formatter underlines it with carets).
type Span struct {
	File      string
	Line      int
	Column    int
	EndColumn int // for multi-character underlines; 0 means "just Column"
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// CaretWidth returns how many caret characters the formatter should draw
// under this span.
func (s Span) CaretWidth() int {
	if s.EndColumn > s.Column {
		return s.EndColumn - s.Column
	}
	return 1
}
