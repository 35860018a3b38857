// Package diag implements SPy's error and traceback model: errors are
// W-object-like values carrying an ordered list of source annotations
// plus a captured multi-frame traceback, decoupled from how they are
// raised (spec §4.6, §7).
package diag

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"spy/internal/ast"
)

// Kind is the broad error category (spec §7).
type Kind string

const (
	ParseError    Kind = "ParseError"
	SyntaxError   Kind = "SyntaxError"
	StaticError   Kind = "StaticError"
	TypeError     Kind = "TypeError"
	ValueError    Kind = "ValueError"
	IndexError    Kind = "IndexError"
	PanicError    Kind = "PanicError"
)

// Level is the severity of one Annotation within an error report.
type Level int

const (
	LevelError Level = iota
	LevelNote
)

// Annotation is one highlighted span within an error report (spec §4.6).
type Annotation struct {
	Level   Level
	Span    ast.Span
	Caption string
}

// Frame is one entry in a traceback: a blue-call or interp-mode call site
// captured at raise time.
type Frame struct {
	FuncName string
	Span     ast.Span
}

// Error is the structured, source-anchored error value used throughout
// compilation and interp-mode execution. It wraps an optional underlying
// Go error (via github.com/pkg/errors) so implementers can still recover
// a Go-level stack trace with %+v while SPy authors see the source-level
// report from Formatter.Format.
type Error struct {
	Kind        Kind
	Message     string
	Annotations []Annotation
	Trace       []Frame
	cause       error
}

// New constructs a fresh Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.New(message)}
}

// Wrap attaches an underlying Go error (e.g. a registry invariant
// violation) for implementer-facing diagnosis, without changing the
// source-level report an SPy author sees.
func (e *Error) Wrap(cause error) *Error {
	e.cause = errors.Wrap(cause, e.Message)
	return e
}

// Annotate appends one highlighted span to the report, in the order it
// should be printed.
func (e *Error) Annotate(level Level, span ast.Span, caption string) *Error {
	e.Annotations = append(e.Annotations, Annotation{Level: level, Span: span, Caption: caption})
	return e
}

// PushFrame records one more traceback frame. Callers push frames as the
// blue-call or interp-mode stack unwinds, so Trace[0] is the innermost
// (deepest) call and the last entry is the outermost — "nested blue calls
// are printed inner-to-outer, deepest last" (spec §4.6/§7) means the
// formatter walks this slice in reverse.
func (e *Error) PushFrame(f Frame) *Error {
	e.Trace = append(e.Trace, f)
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Cause returns the wrapped Go-level error, if any, so %+v formatting can
// surface an implementer stack trace alongside the SPy-facing report.
func (e *Error) Cause() error { return e.cause }

// candidateCount is a small helper used by dispatch-failure messages to
// render "checked N candidates" with go-humanize so the count reads
// naturally even when it is large (e.g. a capability table inherited by
// many lifted pointer specializations).
func candidateCount(n int) string {
	return humanize.Comma(int64(n))
}

// WithCandidateCount appends a "checked N candidates" note to a dispatch
// failure message.
func (e *Error) WithCandidateCount(n int) *Error {
	e.Message = e.Message + " (checked " + candidateCount(n) + " candidate"
	if n != 1 {
		e.Message += "s"
	}
	e.Message += ")"
	return e
}
