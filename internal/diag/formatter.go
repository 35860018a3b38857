package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/kr/text"
	"github.com/mattn/go-isatty"
)

// SourceLines supplies the raw text of a file, so the formatter can show
// the offending line under an Annotation without re-reading the original
// program text itself. A VM wires this to whatever buffer it loaded the
// module source from.
type SourceLines func(file string, line int) (string, bool)

// Formatter renders an *Error as a multi-line, source-anchored report.
type Formatter struct {
	Source SourceLines
	Color  bool
}

// NewFormatter builds a Formatter that only emits ANSI highlighting when
// out is attached to a real terminal (spec has no opinion on color; this
// is purely a readability nicety modeled on the teacher's CLI output, and
// turning it off under redirection keeps captured logs byte-identical
// across environments).
func NewFormatter(out *os.File, source SourceLines) *Formatter {
	color := out != nil && isatty.IsTerminal(out.Fd())
	return &Formatter{Source: source, Color: color}
}

func (f *Formatter) paint(code, s string) string {
	if !f.Color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Format renders the full report: kind/message, each annotation with its
// source excerpt and caret range, then the traceback, outermost frame
// first and innermost (deepest) last, every frame line indented by the
// same two spaces via github.com/kr/text.
func (f *Formatter) Format(e *Error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", f.paint("1;31", string(e.Kind)), e.Message)

	for _, a := range e.Annotations {
		fmt.Fprintf(&sb, "  --> %s\n", a.Span.String())
		if f.Source != nil {
			if line, ok := f.Source(a.Span.File, a.Span.Line); ok {
				lineNo := fmt.Sprintf("%d", a.Span.Line)
				fmt.Fprintf(&sb, "%s | %s\n", lineNo, line)
				pad := strings.Repeat(" ", len(lineNo))
				caretPad := strings.Repeat(" ", max0(a.Span.Column-1))
				carets := strings.Repeat("^", a.Span.CaretWidth())
				fmt.Fprintf(&sb, "%s | %s%s\n", pad, caretPad, f.paint("1;33", carets))
			}
		}
		if a.Caption != "" {
			fmt.Fprintf(&sb, "      %s\n", a.Caption)
		}
	}

	// A wrapped cause (Error.Wrap) carries a pkg/errors stack distinct
	// from the source-level message; surface it with %+v only when it
	// actually differs; New's own default cause always matches Message,
	// so this only fires for errors built via Wrap.
	if cause := e.Cause(); cause != nil && cause.Error() != e.Message {
		fmt.Fprintf(&sb, "caused by: %+v\n", cause)
	}

	if len(e.Trace) > 0 {
		sb.WriteString("\nBlue-call trace (deepest last):\n")
		// e.Trace[0] is innermost; print deepest-last by walking the
		// slice backward. All frames share one indentation level; the
		// nesting depth is not reflected in the indent.
		body := &strings.Builder{}
		for i := len(e.Trace) - 1; i >= 0; i-- {
			fr := e.Trace[i]
			fmt.Fprintf(body, "at %s (%s)\n", fr.FuncName, fr.Span.String())
		}
		sb.WriteString(text.Indent(strings.TrimRight(body.String(), "\n"), "  "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
