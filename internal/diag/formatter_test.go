package diag

import (
	"strings"
	"testing"

	"spy/internal/ast"
)

// TestFormatRendersMatrixArrayTraceDeepestLast reproduces spec §8 scenario
// 4: Matrix[T,R,C] instantiating Array[T,N] with a non-positive N. The
// formatter must show the source excerpt with a caret under the offending
// span, then the blue-call chain main -> Matrix[i32] -> Array[i32] with the
// deepest frame (Array) printed last.
func TestFormatRendersMatrixArrayTraceDeepestLast(t *testing.T) {
	src := map[string][]string{
		"matrix.spy": {
			"def main() -> void:",
			"    Matrix[i32, 2, 3]",
		},
	}
	lines := func(file string, line int) (string, bool) {
		ls, ok := src[file]
		if !ok || line < 1 || line > len(ls) {
			return "", false
		}
		return ls[line-1], true
	}

	span := ast.Span{File: "matrix.spy", Line: 2, Column: 5, EndColumn: 22}
	err := New(StaticError, "Array[T, N]: N must be positive").
		Annotate(LevelError, span, "")

	// Trace[0] is innermost (pushed first as the stack unwinds): Array,
	// then Matrix, then main, matching diag.Error.PushFrame's documented
	// convention.
	err.PushFrame(Frame{FuncName: "mat::Array[i32]", Span: span})
	err.PushFrame(Frame{FuncName: "mat::Matrix[i32]", Span: ast.Span{File: "matrix.spy", Line: 2, Column: 5}})
	err.PushFrame(Frame{FuncName: "main::main", Span: ast.Span{File: "matrix.spy", Line: 2, Column: 5}})

	f := &Formatter{Source: lines}
	got := f.Format(err)

	if !strings.Contains(got, "StaticError: Array[T, N]: N must be positive") {
		t.Fatalf("missing kind/message line:\n%s", got)
	}
	if !strings.Contains(got, "    Matrix[i32, 2, 3]") {
		t.Fatalf("missing source excerpt:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat("^", span.CaretWidth())) {
		t.Fatalf("missing caret underline of width %d:\n%s", span.CaretWidth(), got)
	}

	// "deepest last": the outermost frame (main) is printed first, the
	// innermost (Array, the frame that actually raised) printed last.
	iArray := strings.Index(got, "mat::Array[i32]")
	iMatrix := strings.Index(got, "mat::Matrix[i32]")
	iMain := strings.Index(got, "main::main")
	if iArray < 0 || iMatrix < 0 || iMain < 0 {
		t.Fatalf("missing one or more trace frames:\n%s", got)
	}
	if !(iMain < iMatrix && iMatrix < iArray) {
		t.Fatalf("expected trace order main, then Matrix, then Array (deepest last):\n%s", got)
	}
}

// TestFormatWithoutColorHasNoEscapeCodes pins down that a Formatter built
// with Color: false (the default for a non-terminal stderr, per
// NewFormatter's isatty check) never emits ANSI escapes, keeping captured
// logs byte-identical across environments.
func TestFormatWithoutColorHasNoEscapeCodes(t *testing.T) {
	err := New(TypeError, "no operator + for types str, i32").
		Annotate(LevelError, ast.Span{File: "f.spy", Line: 1, Column: 1}, "")
	f := &Formatter{}
	got := f.Format(err)
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("expected no ANSI escapes without Color, got:\n%s", got)
	}
}
