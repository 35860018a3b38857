package ast

import "github.com/kr/pretty"

// DebugDump renders a typed AST node tree for verbose tracing and test
// assertions, without hand-writing a printer for every node kind. Never
// used on the default diagnostic path (see internal/diag for that).
func DebugDump(node interface{}) string {
	return pretty.Sprint(node)
}
