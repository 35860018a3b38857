// Package astframe implements the frame evaluator: a tree-walking walk
// over the typed AST that runs in one of two modes sharing a single
// implementation (spec §4.3, §9 "Two-mode evaluator"). In interp mode it
// executes every node to an ordinary W-object. In redshift mode it
// evaluates only blue dependencies eagerly and builds a residual AST node
// for every red subexpression instead of executing it.
package astframe

import (
	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/object"
	"spy/internal/symtable"
)

// Mode selects how the Evaluator treats red subexpressions.
type Mode int

const (
	Interp Mode = iota
	Redshift
)

// Frame carries the state of one function activation (spec §3.7): its
// locals, a link to the enclosing frame for closures, a source span
// field (the evaluator does not update it as it walks), and the mode flag.
// In Redshift mode it additionally owns a ResidualBuilder.
type Frame struct {
	FuncName string
	Locals   map[string]object.Value
	Parent   *Frame
	Mode     Mode
	Span     ast.Span
	Builder  *ResidualBuilder // non-nil only in Redshift mode
	Syms     *symtable.Table  // this activation's symbol table (spec §3.6)
}

// parentSyms reads the enclosing frame's symbol table, or nil at module
// scope / when def is nil (the doppler entry frame has no parent frame).
func parentSyms(parent *Frame) *symtable.Table {
	if parent == nil {
		return nil
	}
	return parent.Syms
}

// NewInterpFrame creates a frame for ordinary execution. def is the
// function whose activation this is; its symbol table chains to parent's
// so free-variable reads classify as Outer/Global rather than Local (spec
// §3.6). def may be nil for frames that never resolve a name by symbol
// table (none of the current call sites pass nil, but the zero value
// degrades gracefully to Frame.Get's old behavior of a bare chain walk).
func NewInterpFrame(funcName string, parent *Frame, def *ast.FuncDef) *Frame {
	f := &Frame{FuncName: funcName, Locals: map[string]object.Value{}, Parent: parent, Mode: Interp}
	if def != nil {
		f.Syms = buildSymTable(def, parentSyms(parent))
	}
	return f
}

// NewRedshiftFrame creates a frame that records a residual program as it
// walks blue-dependent control flow.
func NewRedshiftFrame(funcName string, parent *Frame, def *ast.FuncDef) *Frame {
	f := &Frame{
		FuncName: funcName,
		Locals:   map[string]object.Value{},
		Parent:   parent,
		Mode:     Redshift,
		Builder:  NewResidualBuilder(),
	}
	if def != nil {
		f.Syms = buildSymTable(def, parentSyms(parent))
	}
	return f
}

// Get implements funcval.Environment: a closure looks up a free variable
// by walking the frame chain outward. When this activation has a symbol
// table, a miss in f's own locals first resolves name against it so a
// captured variable is classified (and, on its defining symbol, marked
// CellVar) the same way a compiled closure's capture list would be built,
// before falling back to the chain walk to actually fetch the value.
func (f *Frame) Get(name string) (object.Value, bool) {
	if v, ok := f.Locals[name]; ok {
		return v, true
	}
	if f.Syms != nil {
		f.Syms.Resolve(name)
	}
	for fr := f.Parent; fr != nil; fr = fr.Parent {
		if v, ok := fr.Locals[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes a local in the nearest frame that already declares it,
// falling back to declaring it fresh in f itself (VarDef's normal path).
func (f *Frame) Set(name string, v object.Value) {
	for fr := f; fr != nil; fr = fr.Parent {
		if _, ok := fr.Locals[name]; ok {
			fr.Locals[name] = v
			return
		}
	}
	f.Locals[name] = v
}

// panicErr converts a libspy-style Go error into a PanicError, preserving
// the source span of the node that raised it.
func panicErr(span ast.Span, err error) *diag.Error {
	return diag.New(diag.PanicError, err.Error()).Annotate(diag.LevelError, span, "")
}
