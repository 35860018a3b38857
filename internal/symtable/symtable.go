// Package symtable classifies every variable a function body touches
// into local/outer/global/cellvar, attaches a static type and a color,
// and builds the scope chain closures walk to reach enclosing frames
// (spec §3.6).
package symtable

import (
	"fmt"

	"spy/internal/ast"
	"spy/internal/object"
)

// SymbolKind classifies where a name's storage lives.
type SymbolKind int

const (
	Local SymbolKind = iota
	Outer
	Global
	CellVar
)

func (k SymbolKind) String() string {
	switch k {
	case Local:
		return "local"
	case Outer:
		return "outer"
	case Global:
		return "global"
	default:
		return "cellvar"
	}
}

// Symbol is one entry in a function's symbol table.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	StaticType *object.Type
	Color      ast.Color
	Mutable    bool
}

// Table is the per-function symbol table. Outer references chain to the
// enclosing Table so closures can resolve free variables (spec §3.6).
type Table struct {
	symbols map[string]*Symbol
	parent  *Table
	globals *Table // the module-level table; nil at module scope itself
}

// NewModuleTable creates the root table for a module's globals.
func NewModuleTable() *Table {
	return &Table{symbols: map[string]*Symbol{}}
}

// NewChildTable creates a function-local table nested inside parent,
// with globals forwarded from the module root.
func (t *Table) NewChildTable() *Table {
	globals := t.globals
	if globals == nil {
		globals = t
	}
	return &Table{symbols: map[string]*Symbol{}, parent: t, globals: globals}
}

// Declare introduces a new local symbol. Redeclaring an existing local in
// the same table is an error: SPy does not support shadowing within one
// function body.
func (t *Table) Declare(name string, typ *object.Type, color ast.Color, mutable bool) (*Symbol, error) {
	if _, exists := t.symbols[name]; exists {
		return nil, fmt.Errorf("symbol %q already declared in this scope", name)
	}
	sym := &Symbol{Name: name, Kind: Local, StaticType: typ, Color: color, Mutable: mutable}
	t.symbols[name] = sym
	return sym, nil
}

// Resolve looks up name, walking outward through parent tables and
// finally the module globals, classifying the result as Local (found in
// t itself), Outer (found in an enclosing function), or Global (found
// only at module scope). A symbol captured from an enclosing function is
// additionally marked CellVar on its original declaration so the closure
// builder knows to box it.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	if sym, ok := t.symbols[name]; ok {
		return sym, true
	}
	cur := t.parent
	for cur != nil {
		if sym, ok := cur.symbols[name]; ok {
			if sym.Kind == Local {
				sym.Kind = CellVar
			}
			outer := *sym
			outer.Kind = Outer
			return &outer, true
		}
		cur = cur.parent
	}
	if t.globals != nil {
		if sym, ok := t.globals.symbols[name]; ok {
			outer := *sym
			outer.Kind = Global
			return &outer, true
		}
	}
	return nil, false
}

// Symbols returns a copy of every symbol declared directly in t (not
// ancestors).
func (t *Table) Symbols() map[string]*Symbol {
	out := make(map[string]*Symbol, len(t.symbols))
	for k, v := range t.symbols {
		out[k] = v
	}
	return out
}
