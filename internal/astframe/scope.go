package astframe

import (
	"spy/internal/ast"
	"spy/internal/object"
	"spy/internal/symtable"
)

// buildSymTable constructs the symbol table for one function activation,
// chained to the defining closure's table so the classification in
// symtable.Resolve can tell a local from a captured outer/global name
// (spec §3.6). The typed AST has already passed symbol analysis upstream,
// so a Declare failure here only means two declarations share a name in a
// way the parser already permits (e.g. a loop variable reusing a param
// name); the later declaration simply wins in frame.Locals, matching the
// typed AST's own shadowing rule, so the error is not fatal here.
func buildSymTable(def *ast.FuncDef, parent *symtable.Table) *symtable.Table {
	var tbl *symtable.Table
	if parent != nil {
		tbl = parent.NewChildTable()
	} else {
		tbl = symtable.NewModuleTable()
	}
	for _, p := range def.Params {
		_, _ = tbl.Declare(p.Name, p.Type, p.Color, true)
	}
	declareLocals(tbl, def.Body)
	return tbl
}

// declareLocals walks a statement list, declaring every name a VarDef, a
// plain-Name Assign, a For loop variable, or a nested FuncDef/ClassDef
// introduces at this scope. It recurses into If/While/For bodies (same
// function scope) but not into a nested FuncDef's body, which gets its
// own table from buildSymTable when that function is actually called.
func declareLocals(tbl *symtable.Table, stmts []ast.Stmt) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.VarDef:
			_, _ = tbl.Declare(st.Name, st.Type, st.Color, true)
		case *ast.Assign:
			if n, ok := st.Target.(*ast.Name); ok {
				declareIfNew(tbl, n.Ident, nil, ast.Red)
			}
		case *ast.If:
			declareLocals(tbl, st.Then)
			declareLocals(tbl, st.Else)
		case *ast.While:
			declareLocals(tbl, st.Body)
		case *ast.For:
			declareIfNew(tbl, st.Var, nil, ast.Red)
			declareLocals(tbl, st.Body)
		case *ast.FuncDef:
			declareIfNew(tbl, st.Name, nil, ast.Blue)
		case *ast.ClassDef:
			declareIfNew(tbl, st.Name, st.Type, ast.Blue)
		}
	}
}

// declareIfNew declares name only if this table doesn't already resolve
// it (as its own local or an outer capture), so re-assigning an existing
// local or an already-captured outer name doesn't mask it as a fresh one.
func declareIfNew(tbl *symtable.Table, name string, typ *object.Type, color ast.Color) {
	if _, exists := tbl.Resolve(name); exists {
		return
	}
	_, _ = tbl.Declare(name, typ, color, true)
}
