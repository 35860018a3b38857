package astframe

import (
	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/funcval"
	"spy/internal/object"
)

// Signal reports how a statement's execution should affect its enclosing
// block: fall through normally, or unwind with a return value.
type Signal int

const (
	SigNone Signal = iota
	SigReturn
)

// StmtResult is the outcome of executing or redshifting one statement.
type StmtResult struct {
	Signal      Signal
	ReturnValue object.Value // Interp mode
	ReturnNode  ast.Expr     // Redshift mode, nil for a bare `return`
	ReturnColor ast.Color
}

// EvalBlock runs a statement list in order, stopping early on a Return
// signal (spec §5 "Ordering": side effects occur in program order).
func (e *Evaluator) EvalBlock(frame *Frame, stmts []ast.Stmt) (StmtResult, error) {
	for _, s := range stmts {
		r, err := e.EvalStmt(frame, s)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Signal == SigReturn {
			return r, nil
		}
	}
	return StmtResult{Signal: SigNone}, nil
}

func (e *Evaluator) EvalStmt(frame *Frame, stmt ast.Stmt) (StmtResult, error) {
	switch s := stmt.(type) {
	case *ast.Pass:
		return StmtResult{}, nil
	case *ast.ExprStmt:
		r, err := e.EvalExpr(frame, s.Expr)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Color == ast.Red && frame.Mode == Redshift {
			frame.Builder.Emit(&ast.ExprStmt{Expr: r.Node})
		}
		return StmtResult{}, nil
	case *ast.VarDef:
		return e.evalVarDef(frame, s)
	case *ast.Assign:
		return e.evalAssign(frame, s)
	case *ast.If:
		return e.evalIf(frame, s)
	case *ast.While:
		return e.evalWhile(frame, s)
	case *ast.For:
		return e.evalFor(frame, s)
	case *ast.Return:
		return e.evalReturn(frame, s)
	case *ast.Raise:
		return e.evalRaise(frame, s)
	case *ast.FuncDef:
		e.defineLocalFunction(frame, s)
		return StmtResult{}, nil
	default:
		return StmtResult{}, diag.New(diag.StaticError, "unhandled statement node").Annotate(diag.LevelError, stmt.Span(), "")
	}
}

func (e *Evaluator) evalVarDef(frame *Frame, s *ast.VarDef) (StmtResult, error) {
	r, err := e.EvalExpr(frame, s.Value)
	if err != nil {
		return StmtResult{}, err
	}
	if r.Color == ast.Blue {
		frame.Set(s.Name, r.Value)
		return StmtResult{}, nil
	}
	// Red-to-blue is a compile error (spec §3.4); a red value simply
	// stays red: in interp mode this can't happen (nothing is red), and
	// in redshift mode we emit the declaration and keep the name bound
	// to a residual Name marker so later reads re-embed the same node.
	if frame.Mode == Redshift {
		frame.Builder.Emit(&ast.VarDef{Name: s.Name, Type: s.Type, Color: ast.Red, Value: r.Node})
		frame.Locals[s.Name] = RedMarker{node: r.Node}
		return StmtResult{}, nil
	}
	return StmtResult{}, diag.New(diag.StaticError, "red value observed in interp mode").Annotate(diag.LevelError, s.Span(), "")
}

// RedMarker is a placeholder object.Value used purely so a red local's
// slot is occupied during redshift; reads of it must go through
// evalName's red path rather than treating it as a real blue value. It
// satisfies object.Value only to fit the Locals map's value type.
// NewRedMarker lets other packages (e.g. a redshift driver seeding a
// function's parameters) install the same placeholder for a name that
// was never assigned through VarDef/Assign.
type RedMarker struct{ node ast.Expr }

func NewRedMarker(n ast.Expr) RedMarker { return RedMarker{node: n} }

func (RedMarker) Type() *object.Type { return nil }

func (e *Evaluator) evalAssign(frame *Frame, s *ast.Assign) (StmtResult, error) {
	switch target := s.Target.(type) {
	case *ast.Name:
		r, err := e.EvalExpr(frame, s.Value)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Color == ast.Blue {
			frame.Set(target.Ident, r.Value)
		} else if frame.Mode == Redshift {
			frame.Builder.Emit(&ast.Assign{Target: target, Value: r.Node})
			frame.Locals[target.Ident] = RedMarker{node: r.Node}
		}
		return StmtResult{}, nil
	case *ast.GetAttr:
		if err := e.evalSetAttr(frame, target, s.Value); err != nil {
			return StmtResult{}, err
		}
		return StmtResult{}, nil
	case *ast.GetItem:
		if err := e.evalSetItem(frame, target, s.Value); err != nil {
			return StmtResult{}, err
		}
		return StmtResult{}, nil
	default:
		return StmtResult{}, diag.New(diag.StaticError, "unsupported assignment target").Annotate(diag.LevelError, s.Span(), "")
	}
}

func (e *Evaluator) evalIf(frame *Frame, s *ast.If) (StmtResult, error) {
	cond, err := e.EvalExpr(frame, s.Cond)
	if err != nil {
		return StmtResult{}, err
	}
	if cond.Color == ast.Blue {
		b, ok := cond.Value.(object.Bool)
		if !ok {
			return StmtResult{}, diag.New(diag.TypeError, "if condition must be bool").Annotate(diag.LevelError, s.Cond.Span(), "")
		}
		if b.V {
			return e.EvalBlock(frame, s.Then)
		}
		return e.EvalBlock(frame, s.Else)
	}

	// Red condition: emit a residual `if`, recursing into both branches
	// with forked builders so their emitted statements land in the right
	// branch body, then merge (spec §4.3).
	if frame.Mode != Redshift {
		return StmtResult{}, diag.New(diag.StaticError, "red condition observed in interp mode").Annotate(diag.LevelError, s.Cond.Span(), "")
	}
	thenStmts, err := e.redshiftBranch(frame, s.Then)
	if err != nil {
		return StmtResult{}, err
	}
	elseStmts, err := e.redshiftBranch(frame, s.Else)
	if err != nil {
		return StmtResult{}, err
	}
	frame.Builder.Emit(&ast.If{Cond: cond.Node, Then: thenStmts, Else: elseStmts})
	return StmtResult{}, nil
}

// redshiftBranch evaluates a branch body under a forked builder so its
// emitted statements don't interleave with the parent's, returning just
// that branch's residual statement list.
func (e *Evaluator) redshiftBranch(frame *Frame, body []ast.Stmt) ([]ast.Stmt, error) {
	branchFrame := &Frame{
		FuncName: frame.FuncName,
		Locals:   copyLocals(frame.Locals),
		Parent:   frame.Parent,
		Mode:     Redshift,
		Builder:  frame.Builder.Fork(),
		Syms:     frame.Syms,
	}
	if _, err := e.EvalBlock(branchFrame, body); err != nil {
		return nil, err
	}
	return branchFrame.Builder.Stmts(), nil
}

func copyLocals(m map[string]object.Value) map[string]object.Value {
	out := make(map[string]object.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (e *Evaluator) evalWhile(frame *Frame, s *ast.While) (StmtResult, error) {
	for {
		cond, err := e.EvalExpr(frame, s.Cond)
		if err != nil {
			return StmtResult{}, err
		}
		if cond.Color != ast.Blue {
			return StmtResult{}, diag.New(diag.StaticError, "while with a red condition cannot be fully unrolled by this evaluator; bound the loop or mark its guard blue").
				Annotate(diag.LevelError, s.Cond.Span(), "")
		}
		b, ok := cond.Value.(object.Bool)
		if !ok {
			return StmtResult{}, diag.New(diag.TypeError, "while condition must be bool").Annotate(diag.LevelError, s.Cond.Span(), "")
		}
		if !b.V {
			return StmtResult{}, nil
		}
		r, err := e.EvalBlock(frame, s.Body)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Signal == SigReturn {
			return r, nil
		}
	}
}

func (e *Evaluator) evalFor(frame *Frame, s *ast.For) (StmtResult, error) {
	iter, err := e.EvalExpr(frame, s.Iter)
	if err != nil {
		return StmtResult{}, err
	}
	if iter.Color != ast.Blue {
		return StmtResult{}, diag.New(diag.StaticError, "for-loop over a red iterable is not supported by this evaluator").
			Annotate(diag.LevelError, s.Iter.Span(), "")
	}
	list, ok := iter.Value.(*object.List)
	if !ok {
		return StmtResult{}, diag.New(diag.TypeError, "for-loop requires a list").Annotate(diag.LevelError, s.Iter.Span(), "")
	}
	for _, item := range list.Items {
		frame.Set(s.Var, item)
		r, err := e.EvalBlock(frame, s.Body)
		if err != nil {
			return StmtResult{}, err
		}
		if r.Signal == SigReturn {
			return r, nil
		}
	}
	return StmtResult{}, nil
}

func (e *Evaluator) evalReturn(frame *Frame, s *ast.Return) (StmtResult, error) {
	if s.Value == nil {
		return StmtResult{Signal: SigReturn}, nil
	}
	r, err := e.EvalExpr(frame, s.Value)
	if err != nil {
		return StmtResult{}, err
	}
	if r.Color == ast.Blue {
		return StmtResult{Signal: SigReturn, ReturnValue: r.Value, ReturnColor: ast.Blue}, nil
	}
	return StmtResult{Signal: SigReturn, ReturnNode: r.Node, ReturnColor: ast.Red}, nil
}

func (e *Evaluator) evalRaise(frame *Frame, s *ast.Raise) (StmtResult, error) {
	msg, err := e.EvalExpr(frame, s.Message)
	if err != nil {
		return StmtResult{}, err
	}
	if msg.Color != ast.Blue {
		return StmtResult{}, diag.New(diag.StaticError, "raise message must be known at compile time in this evaluator").
			Annotate(diag.LevelError, s.Message.Span(), "")
	}
	text, _ := msg.Value.(object.Str)
	return StmtResult{}, diag.New(diag.StaticError, text.V).
		Annotate(diag.LevelError, s.Span(), s.ExcType.FQN.Symbol)
}

func (e *Evaluator) defineLocalFunction(frame *Frame, s *ast.FuncDef) {
	fn := funcval.New(e.GlobalFQN(s.Name), s, frame)
	frame.Set(s.Name, fn)
}
