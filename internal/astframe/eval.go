package astframe

import (
	"fmt"

	"spy/internal/ast"
	"spy/internal/diag"
	"spy/internal/fqn"
	"spy/internal/object"
)

// EvalResult is the outcome of evaluating one typed expression. Exactly
// one of Value/Node is meaningful, selected by Color: Blue results carry
// a concrete W-object, Red results carry the residual node that will
// represent this expression in the emitted program (spec §4.3).
type EvalResult struct {
	Color ast.Color
	Value object.Value
	Node  ast.Expr
}

func blueResult(v object.Value, span ast.Span, typ *object.Type) EvalResult {
	return EvalResult{Color: ast.Blue, Value: v}
}

func redResult(n ast.Expr) EvalResult {
	return EvalResult{Color: ast.Red, Node: n}
}

// AsNode returns a residual expression node for r regardless of color: a
// Red result returns its Node as-is; a Blue result is folded into a
// literal Const node so it can still be embedded as a child of a Red
// parent (e.g. one Red operand forces a BinOp residual, but its Blue
// sibling must still appear as a concrete literal in that node).
func AsNode(r EvalResult, span ast.Span, typ *object.Type) ast.Expr {
	if r.Color == ast.Red {
		return r.Node
	}
	return &constNode{sp: span, typ: typ, value: r.Value}
}

// constNode implements ast.Expr directly (rather than reusing ast.Const,
// whose exprBase field is unexported outside package ast) — see
// spy/internal/ast.Const for the canonical residual constant node; this
// local alias exists only so astframe can fold a Blue EvalResult without
// reaching into ast's unexported fields. Folded blue operands that appear
// in residual nodes built by this package are constNode values.
type constNode struct {
	sp    ast.Span
	typ   *object.Type
	value object.Value
}

func (c *constNode) Span() ast.Span               { return c.sp }
func (c *constNode) StaticType() *object.Type       { return c.typ }
func (c *constNode) ExprColor() ast.Color           { return ast.Red }
func (c *constNode) exprNode()                      {}
func (c *constNode) Value() object.Value            { return c.value }

// EvalExpr walks one typed expression node under frame's Mode.
func (e *Evaluator) EvalExpr(frame *Frame, expr ast.Expr) (EvalResult, error) {
	switch n := expr.(type) {
	case *ast.Const:
		return blueResult(n.Value, n.Span(), n.StaticType()), nil
	case *ast.StrConst:
		return blueResult(object.Str{V: n.Value}, n.Span(), object.StrType), nil
	case *ast.Name:
		return e.evalName(frame, n)
	case *ast.BinOp:
		return e.evalBinOp(frame, n)
	case *ast.UnaryOp:
		return e.evalUnaryOp(frame, n)
	case *ast.Compare:
		return e.evalCompare(frame, n)
	case *ast.Call:
		return e.evalCall(frame, n)
	case *ast.GetAttr:
		return e.evalGetAttr(frame, n)
	case *ast.GetItem:
		return e.evalGetItem(frame, n)
	case *ast.List:
		return e.evalList(frame, n)
	case *ast.Tuple:
		return e.evalTuple(frame, n)
	case *ast.FStr:
		return e.evalFStr(frame, n)
	default:
		return EvalResult{}, fmt.Errorf("astframe: unhandled expression node %T", expr)
	}
}

func (e *Evaluator) evalName(frame *Frame, n *ast.Name) (EvalResult, error) {
	if v, ok := frame.Get(n.Ident); ok {
		if marker, isRed := v.(RedMarker); isRed {
			return redResult(marker.node), nil
		}
		return blueResult(v, n.Span(), n.StaticType()), nil
	}
	if v, ok := e.Host.LookupGlobal(e.GlobalFQN(n.Ident)); ok {
		return blueResult(v, n.Span(), n.StaticType()), nil
	}
	if v, ok := e.Host.LookupGlobal(fqn.New([]string{"builtins"}, n.Ident)); ok {
		return blueResult(v, n.Span(), n.StaticType()), nil
	}
	if n.ExprColor() == ast.Red {
		return redResult(n), nil
	}
	return EvalResult{}, diag.New(diag.StaticError, fmt.Sprintf("undefined name %q", n.Ident)).
		Annotate(diag.LevelError, n.Span(), "")
}

func (e *Evaluator) evalList(frame *Frame, n *ast.List) (EvalResult, error) {
	items := make([]object.Value, 0, len(n.Elements))
	nodes := make([]ast.Expr, 0, len(n.Elements))
	anyRed := false
	for _, el := range n.Elements {
		r, err := e.EvalExpr(frame, el)
		if err != nil {
			return EvalResult{}, err
		}
		if r.Color == ast.Red {
			anyRed = true
		}
		nodes = append(nodes, AsNode(r, el.Span(), el.StaticType()))
		if r.Color == ast.Blue {
			items = append(items, r.Value)
		}
	}
	if anyRed && frame.Mode == Redshift {
		return redResult(&ast.List{Elements: nodes}), nil
	}
	elemType := n.StaticType()
	return blueResult(&object.List{ElemType: elemType, Items: items}, n.Span(), elemType), nil
}

func (e *Evaluator) evalTuple(frame *Frame, n *ast.Tuple) (EvalResult, error) {
	items := make([]object.Value, 0, len(n.Elements))
	nodes := make([]ast.Expr, 0, len(n.Elements))
	anyRed := false
	for _, el := range n.Elements {
		r, err := e.EvalExpr(frame, el)
		if err != nil {
			return EvalResult{}, err
		}
		if r.Color == ast.Red {
			anyRed = true
		}
		nodes = append(nodes, AsNode(r, el.Span(), el.StaticType()))
		if r.Color == ast.Blue {
			items = append(items, r.Value)
		}
	}
	if anyRed && frame.Mode == Redshift {
		return redResult(&ast.Tuple{Elements: nodes}), nil
	}
	return blueResult(&object.Tuple{Items: items}, n.Span(), n.StaticType()), nil
}

func (e *Evaluator) evalFStr(frame *Frame, n *ast.FStr) (EvalResult, error) {
	allBlue := true
	parts := make([]string, 0, len(n.Parts))
	nodes := make([]ast.Expr, 0, len(n.Parts))
	for _, p := range n.Parts {
		r, err := e.EvalExpr(frame, p)
		if err != nil {
			return EvalResult{}, err
		}
		nodes = append(nodes, AsNode(r, p.Span(), p.StaticType()))
		if r.Color == ast.Red {
			allBlue = false
			continue
		}
		parts = append(parts, stringify(r.Value))
	}
	if !allBlue && frame.Mode == Redshift {
		return redResult(&ast.FStr{Parts: nodes}), nil
	}
	out := ""
	for _, s := range parts {
		out += s
	}
	return blueResult(object.Str{V: out}, n.Span(), object.StrType), nil
}

func stringify(v object.Value) string {
	switch x := v.(type) {
	case object.Str:
		return x.V
	case object.I32:
		return fmt.Sprintf("%d", x.V)
	case object.I8:
		return fmt.Sprintf("%d", x.V)
	case object.F64:
		return fmt.Sprintf("%g", x.V)
	case object.Bool:
		if x.V {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

