package astframe

import "spy/internal/ast"

// ResidualBuilder accumulates the statements a redshifted function body
// emits. Every statement it receives must already be Red (spec §4.5
// invariant i) — the evaluator only ever appends to a builder on the
// branch it has decided to keep (spec §4.3: blue `if` picks a branch and
// recurses; red `if` emits a residual `if` and recurses into both
// branches with forked copies of the local type environment).
type ResidualBuilder struct {
	stmts []ast.Stmt
}

func NewResidualBuilder() *ResidualBuilder {
	return &ResidualBuilder{}
}

// Emit appends one residual statement.
func (b *ResidualBuilder) Emit(s ast.Stmt) {
	b.stmts = append(b.stmts, s)
}

// Stmts returns the accumulated residual statement list, in emission
// order (program order is preserved, per spec §5 "Ordering").
func (b *ResidualBuilder) Stmts() []ast.Stmt {
	return append([]ast.Stmt(nil), b.stmts...)
}

// Fork creates a child builder for evaluating one branch of a red `if`
// in isolation, so the two branches' emitted statements don't interleave
// before being merged back into separate Then/Else bodies.
func (b *ResidualBuilder) Fork() *ResidualBuilder {
	return NewResidualBuilder()
}
