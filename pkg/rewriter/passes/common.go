// Package passes implements C8 (spec.md §4.5): the two concrete
// rewriter passes, TestDSL and TEnum, each a rewriter.Visitor driven by
// rewriter.Run. Grounded on original_source/rewriter/{TEnum,Minitest}.cc
// the way pkg/desugar is grounded on original_source/ast/desugar/Desugar.cc.
package passes

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/rewriter"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// constPath flattens a resolved-or-unresolved constant-reference chain
// (e.g. `T::Enum`) into its ordered string components, the TAST-level
// analogue of pkg/desugar's constantComponents which works over
// parsetree nodes instead.
func constPath(ctx rewriter.Context, e tast.Expression) []string {
	switch n := e.(type) {
	case *tast.UnresolvedConstantLit:
		prefix := constPath(ctx, n.Scope)
		if prefix == nil {
			return nil
		}
		return append(prefix, ctx.Show(names.NameRef(n.Name)))
	case *tast.ConstantLit:
		return []string{ctx.Show(names.NameRef(n.Symbol))}
	case *tast.EmptyTree:
		return []string{}
	default:
		return nil
	}
}

// stmtsOf flattens a Block/MethodDef body into its statement list: an
// InsSeq's Stats plus trailing Expr, or the bare expression itself.
func stmtsOf(e tast.Expression) []tast.Expression {
	if seq, ok := e.(*tast.InsSeq); ok {
		out := make([]tast.Expression, 0, len(seq.Stats)+1)
		out = append(out, seq.Stats...)
		return append(out, seq.Expr)
	}
	return []tast.Expression{e}
}

// stmtsToExpr is stmtsOf's inverse, collapsing back through mk.InsSeq
// so an all-EmptyTree prefix still gets filtered per invariant 3.
func stmtsToExpr(loc common.Loc, stmts []tast.Expression) tast.Expression {
	if len(stmts) == 0 {
		return mk.EmptyTree()
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	return mk.InsSeq(loc, stmts[:len(stmts)-1], stmts[len(stmts)-1])
}

func isConstRef(e tast.Expression) bool {
	switch e.(type) {
	case *tast.UnresolvedConstantLit, *tast.ConstantLit:
		return true
	default:
		return false
	}
}

// constRefName returns the bare interned name a constant reference
// carries (its last path component), regardless of which of the two
// constant-reference shapes it is.
func constRefName(e tast.Expression) names.NameRef {
	switch n := e.(type) {
	case *tast.UnresolvedConstantLit:
		return names.NameRef(n.Name)
	case *tast.ConstantLit:
		return names.NameRef(n.Symbol)
	default:
		return names.NoName
	}
}

// isSelfSend reports whether e is a private self-send of method named
// name — the shape every Magic pseudo-call and DSL recognizer
// (describe/it/before/after/enums) is built from.
func isSelfSend(ctx rewriter.Context, e tast.Expression, method string) (*tast.Send, bool) {
	s, ok := e.(*tast.Send)
	if !ok {
		return nil, false
	}
	if ctx.Show(names.NameRef(s.Method)) != method {
		return nil, false
	}
	if _, ok := s.Receiver.(*tast.Self); !ok {
		return nil, false
	}
	return s, true
}
