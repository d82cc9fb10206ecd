// Package rewriter implements C7 (spec.md §5): a generic tree-walking
// visitor over the TAST, with a pre/post hook pair invoked at every
// node. Sorbet's own rewriter passes (TEnum, Minitest/TestDSL) are
// ordinary one-shot tree transforms running before the typechecker
// proper, not a YAML pattern-matching rule engine — so unlike the
// teacher's pkg/rewriter (which drives a generic common.Node through
// externally configured match/action rules), this package drives a
// closed, Go type-switch-exhaustive TAST through compiled Go code,
// keeping the teacher's downwards/upwards traversal shape while
// dropping its YAML rule compiler. Concrete passes (TEnum, TestDSL)
// live in pkg/rewriter/passes.
package rewriter

import "github.com/spicery/nutmeg-desugar/pkg/tast"

// Path threads parent linkage down the walk the same way the teacher's
// Path does for common.Node, letting a Visitor ask "what contains me"
// without every call site plumbing it through by hand.
type Path struct {
	Parent *Path
	Node   tast.Expression
}

// Visitor is one rewriter pass's hook pair. Pre runs on the way down
// before a node's children are visited; returning skip=true prevents
// descent into replacement's children (Post still runs on it). Post
// runs on the way up after children have already been rewritten.
type Visitor interface {
	Pre(node tast.Expression, path *Path) (replacement tast.Expression, skip bool)
	Post(node tast.Expression, path *Path) tast.Expression
}

// BaseVisitor is embeddable by a Visitor that only cares about one of
// the two hooks, the same "override only what you need" shape the
// teacher's passes get by leaving Downwards or Upwards empty.
type BaseVisitor struct{}

func (BaseVisitor) Pre(node tast.Expression, path *Path) (tast.Expression, bool) { return node, false }
func (BaseVisitor) Post(node tast.Expression, path *Path) tast.Expression        { return node }

// Walk runs v over expr and everything reachable from it, rebuilding
// each node whose children were replaced.
func Walk(v Visitor, expr tast.Expression, parent *Path) tast.Expression {
	if expr == nil {
		return nil
	}
	path := &Path{Parent: parent, Node: expr}
	node, skip := v.Pre(expr, path)
	if skip {
		return v.Post(node, path)
	}
	node = walkChildren(v, node, path)
	return v.Post(node, path)
}

func walkChildren(v Visitor, expr tast.Expression, path *Path) tast.Expression {
	switch n := expr.(type) {
	case *tast.UnresolvedConstantLit:
		scope := Walk(v, n.Scope, path)
		return tast.NewUnresolvedConstantLit(n.Loc(), scope, n.Name)

	case *tast.Assign:
		lhs := Walk(v, n.Lhs, path)
		rhs := Walk(v, n.Rhs, path)
		return tast.NewAssign(n.Loc(), lhs, rhs)

	case *tast.Send:
		recv := Walk(v, n.Receiver, path)
		args := walkAll(v, n.Args, path)
		var block *tast.Block
		if n.Block != nil {
			block = walkBlock(v, n.Block, path)
		}
		return tast.NewSend(n.Loc(), recv, n.Method, args, block, n.Flags)

	case *tast.Block:
		return walkBlock(v, n, path)

	case *tast.MethodDef:
		params := walkAll(v, n.Params, path)
		body := Walk(v, n.Body, path)
		return tast.NewMethodDef(n.Loc(), n.Name, params, body, n.Flags)

	case *tast.ClassDef:
		name := Walk(v, n.Name, path)
		ancestors := walkAll(v, n.Ancestors, path)
		body := walkAll(v, n.Body, path)
		return tast.NewClassDef(n.Loc(), name, ancestors, body, n.Kind)

	case *tast.If:
		return tast.NewIf(n.Loc(), Walk(v, n.Cond, path), Walk(v, n.Then, path), Walk(v, n.Else, path))

	case *tast.While:
		return tast.NewWhile(n.Loc(), Walk(v, n.Cond, path), Walk(v, n.Body, path))

	case *tast.Return:
		return tast.NewReturn(n.Loc(), Walk(v, n.Expr, path))
	case *tast.Break:
		return tast.NewBreak(n.Loc(), Walk(v, n.Expr, path))
	case *tast.Next:
		return tast.NewNext(n.Loc(), Walk(v, n.Expr, path))

	case *tast.Rescue:
		body := Walk(v, n.Body, path)
		cases := make([]tast.RescueCase, len(n.Cases))
		for i, c := range n.Cases {
			classes := walkAll(v, c.Classes, path)
			varExpr := Walk(v, c.Var, path)
			caseBody := Walk(v, c.Body, path)
			cases[i] = tast.NewRescueCase(c.Loc(), classes, varExpr, caseBody)
		}
		var els, ensure tast.Expression
		if n.Else != nil {
			els = Walk(v, n.Else, path)
		}
		if n.Ensure != nil {
			ensure = Walk(v, n.Ensure, path)
		}
		return tast.NewRescue(n.Loc(), body, cases, els, ensure)

	case *tast.Array:
		return tast.NewArray(n.Loc(), walkAll(v, n.Elems, path))

	case *tast.Hash:
		return tast.NewHash(n.Loc(), walkAll(v, n.Keys, path), walkAll(v, n.Values, path))

	case *tast.InsSeq:
		stats := walkAll(v, n.Stats, path)
		return tast.NewInsSeq(n.Loc(), stats, Walk(v, n.Expr, path))

	case *tast.OptionalArg:
		return tast.NewOptionalArg(n.Loc(), n.Name, Walk(v, n.Default, path))

	default:
		// Leaves: Literal, Local, UnresolvedIdent, ConstantLit, Self,
		// EmptyTree, ZSuperArgs, Retry, RestArg, KeywordArg, BlockArg,
		// ShadowArg have no children to walk.
		return expr
	}
}

func walkBlock(v Visitor, b *tast.Block, path *Path) *tast.Block {
	params := walkAll(v, b.Params, path)
	body := Walk(v, b.Body, path)
	return tast.NewBlock(b.Loc(), params, body)
}

func walkAll(v Visitor, exprs []tast.Expression, path *Path) []tast.Expression {
	if exprs == nil {
		return nil
	}
	out := make([]tast.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = Walk(v, e, path)
	}
	return out
}

// Pass is one named, independently enable-able rewriter pass (TEnum,
// TestDSL, ...), the Go-native analogue of the teacher's
// RewriterPass/RewriteConfig pairing.
type Pass struct {
	Name    string
	Visitor Visitor
}

// Run applies every pass in order, skipping any whose name is not in
// enabled (a nil enabled set means "run everything" — the CLI's
// default, spec.md SPEC_FULL §2 pass-enablement config).
func Run(passes []Pass, expr tast.Expression, enabled map[string]bool) tast.Expression {
	for _, p := range passes {
		if enabled != nil && !enabled[p.Name] {
			continue
		}
		expr = Walk(p.Visitor, expr, nil)
	}
	return expr
}
