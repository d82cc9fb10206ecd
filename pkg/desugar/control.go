package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// whileToTree implements "While / Until loop, including post-test
// form" (spec.md §4.2.1): `until` negates the condition with a `!`
// send. The post-test form only runs the body once unguarded before
// entering the ordinary pre-test loop when the body is itself a
// `begin ... end`; a post-test loop wrapping anything else (e.g. a
// single statement) lowers the same way as the pre-test loop, since
// there is no surface syntax distinguishing "run once" from "run
// every time" for a non-begin body (Desugar.cc's post-test handling
// keys off the kwbegin node, not the `while`'s post-test flag alone).
func whileToTree(dctx DesugarContext, n *parsetree.While) tast.Expression {
	loc := n.Loc()
	cond := lowerLoopCond(dctx, n.Cond, n.Until)
	if !n.PostTest {
		body := node2Tree(dctx, n.Body)
		return mk.While(loc, cond, body)
	}
	if _, ok := n.Body.(*parsetree.Begin); !ok {
		body := node2Tree(dctx, n.Body)
		return mk.While(loc, cond, body)
	}
	firstBody := node2Tree(dctx, n.Body)
	loopBody := node2Tree(dctx, n.Body)
	return mk.InsSeq(loc, []tast.Expression{firstBody}, mk.While(loc, cond, loopBody))
}

func lowerLoopCond(dctx DesugarContext, condNode parsetree.Node, until bool) tast.Expression {
	cond := node2Tree(dctx, condNode)
	if !until {
		return cond
	}
	return mk.Send0(condNode.Loc(), cond, dctx.Intern(methodBang))
}

// forToTree implements "For loop" (spec.md §4.2.1): `for x in iter;
// body; end` becomes `iter.each { |x| body }`; a destructured Mlhs
// induction variable gets the same unpack-into-temp-then-assign
// treatment as a destructured block/method parameter.
func forToTree(dctx DesugarContext, n *parsetree.For) tast.Expression {
	loc := n.Loc()
	iter := node2Tree(dctx, n.Iter)

	var params []tast.Expression
	var prefix []tast.Expression
	switch v := n.Var.(type) {
	case *parsetree.Ident:
		params = []tast.Expression{mk.Local(v.Loc(), dctx.Intern(v.Name))}
	case *parsetree.Mlhs:
		temp := dctx.Fresh(names.Desugar, names.BaseForTemp)
		z := v.Loc().CopyWithZeroLength()
		params = []tast.Expression{mk.Local(z, temp)}
		prefix = []tast.Expression{destructureAssign(dctx, v, mk.Local(z, temp))}
	default:
		raise(n.Loc(), "unsupported for-loop variable shape %T", n.Var)
	}

	body := node2Tree(dctx, n.Body)
	if len(prefix) > 0 {
		body = mk.InsSeq(n.Body.Loc(), prefix, body)
	}
	block := mk.Block(loc, params, body)
	return mk.SendWithBlock(loc, iter, dctx.Intern(methodEach), block)
}

// beginToTree implements a bare statement sequence (the body of
// `begin ... end` or any multi-statement block): every statement but
// the last is a discarded-value InsSeq entry, the last is its trailing
// expression.
func beginToTree(dctx DesugarContext, n *parsetree.Begin) tast.Expression {
	loc := n.Loc()
	if len(n.Stmts) == 0 {
		return mk.EmptyTree()
	}
	stats := make([]tast.Expression, 0, len(n.Stmts)-1)
	for _, s := range n.Stmts[:len(n.Stmts)-1] {
		stats = append(stats, node2Tree(dctx, s))
	}
	last := node2Tree(dctx, n.Stmts[len(n.Stmts)-1])
	return mk.InsSeq(loc, stats, last)
}

// caseToTree implements "Case/When" (spec.md §4.2.1): a Case with a
// Cond evaluates it once into a temp and tests each When's patterns
// with `===`; a condition-less Case tests each When's patterns
// directly as booleans. Whens lower right-to-left into a chain of If.
func caseToTree(dctx DesugarContext, n *parsetree.Case) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()

	var condTemp tast.Expression
	var condStats []tast.Expression
	if n.Cond != nil {
		temp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
		condVal := node2Tree(dctx, n.Cond)
		condStats = []tast.Expression{mk.Assign(z, mk.Local(z, temp), condVal)}
		condTemp = mk.Local(z, temp)
	}

	var result tast.Expression
	if n.Else != nil {
		result = node2Tree(dctx, n.Else)
	} else {
		result = mk.Nil(z)
	}
	for i := len(n.Whens) - 1; i >= 0; i-- {
		w := n.Whens[i]
		guard := whenGuard(dctx, w, condTemp)
		body := node2Tree(dctx, w.Body)
		result = mk.If(w.Loc(), guard, body, result)
	}
	if len(condStats) == 0 {
		return result
	}
	return mk.InsSeq(loc, condStats, result)
}

// whenGuard builds the boolean test for one When arm: a single pattern
// lowers directly; multiple patterns (`when p1, p2`) combine with the
// same temp-and-If treatment shortCircuitToTree gives `||`, evaluating
// each pattern's `===` test at most once.
func whenGuard(dctx DesugarContext, w *parsetree.When, condTemp tast.Expression) tast.Expression {
	tests := make([]tast.Expression, 0, len(w.Patterns))
	for _, p := range w.Patterns {
		pat := node2Tree(dctx, p)
		if condTemp != nil {
			tests = append(tests, mk.Send1(p.Loc(), pat, dctx.Intern(methodEqEqEq), condTemp))
		} else {
			tests = append(tests, pat)
		}
	}
	if len(tests) == 1 {
		return tests[0]
	}
	result := tests[len(tests)-1]
	for i := len(tests) - 2; i >= 0; i-- {
		z := w.Loc().CopyWithZeroLength()
		temp := dctx.Fresh(names.Desugar, names.BaseOrOr)
		assign := mk.Assign(z, mk.Local(z, temp), tests[i])
		ifExpr := mk.If(w.Loc(), mk.Local(z, temp), mk.Local(z, temp), result)
		result = mk.InsSeq(w.Loc(), []tast.Expression{assign}, ifExpr)
	}
	return result
}
