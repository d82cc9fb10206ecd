package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// rescueNodeToTree implements "begin ... rescue ... else ... end"
// (spec.md §4.2.1 "Rescue"): each RescueBody becomes one RescueCase,
// a bare `rescue` (no named classes) passing its empty Classes slice
// straight through, and an unnamed binding getting a fresh temp so
// later rewriter passes always have a reference to inspect.
func rescueNodeToTree(dctx DesugarContext, n *parsetree.RescueNode) tast.Expression {
	loc := n.Loc()
	body := node2Tree(dctx, n.Body)

	cases := make([]tast.RescueCase, 0, len(n.Rescues))
	for _, r := range n.Rescues {
		cases = append(cases, rescueBodyToCase(dctx, r))
	}

	var els tast.Expression
	if n.Else != nil {
		els = node2Tree(dctx, n.Else)
	}
	return mk.Rescue(loc, body, cases, els, nil)
}

func rescueBodyToCase(dctx DesugarContext, r *parsetree.RescueBody) tast.RescueCase {
	loc := r.Loc()
	classes := make([]tast.Expression, 0, len(r.Classes))
	for _, c := range r.Classes {
		classes = append(classes, node2Tree(dctx, c))
	}

	var varExpr tast.Expression
	if r.Var != nil {
		varExpr = node2Tree(dctx, r.Var)
		if !mk.IsReference(varExpr) {
			raise(r.Loc(), "rescue binding lowered to non-reference shape %T", varExpr)
		}
	} else {
		temp := dctx.Fresh(names.Desugar, names.BaseRescueTemp)
		varExpr = mk.Local(loc.CopyWithZeroLength(), temp)
	}

	body := node2Tree(dctx, r.Body)
	return mk.RescueCase(loc, classes, varExpr, body)
}

// ensureNodeToTree implements "begin ... ensure ... end" (spec.md
// §4.2.1 "Ensure"): represented as a Rescue with no cases, carrying
// only the Ensure expression — the same TAST shape rescueNodeToTree
// produces with no Ensure, so a `begin; rescue; ensure; end` nests one
// inside the other naturally regardless of which parse node wraps
// which.
func ensureNodeToTree(dctx DesugarContext, n *parsetree.EnsureNode) tast.Expression {
	loc := n.Loc()
	body := node2Tree(dctx, n.Body)
	ensure := node2Tree(dctx, n.Ensure)
	return mk.Rescue(loc, body, nil, nil, ensure)
}
