package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// desugarDString implements interpolated string/symbol literals
// (spec.md §4.2.1 "Interpolated string / symbol"): each interpolated
// part is lowered and coerced `to_s` (literal string chunks are used as
// they are), the results concatenated left to right
// with `concat`, and (for a DSymbol) the final string sent `intern`.
func desugarDString(dctx DesugarContext, loc common.Loc, parts []parsetree.Node, isSymbol bool) tast.Expression {
	if len(parts) == 0 {
		empty := mk.String(loc.CopyWithZeroLength(), dctx.Intern(""))
		if isSymbol {
			return mk.Send0(loc, empty, dctx.Intern(methodIntern))
		}
		return empty
	}

	var acc tast.Expression
	for _, p := range parts {
		piece := stringPart(dctx, p)
		if acc == nil {
			acc = piece
			continue
		}
		acc = mk.Send1(loc, acc, dctx.Intern(methodConcat), piece)
	}
	if isSymbol {
		return mk.Send0(loc, acc, dctx.Intern(methodIntern))
	}
	return acc
}

// stringPart lowers one DString/DSymbol part: a literal StringLit
// chunk passes through unchanged; anything else is an interpolated
// expression coerced with `to_s`.
func stringPart(dctx DesugarContext, p parsetree.Node) tast.Expression {
	if lit, ok := p.(*parsetree.StringLit); ok {
		return mk.String(lit.Loc(), dctx.Intern(lit.Value))
	}
	expr := node2Tree(dctx, p)
	return mk.Send0(p.Loc(), expr, dctx.Intern(methodToS))
}

// regexpToTree implements "Regexp literal" (spec.md §4.2.1): its
// source, itself possibly interpolated, lowers the same way a DString
// does, then is wrapped as Regexp.new(source, flags).
func regexpToTree(dctx DesugarContext, n *parsetree.RegexpLit) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	var source tast.Expression
	switch s := n.Source.(type) {
	case *parsetree.DString:
		source = desugarDString(dctx, s.Loc(), s.Parts, false)
	default:
		source = node2Tree(dctx, n.Source)
	}
	recv := mk.ConstantLit(z, dctx.Intern(regexpModule))
	return mk.Send2(loc, recv, dctx.Intern(methodNew), source, mk.String(z, dctx.Intern(n.Flags)))
}
