package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// convertParams lowers a parse-tree Args parameter list into TAST
// parameter leaves. A destructured (Mlhs) parameter is replaced by a
// fresh positional temp; the caller is handed back the unpacking
// assignment to prepend to the body, the same treatment a for-loop's
// destructured induction variable gets (spec.md §4.2.1 "For loop").
func convertParams(dctx DesugarContext, args *parsetree.Args) (params []tast.Expression, destructurePrefix []tast.Expression) {
	if args == nil {
		return nil, nil
	}
	for _, a := range args.List {
		switch p := a.(type) {
		case *parsetree.Arg:
			params = append(params, mk.Local(p.Loc(), dctx.Intern(p.Name)))
		case *parsetree.OptArg:
			params = append(params, mk.OptionalArg(p.Loc(), dctx.Intern(p.Name), node2Tree(dctx, p.Default)))
		case *parsetree.RestArgNode:
			params = append(params, mk.RestArg(p.Loc(), dctx.Intern(nonEmptyOr(p.Name, "*"))))
		case *parsetree.KwArg:
			params = append(params, mk.KeywordArg(p.Loc(), dctx.Intern(p.Name)))
		case *parsetree.KwOptArg:
			params = append(params, mk.OptionalArg(p.Loc(), dctx.Intern(p.Name), node2Tree(dctx, p.Default)))
		case *parsetree.KwRestArgNode:
			params = append(params, mk.RestArg(p.Loc(), dctx.Intern(p.Name)))
		case *parsetree.BlockArgNode:
			params = append(params, mk.BlockArgNode(p.Loc(), dctx.Intern(nonEmptyOr(p.Name, names.BaseBlkArg))))
		case *parsetree.ShadowArgNode:
			params = append(params, mk.ShadowArg(p.Loc(), dctx.Intern(p.Name)))
		case *parsetree.Mlhs:
			temp := dctx.Fresh(names.Desugar, names.BaseDestructureArg)
			z := p.Loc().CopyWithZeroLength()
			params = append(params, mk.Local(z, temp))
			destructurePrefix = append(destructurePrefix, destructureAssign(dctx, p, mk.Local(z, temp)))
		default:
			raise(a.Loc(), "unhandled parameter node type %T", a)
		}
	}
	return params, destructurePrefix
}

// ensureTrailingBlockArg appends a synthetic, unnamed block parameter
// when the surface method definition omitted one, satisfying the TAST
// invariant that a non-empty MethodDef parameter list always ends with
// a BlockArg (spec.md §3.2 invariant 2, §4.2.3 step 3).
func ensureTrailingBlockArg(dctx DesugarContext, params []tast.Expression, loc common.Loc) []tast.Expression {
	if len(params) > 0 {
		if _, ok := params[len(params)-1].(*tast.BlockArg); ok {
			return params
		}
	}
	z := loc.CopyWithZeroLength()
	blk := dctx.Fresh(names.Desugar, names.BaseBlkArg)
	return append(params, mk.BlockArgNode(z, blk))
}

func nonEmptyOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
