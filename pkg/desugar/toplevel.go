package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// DesugarUnit implements C5 (spec.md §4.3): the top-level lift. A
// compilation unit's parse tree is not itself a class body, so it is
// wrapped in a synthetic root ClassDef named after the rootScope
// sentinel before being handed to the verifier/rewriter stages.
// Top-level statements flatten into ClassDef.Body the same way a real
// class body does (flattenBodyEntries), so later passes never need a
// special case for "statements that happen to live outside any class".
func DesugarUnit(dctx DesugarContext, root parsetree.Node) (result tast.Expression, err error) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if ie, ok := r.(*internalError); ok {
			if !dctx.u.reported {
				dctx.u.reported = true
				dctx.Diag().BeginError(ie.loc, diag_internal.code, diag_internal.sev).
					SetHeader("internal error: %s", ie.msg).Commit()
			}
			result, err = nil, ie
		} else {
			panic(r)
		}
	}()
	result = wrapToplevel(dctx, root)
	return result, nil
}

func wrapToplevel(dctx DesugarContext, root parsetree.Node) tast.Expression {
	loc := common.NoLoc
	if root != nil {
		loc = root.Loc()
	}
	z := loc.CopyWithZeroLength()
	name := mk.ConstantLit(z, dctx.Intern(rootScope))
	scopeCtx := dctx.EnterScope()
	body := flattenBodyEntries(scopeCtx, root)
	return mk.ClassDef(loc, name, nil, body, tast.ClassKindClass)
}
