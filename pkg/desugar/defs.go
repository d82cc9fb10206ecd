package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// flattenBodyEntries implements the "class/module body becomes a flat
// list of ClassDef.Body entries" treatment (spec.md §4.2.3, the same
// flattening C5 gives the top-level compilation unit): a Begin
// sequence contributes one entry per statement; anything else
// contributes itself as the sole entry.
func flattenBodyEntries(dctx DesugarContext, body parsetree.Node) []tast.Expression {
	if body == nil {
		return nil
	}
	if begin, ok := body.(*parsetree.Begin); ok {
		out := make([]tast.Expression, 0, len(begin.Stmts))
		for _, s := range begin.Stmts {
			out = append(out, node2Tree(dctx, s))
		}
		return out
	}
	return []tast.Expression{node2Tree(dctx, body)}
}

// classToTree implements "Class definition" (spec.md §4.2.1): the
// per-scope unique-name counter resets on entry (spec.md §4.1), and
// the class body flattens into ClassDef.Body.
func classToTree(dctx DesugarContext, n *parsetree.ClassNode) tast.Expression {
	loc := n.Loc()
	nameExpr := node2Tree(dctx, n.Name)
	var ancestors []tast.Expression
	if n.Superclass != nil {
		ancestors = []tast.Expression{node2Tree(dctx, n.Superclass)}
	}
	bodyCtx := dctx.EnterScope()
	body := flattenBodyEntries(bodyCtx, n.Body)
	return mk.ClassDef(loc, nameExpr, ancestors, body, tast.ClassKindClass)
}

func moduleToTree(dctx DesugarContext, n *parsetree.ModuleNode) tast.Expression {
	loc := n.Loc()
	nameExpr := node2Tree(dctx, n.Name)
	bodyCtx := dctx.EnterScope()
	body := flattenBodyEntries(bodyCtx, n.Body)
	return mk.ClassDef(loc, nameExpr, nil, body, tast.ClassKindModule)
}

// sclassToTree implements "class << self" (spec.md §4.2.1): any other
// singleton-class receiver is rejected, matching the rest of the
// module in treating "we don't know how to represent this" as a
// source-error diagnostic rather than an internal panic.
func sclassToTree(dctx DesugarContext, n *parsetree.SClass) tast.Expression {
	loc := n.Loc()
	if _, ok := n.Expr.(*parsetree.SelfLit); !ok {
		diagSimple(dctx, n.Loc(), diag_invalid_sc, "class << expr is only supported for class << self")
		return mk.EmptyTree()
	}
	bodyCtx := dctx.EnterScope()
	body := flattenBodyEntries(bodyCtx, n.Body)
	name := mk.ConstantLit(loc.CopyWithZeroLength(), dctx.Intern(singletonCN))
	return mk.ClassDef(loc, name, nil, body, tast.ClassKindClass)
}

// checkRBI implements validator step "CodeInRBI" (spec.md §4.2.3 step
// 6): a method body is not allowed in a file declared interface-only.
func checkRBI(dctx DesugarContext, loc common.Loc) {
	f := dctx.FileDB().File(dctx.file)
	if f != nil && f.IsRBI() {
		diagSimple(dctx, loc, diag_code_in_rbi, "method bodies are not allowed in RBI files")
	}
}

// defToTree implements "Method definition" (spec.md §4.2.1/§4.2.3): a
// new scope for the per-scope unique counter, a synthesized trailing
// BlockArg when the surface form omitted one, and the named block
// parameter (real or synthesized) threaded through the body context so
// `yield`/`block_given?` can find it.
func defToTree(dctx DesugarContext, n *parsetree.Def) tast.Expression {
	loc := n.Loc()
	checkRBI(dctx, loc)

	methodCtx := dctx.EnterScope()
	params, prefix := convertParams(methodCtx, n.Args)
	params = ensureTrailingBlockArg(methodCtx, params, loc)
	blkName := names.NameRef(params[len(params)-1].(*tast.BlockArg).Name)

	bodyCtx := methodCtx.WithBlockArg(blkName).WithEnclosingMethod(dctx.Intern(n.Name), loc)
	body := node2Tree(bodyCtx, n.Body)
	if len(prefix) > 0 {
		body = mk.InsSeq(n.Body.Loc(), prefix, body)
	}
	return mk.MethodDef(loc, dctx.Intern(n.Name), params, body, 0)
}

// defsToTree implements "Singleton method definition" (spec.md
// §4.2.1): only `def self.m` is accepted; any other receiver is a
// source error (spec.md's "InvalidSingletonDef" diagnostic).
func defsToTree(dctx DesugarContext, n *parsetree.Defs) tast.Expression {
	loc := n.Loc()
	if _, ok := n.Definee.(*parsetree.SelfLit); !ok {
		diagSimple(dctx, n.Loc(), diag_invalid_sc, "def receiver.method is only supported for def self.method")
		return mk.EmptyTree()
	}
	checkRBI(dctx, loc)

	methodCtx := dctx.EnterScope()
	params, prefix := convertParams(methodCtx, n.Args)
	params = ensureTrailingBlockArg(methodCtx, params, loc)
	blkName := names.NameRef(params[len(params)-1].(*tast.BlockArg).Name)

	bodyCtx := methodCtx.WithBlockArg(blkName).WithEnclosingMethod(dctx.Intern(n.Name), loc)
	body := node2Tree(bodyCtx, n.Body)
	if len(prefix) > 0 {
		body = mk.InsSeq(n.Body.Loc(), prefix, body)
	}
	return mk.MethodDef(loc, dctx.Intern(n.Name), params, body, tast.SelfMethod)
}

// aliasToTree implements "alias new old" (spec.md §4.2.1): lowered to
// a private self-send of the Magic `<alias-method>` pseudo-method, the
// same Magic-pseudo-module treatment splat/block-pass sends get.
func aliasToTree(dctx DesugarContext, n *parsetree.Alias) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	newSym := aliasTargetSymbol(dctx, n.New)
	oldSym := aliasTargetSymbol(dctx, n.Old)
	return mk.SendPrivateOK(loc, mk.Self(z), dctx.Intern(magicAliasMethod), newSym, oldSym)
}

func aliasTargetSymbol(dctx DesugarContext, n parsetree.Node) tast.Expression {
	switch t := n.(type) {
	case *parsetree.SymbolLit:
		return mk.Symbol(t.Loc(), dctx.Intern(t.Value))
	case *parsetree.Ident:
		return mk.Symbol(t.Loc(), dctx.Intern(t.Name))
	default:
		raise(n.Loc(), "unsupported alias target shape %T", n)
		return nil
	}
}
