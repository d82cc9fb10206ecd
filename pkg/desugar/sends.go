package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// blockGivenMethod is the surface spelling `block_given?` special-cased
// by spec.md §4.2.1.
const blockGivenMethod = "block_given?"

func sendToTree(dctx DesugarContext, n *parsetree.Send) tast.Expression {
	if n.Receiver == nil && n.Method == blockGivenMethod && len(n.Args) == 0 && n.Block == nil {
		return desugarBlockGiven(dctx, n)
	}

	receiver, flags := desugarReceiver(dctx, n.Loc(), n.Receiver)

	hasSplat := containsSplat(n.Args)
	switch {
	case hasSplat && n.BlockPass != nil:
		return desugarSplatSend(dctx, n.Loc(), receiver, n.Method, n.Args, n.BlockPass, true)
	case hasSplat:
		return desugarSplatSend(dctx, n.Loc(), receiver, n.Method, n.Args, nil, false)
	case n.BlockPass != nil:
		return desugarBlockPassSend(dctx, n.Loc(), receiver, n.Method, n.Args, n.BlockPass, flags)
	case n.Block != nil:
		block := desugarCallBlock(dctx, n.Block)
		return tast.NewSend(n.Loc(), receiver, tast.NameRef(dctx.Intern(n.Method)), desugarArgList(dctx, n.Args), block, flags)
	default:
		return tast.NewSend(n.Loc(), receiver, tast.NameRef(dctx.Intern(n.Method)), desugarArgList(dctx, n.Args), nil, flags)
	}
}

// desugarReceiver implements "Send (method call) with implicit
// receiver": a nil receiver becomes Self at a zero-length location
// with PRIVATE_OK set (spec.md §4.2.1).
func desugarReceiver(dctx DesugarContext, sendLoc common.Loc, receiver parsetree.Node) (tast.Expression, tast.SendFlags) {
	if receiver == nil {
		return mk.Self(sendLoc.CopyWithZeroLength()), tast.PrivateOK
	}
	return node2Tree(dctx, receiver), 0
}

func containsSplat(args []parsetree.Node) bool {
	for _, a := range args {
		if _, ok := a.(*parsetree.Splat); ok {
			return true
		}
	}
	return false
}

func desugarArgList(dctx DesugarContext, args []parsetree.Node) []tast.Expression {
	out := make([]tast.Expression, 0, len(args))
	for _, a := range args {
		out = append(out, node2Tree(dctx, a))
	}
	return out
}

// desugarSplatSend implements "Send containing a splat argument": the
// whole argument list becomes one Array expression, built the same way
// an Array literal with splats is (desugarSplattableSeq), and the call becomes
// Magic.callWithSplat(receiver, :method, argArray[, block]), or
// callWithSplatAndBlock when a block-pass is also present. A symbol
// literal block-pass is expanded in place to `{ |t| t.m() }` first,
// the same treatment desugarBlockPassSend gives the non-splat case.
func desugarSplatSend(dctx DesugarContext, loc common.Loc, receiver tast.Expression, method string, args []parsetree.Node, blockPass parsetree.Node, withBlock bool) tast.Expression {
	argArray := desugarSplattableSeq(dctx, loc, args, false)
	magic := mk.ConstantLit(loc.CopyWithZeroLength(), dctx.Intern(magicModule))
	symbol := mk.Symbol(loc.CopyWithZeroLength(), dctx.Intern(method))
	if withBlock {
		var blockExpr tast.Expression
		if sym, ok := blockPass.(*parsetree.SymbolLit); ok {
			blockExpr = symbolToProc(dctx, sym)
		} else {
			blockExpr = node2Tree(dctx, blockPass)
		}
		return mk.Send(loc, magic, dctx.Intern(magicCallWithSplatBlk), receiver, symbol, argArray, blockExpr)
	}
	return mk.Send(loc, magic, dctx.Intern(magicCallWithSplat), receiver, symbol, argArray)
}

// desugarBlockPassSend implements both "Send with explicit block-pass
// that is a symbol literal" (expanded in place to `{ |t| t.m() }`) and
// "...that is any other expression" (Magic.callWithBlock).
func desugarBlockPassSend(dctx DesugarContext, loc common.Loc, receiver tast.Expression, method string, args []parsetree.Node, blockPass parsetree.Node, flags tast.SendFlags) tast.Expression {
	if sym, ok := blockPass.(*parsetree.SymbolLit); ok {
		block := symbolToProc(dctx, sym)
		return tast.NewSend(loc, receiver, tast.NameRef(dctx.Intern(method)), desugarArgList(dctx, args), block, flags)
	}
	magic := mk.ConstantLit(loc.CopyWithZeroLength(), dctx.Intern(magicModule))
	symbol := mk.Symbol(loc.CopyWithZeroLength(), dctx.Intern(method))
	blockExpr := node2Tree(dctx, blockPass)
	callArgs := append([]tast.Expression{receiver, symbol, blockExpr}, desugarArgList(dctx, args)...)
	return mk.Send(loc, magic, dctx.Intern(magicCallWithBlock), callArgs...)
}

// symbolToProc implements §4.2.2: `:name` used as a block argument
// expands to `{ |t| t.name() }`, with the synthesized `t` parameter
// given a zero-length Loc so IDE tooling skips it.
func symbolToProc(dctx DesugarContext, sym *parsetree.SymbolLit) *tast.Block {
	z := sym.Loc().CopyWithZeroLength()
	t := dctx.Fresh(names.Desugar, names.BaseBlockPassTemp)
	blockParam := mk.Local(z, t)
	body := mk.Send0(sym.Loc(), mk.Local(z, t), dctx.Intern(sym.Value))
	return mk.Block(sym.Loc(), []tast.Expression{blockParam}, body)
}

// desugarCallBlock lowers a surface `{ |params| body }` / `do ... end`
// block into a tast.Block. Mlhs (destructured) parameters are replaced
// by a fresh positional temp with the unpacking assignment prepended to
// the body, the same treatment For-loop variables get (spec.md §4.2.1
// "For loop").
func desugarCallBlock(dctx DesugarContext, cb *parsetree.CallBlock) *tast.Block {
	params, prefix := convertParams(dctx, cb.Params)
	body := node2Tree(dctx, cb.Body)
	if len(prefix) > 0 {
		body = mk.InsSeq(cb.Loc(), prefix, body)
	}
	return mk.Block(cb.Loc(), params, body)
}

func csendToTree(dctx DesugarContext, n *parsetree.CSend) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	tTemp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
	recv := node2Tree(dctx, n.Receiver)
	tLocal := mk.Local(z, tTemp)
	assign := mk.Assign(z, mk.Local(z, tTemp), recv)
	guard := mk.Send1(z, tLocal, dctx.Intern(methodEqEq), mk.Nil(z))
	call := tast.NewSend(loc, tLocal, tast.NameRef(dctx.Intern(n.Method)), desugarArgList(dctx, n.Args), nil, 0)
	ifExpr := mk.If(loc, guard, mk.Nil(z), call)
	return mk.InsSeq(loc, []tast.Expression{assign}, ifExpr)
}

// desugarBlockGiven implements the bare `block_given?` call: true iff
// the enclosing method named a block parameter and its argument was
// non-nil at call time.
func desugarBlockGiven(dctx DesugarContext, n *parsetree.Send) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	blkName, has := dctx.BlockArg()
	if !has {
		return mk.False(loc)
	}
	blkLocal := mk.Local(z, blkName)
	guard := mk.Send1(z, blkLocal, dctx.Intern(methodEqEqEq), mk.Nil(z))
	return mk.If(loc, guard, mk.False(z), mk.True(z))
}

func yieldToTree(dctx DesugarContext, n *parsetree.Yield) tast.Expression {
	loc := n.Loc()
	blkName, has := dctx.BlockArg()
	args := desugarArgList(dctx, n.Args)
	if has {
		return mk.Send(loc, mk.Local(loc.CopyWithZeroLength(), blkName), dctx.Intern(methodCall), args...)
	}
	if dctx.Flags().Strict {
		diagSimple(dctx, loc, diag_unnamed_blk, "yield outside of a method with a named block parameter")
	}
	return mk.Send(loc, mk.Nil(loc.CopyWithZeroLength()), dctx.Intern(methodCall), args...)
}

func superToTree(dctx DesugarContext, n *parsetree.Super) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	switch {
	case containsSplat(n.Args) && n.BlockPass != nil:
		return desugarSplatSend(dctx, loc, mk.Self(z), methodSuper, n.Args, n.BlockPass, true)
	case containsSplat(n.Args):
		return desugarSplatSend(dctx, loc, mk.Self(z), methodSuper, n.Args, nil, false)
	case n.BlockPass != nil:
		return desugarBlockPassSend(dctx, loc, mk.Self(z), methodSuper, n.Args, n.BlockPass, tast.PrivateOK)
	case n.Block != nil:
		block := desugarCallBlock(dctx, n.Block)
		return mk.SendWithBlock(loc, mk.Self(z), dctx.Intern(methodSuper), block, desugarArgList(dctx, n.Args)...)
	default:
		return mk.SendPrivateOK(loc, mk.Self(z), dctx.Intern(methodSuper), desugarArgList(dctx, n.Args)...)
	}
}

// zsuperToTree implements "super with no args": self.super(ZSuperArgs),
// a sentinel telling later phases to forward the enclosing method's
// actual parameters (spec.md §4.2.1).
func zsuperToTree(dctx DesugarContext, n *parsetree.ZSuper) tast.Expression {
	loc := n.Loc()
	return mk.SendPrivateOK(loc, mk.Self(loc.CopyWithZeroLength()), dctx.Intern(methodSuper), mk.ZSuperArgs(loc.CopyWithZeroLength()))
}

func definedToTree(dctx DesugarContext, n *parsetree.Defined) tast.Expression {
	loc := n.Loc()
	z := loc.CopyWithZeroLength()
	magic := mk.ConstantLit(z, dctx.Intern(magicModule))
	if components := constantComponents(n.Expr); components != nil {
		args := make([]tast.Expression, 0, len(components))
		for _, c := range components {
			args = append(args, mk.String(z, dctx.Intern(c)))
		}
		return mk.Send(loc, magic, dctx.Intern(magicDefined), args...)
	}
	// Non-constant expression: later phases (pkg/rewriter, typechecking)
	// reason about the lowered expression directly; desugar just hands
	// it through wrapped so the shape stays uniform.
	return mk.Send1(loc, magic, dctx.Intern(magicDefined), node2Tree(dctx, n.Expr))
}

// constantComponents flattens a chained `Const::Const` scope into an
// ordered list of string components; anything else yields no
// components (spec.md §4.2.1 "defined?" — "later phases handle the
// generic case").
func constantComponents(n parsetree.Node) []string {
	c, ok := n.(*parsetree.Const)
	if !ok {
		return nil
	}
	var prefix []string
	if c.Scope != nil {
		prefix = constantComponents(c.Scope)
		if prefix == nil {
			return nil
		}
	}
	return append(prefix, c.Name)
}
