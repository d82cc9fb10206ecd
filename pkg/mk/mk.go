// Package mk is the tree-constructor combinator layer (C2, spec.md
// §2): functions that build TAST nodes while enforcing invariants the
// verifier (pkg/verifier) later checks, so the desugar engine
// (pkg/desugar) never constructs a tast.Expression by hand. Named mk
// the way Sorbet's own combinator namespace is named MK.
package mk

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

func EmptyTree() tast.Expression { return tast.NewEmptyTree() }

func Self(loc common.Loc) tast.Expression { return tast.NewSelf(loc) }

func Local(loc common.Loc, name names.NameRef) tast.Expression {
	return tast.NewLocal(loc, tast.NameRef(name))
}

func True(loc common.Loc) tast.Expression  { return tast.NewLiteralBool(loc, true) }
func False(loc common.Loc) tast.Expression { return tast.NewLiteralBool(loc, false) }
func Nil(loc common.Loc) tast.Expression   { return tast.NewLiteralNil(loc) }

func Int(loc common.Loc, v int64) tast.Expression     { return tast.NewLiteralInt(loc, v) }
func Float(loc common.Loc, v float64) tast.Expression { return tast.NewLiteralFloat(loc, v) }

func String(loc common.Loc, s names.NameRef) tast.Expression {
	return tast.NewLiteralString(loc, tast.NameRef(s))
}

func Symbol(loc common.Loc, s names.NameRef) tast.Expression {
	return tast.NewLiteralSymbol(loc, tast.NameRef(s))
}

// Assign enforces invariant 4 (spec.md §3.2): lhs must already be a
// reference form. Desugar rules that might hand it something else are
// bugs in the caller, not something to paper over here, so this panics
// rather than silently coercing — the same "assert, don't guess"
// posture the spec's internal-error category calls for (§7).
func Assign(loc common.Loc, lhs, rhs tast.Expression) tast.Expression {
	if !IsReference(lhs) {
		panic("mk.Assign: lhs is not a reference form")
	}
	return tast.NewAssign(loc, lhs, rhs)
}

// IsReference reports whether e is a valid Assign.lhs / RescueCase.Var
// shape: Local, UnresolvedIdent, or UnresolvedConstantLit.
func IsReference(e tast.Expression) bool {
	switch e.(type) {
	case *tast.Local, *tast.UnresolvedIdent, *tast.UnresolvedConstantLit:
		return true
	default:
		return false
	}
}

func UnresolvedIdent(loc common.Loc, binding tast.IdentBinding, name names.NameRef) tast.Expression {
	return tast.NewUnresolvedIdent(loc, binding, tast.NameRef(name))
}

func UnresolvedConstantLit(loc common.Loc, scope tast.Expression, name names.NameRef) tast.Expression {
	return tast.NewUnresolvedConstantLit(loc, scope, tast.NameRef(name))
}

func ConstantLit(loc common.Loc, symbol names.NameRef) tast.Expression {
	return tast.NewConstantLit(loc, tast.NameRef(symbol))
}

// Send0/Send1/Send2/Send build a Send with an explicit receiver and no
// block, the overwhelming majority shape; SendWithBlock adds one.
func Send0(loc common.Loc, recv tast.Expression, method names.NameRef) tast.Expression {
	return Send(loc, recv, method)
}

func Send1(loc common.Loc, recv tast.Expression, method names.NameRef, arg tast.Expression) tast.Expression {
	return Send(loc, recv, method, arg)
}

func Send2(loc common.Loc, recv tast.Expression, method names.NameRef, a, b tast.Expression) tast.Expression {
	return Send(loc, recv, method, a, b)
}

func Send(loc common.Loc, recv tast.Expression, method names.NameRef, args ...tast.Expression) tast.Expression {
	return tast.NewSend(loc, recv, tast.NameRef(method), args, nil, 0)
}

func SendWithBlock(loc common.Loc, recv tast.Expression, method names.NameRef, block *tast.Block, args ...tast.Expression) tast.Expression {
	return tast.NewSend(loc, recv, tast.NameRef(method), args, block, 0)
}

// SendPrivateOK is Send0/Send/... with PrivateOK set, for the implicit
// receiver case (spec.md §4.2.1).
func SendPrivateOK(loc common.Loc, recv tast.Expression, method names.NameRef, args ...tast.Expression) tast.Expression {
	return tast.NewSend(loc, recv, tast.NameRef(method), args, nil, tast.PrivateOK)
}

func Block(loc common.Loc, params []tast.Expression, body tast.Expression) *tast.Block {
	return tast.NewBlock(loc, params, body)
}

// MethodDef enforces invariant 2 (spec.md §3.2): the parameter list, if
// non-empty, must end with a BlockArg. The desugar engine is
// responsible for synthesizing one when the surface form omitted it
// (spec.md §4.2.3 step 3) before calling this.
func MethodDef(loc common.Loc, name names.NameRef, params []tast.Expression, body tast.Expression, flags tast.MethodDefFlags) tast.Expression {
	if len(params) > 0 {
		if _, ok := params[len(params)-1].(*tast.BlockArg); !ok {
			panic("mk.MethodDef: non-empty parameter list must end with a BlockArg")
		}
	}
	return tast.NewMethodDef(loc, tast.NameRef(name), params, body, flags)
}

func ClassDef(loc common.Loc, name tast.Expression, ancestors, body []tast.Expression, kind tast.ClassKind) tast.Expression {
	return tast.NewClassDef(loc, name, ancestors, body, kind)
}

func If(loc common.Loc, cond, then, els tast.Expression) tast.Expression {
	return tast.NewIf(loc, cond, then, els)
}

func While(loc common.Loc, cond, body tast.Expression) tast.Expression {
	return tast.NewWhile(loc, cond, body)
}

func Return(loc common.Loc, expr tast.Expression) tast.Expression { return tast.NewReturn(loc, expr) }
func Break(loc common.Loc, expr tast.Expression) tast.Expression  { return tast.NewBreak(loc, expr) }
func Next(loc common.Loc, expr tast.Expression) tast.Expression   { return tast.NewNext(loc, expr) }
func Retry(loc common.Loc) tast.Expression                        { return tast.NewRetry(loc) }

func RescueCase(loc common.Loc, classes []tast.Expression, v, body tast.Expression) tast.RescueCase {
	if !IsReference(v) {
		panic("mk.RescueCase: var must be a reference form")
	}
	return tast.NewRescueCase(loc, classes, v, body)
}

func Rescue(loc common.Loc, body tast.Expression, cases []tast.RescueCase, els, ensure tast.Expression) tast.Expression {
	return tast.NewRescue(loc, body, cases, els, ensure)
}

func Array(loc common.Loc, elems ...tast.Expression) tast.Expression {
	return tast.NewArray(loc, elems)
}

func Hash(loc common.Loc, keys, values []tast.Expression) tast.Expression {
	return tast.NewHash(loc, keys, values)
}

// InsSeq collapses to its trailing expression when there are no
// statements, enforcing invariant 3 (spec.md §3.2): "InsSeq statements
// is never empty-only; if empty, the InsSeq is collapsed to its
// expression."
func InsSeq(loc common.Loc, stats []tast.Expression, expr tast.Expression) tast.Expression {
	nonEmpty := stats[:0:0]
	for _, s := range stats {
		if _, ok := s.(*tast.EmptyTree); ok {
			continue
		}
		nonEmpty = append(nonEmpty, s)
	}
	if len(nonEmpty) == 0 {
		return expr
	}
	return tast.NewInsSeq(loc, nonEmpty, expr)
}

func ZSuperArgs(loc common.Loc) tast.Expression { return tast.NewZSuperArgs(loc) }

func RestArg(loc common.Loc, name names.NameRef) tast.Expression {
	return tast.NewRestArg(loc, tast.NameRef(name))
}

func KeywordArg(loc common.Loc, name names.NameRef) tast.Expression {
	return tast.NewKeywordArg(loc, tast.NameRef(name))
}

func OptionalArg(loc common.Loc, name names.NameRef, def tast.Expression) tast.Expression {
	return tast.NewOptionalArg(loc, tast.NameRef(name), def)
}

func BlockArgNode(loc common.Loc, name names.NameRef) *tast.BlockArg {
	return tast.NewBlockArg(loc, tast.NameRef(name))
}

func ShadowArg(loc common.Loc, name names.NameRef) tast.Expression {
	return tast.NewShadowArg(loc, tast.NameRef(name))
}
