package desugar

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// internalError is the panic payload for category-3 errors (spec.md
// §7): a context an implementer believes unreachable. It is caught only
// at the two top-level entry points, Desugar and DesugarUnit (spec.md
// §4.2.4).
type internalError struct {
	loc common.Loc
	msg string
}

func (e *internalError) Error() string { return e.msg }

func raise(loc common.Loc, format string, args ...any) {
	panic(&internalError{loc: loc, msg: fmt.Sprintf(format, args...)})
}

// Desugar is the public entry point: translate one parse-tree node
// into TAST, recovering an internal error into a single diagnostic per
// spec.md §4.2.4 rather than letting it crash the whole driver.
func Desugar(dctx DesugarContext, node parsetree.Node) (result tast.Expression, err error) {
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
	result = node2Tree(dctx, node)
	return result, nil
}

func node2Tree(dctx DesugarContext, node parsetree.Node) tast.Expression {
	if node == nil {
		return mk.EmptyTree()
	}
	switch n := node.(type) {
	case *parsetree.Ident:
		return identToTree(dctx, n)
	case *parsetree.Const:
		return constToTree(dctx, n)
	case *parsetree.SelfLit:
		return mk.Self(n.Loc())
	case *parsetree.BoolLit:
		if n.Value {
			return mk.True(n.Loc())
		}
		return mk.False(n.Loc())
	case *parsetree.NilLit:
		return mk.Nil(n.Loc())
	case *parsetree.IntLit:
		return intLitToTree(dctx, n)
	case *parsetree.FloatLit:
		return floatLitToTree(dctx, n)
	case *parsetree.RationalLit:
		return rationalLitToTree(dctx, n)
	case *parsetree.ComplexLit:
		return complexLitToTree(dctx, n)
	case *parsetree.StringLit:
		return mk.String(n.Loc(), dctx.Intern(n.Value))
	case *parsetree.SymbolLit:
		return mk.Symbol(n.Loc(), dctx.Intern(n.Value))
	case *parsetree.DString:
		return desugarDString(dctx, n.Loc(), n.Parts, false)
	case *parsetree.DSymbol:
		return desugarDString(dctx, n.Loc(), n.Parts, true)
	case *parsetree.RegexpLit:
		return regexpToTree(dctx, n)
	case *parsetree.IRange:
		return rangeToTree(dctx, n.Loc(), n.From, n.To, false)
	case *parsetree.ERange:
		return rangeToTree(dctx, n.Loc(), n.From, n.To, true)
	case *parsetree.ArrayLit:
		return arrayLitToTree(dctx, n)
	case *parsetree.HashLit:
		return hashLitToTree(dctx, n)
	case *parsetree.FileLit:
		return mk.String(n.Loc(), dctx.Intern(dctx.FileDB().File(dctx.file).Path))
	case *parsetree.LineLit:
		return mk.Int(n.Loc(), int64(lineOf(dctx, n.Loc())))
	case *parsetree.Send:
		return sendToTree(dctx, n)
	case *parsetree.CSend:
		return csendToTree(dctx, n)
	case *parsetree.Assign:
		return assignToTree(dctx, n)
	case *parsetree.Masgn:
		return masgnToTree(dctx, n)
	case *parsetree.OpAsgn:
		return opAsgnToTree(dctx, n)
	case *parsetree.AndAsgn:
		return andOrAsgnToTree(dctx, n.Loc(), n.Lhs, n.Rhs, true)
	case *parsetree.OrAsgn:
		return andOrAsgnToTree(dctx, n.Loc(), n.Lhs, n.Rhs, false)
	case *parsetree.And:
		return shortCircuitToTree(dctx, n.Loc(), n.Lhs, n.Rhs, true)
	case *parsetree.Or:
		return shortCircuitToTree(dctx, n.Loc(), n.Lhs, n.Rhs, false)
	case *parsetree.If:
		return mk.If(n.Loc(), node2Tree(dctx, n.Cond), node2Tree(dctx, n.Then), node2Tree(dctx, n.Else))
	case *parsetree.While:
		return whileToTree(dctx, n)
	case *parsetree.For:
		return forToTree(dctx, n)
	case *parsetree.Begin:
		return beginToTree(dctx, n)
	case *parsetree.Return:
		return mk.Return(n.Loc(), multiArgToTree(dctx, n.Loc(), n.Args))
	case *parsetree.BreakNode:
		return mk.Break(n.Loc(), multiArgToTree(dctx, n.Loc(), n.Args))
	case *parsetree.NextNode:
		return mk.Next(n.Loc(), multiArgToTree(dctx, n.Loc(), n.Args))
	case *parsetree.Retry:
		return mk.Retry(n.Loc())
	case *parsetree.RedoNode:
		return unsupported(dctx, n.Loc(), "redo")
	case *parsetree.Case:
		return caseToTree(dctx, n)
	case *parsetree.RescueNode:
		return rescueNodeToTree(dctx, n)
	case *parsetree.EnsureNode:
		return ensureNodeToTree(dctx, n)
	case *parsetree.Super:
		return superToTree(dctx, n)
	case *parsetree.ZSuper:
		return zsuperToTree(dctx, n)
	case *parsetree.Yield:
		return yieldToTree(dctx, n)
	case *parsetree.Defined:
		return definedToTree(dctx, n)
	case *parsetree.ClassNode:
		return classToTree(dctx, n)
	case *parsetree.SClass:
		return sclassToTree(dctx, n)
	case *parsetree.ModuleNode:
		return moduleToTree(dctx, n)
	case *parsetree.Def:
		return defToTree(dctx, n)
	case *parsetree.Defs:
		return defsToTree(dctx, n)
	case *parsetree.Alias:
		return aliasToTree(dctx, n)
	case *parsetree.UndefNode:
		diagSimple(dctx, n.Loc(), diag_undef, "undef")
		return mk.EmptyTree()
	case *parsetree.BeginBlock:
		return unsupported(dctx, n.Loc(), "BEGIN")
	case *parsetree.EndBlock:
		return unsupported(dctx, n.Loc(), "END")
	case *parsetree.BackRef:
		return unsupported(dctx, n.Loc(), "backreference")
	case *parsetree.FlipFlop:
		return unsupported(dctx, n.Loc(), "flip-flop")
	case *parsetree.EncodingLit:
		return unsupported(dctx, n.Loc(), "__ENCODING__")
	default:
		raise(n.Loc(), "unhandled parse node type %T", n)
		return nil
	}
}

func identToTree(dctx DesugarContext, n *parsetree.Ident) tast.Expression {
	name := dctx.Intern(n.Name)
	switch n.Kind {
	case parsetree.RefLocal:
		return mk.Local(n.Loc(), name)
	case parsetree.RefInstance:
		return mk.UnresolvedIdent(n.Loc(), tast.BindingInstance, name)
	case parsetree.RefGlobal:
		return mk.UnresolvedIdent(n.Loc(), tast.BindingGlobal, name)
	case parsetree.RefClass:
		return mk.UnresolvedIdent(n.Loc(), tast.BindingClass, name)
	default:
		raise(n.Loc(), "unknown ref kind %d", n.Kind)
		return nil
	}
}

func constToTree(dctx DesugarContext, n *parsetree.Const) tast.Expression {
	var scope tast.Expression
	if n.Scope != nil {
		scope = node2Tree(dctx, n.Scope)
	} else if n.Root {
		scope = mk.ConstantLit(n.Loc().CopyWithZeroLength(), dctx.Intern(rootScope))
	} else {
		scope = mk.EmptyTree()
	}
	return mk.UnresolvedConstantLit(n.Loc(), scope, dctx.Intern(n.Name))
}

func intLitToTree(dctx DesugarContext, n *parsetree.IntLit) tast.Expression {
	text := strings.ReplaceAll(n.Text, "_", "")
	neg := false
	if strings.HasPrefix(text, "~") {
		neg = true
		text = text[1:]
	}
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		diagSimple(dctx, n.Loc(), diag_int_range, "integer literal out of range: %s", n.Text)
		return mk.Int(n.Loc(), 0)
	}
	if neg {
		v = ^v
	}
	return mk.Int(n.Loc(), v)
}

func floatLitToTree(dctx DesugarContext, n *parsetree.FloatLit) tast.Expression {
	text := strings.ReplaceAll(n.Text, "_", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		diagSimple(dctx, n.Loc(), diag_float_range, "float literal out of range: %s", n.Text)
		return mk.Float(n.Loc(), math.NaN())
	}
	return mk.Float(n.Loc(), v)
}

func rationalLitToTree(dctx DesugarContext, n *parsetree.RationalLit) tast.Expression {
	return mk.Send1(n.Loc(), mk.ConstantLit(n.Loc().CopyWithZeroLength(), dctx.Intern(kernelMod)),
		dctx.Intern(methodRational), mk.String(n.Loc(), dctx.Intern(strings.ReplaceAll(n.Text, "_", ""))))
}

func complexLitToTree(dctx DesugarContext, n *parsetree.ComplexLit) tast.Expression {
	z := n.Loc().CopyWithZeroLength()
	return mk.Send2(n.Loc(), mk.ConstantLit(z, dctx.Intern(kernelMod)),
		dctx.Intern(methodComplex), mk.Int(z, 0), mk.String(n.Loc(), dctx.Intern(strings.ReplaceAll(n.Text, "_", ""))))
}

func rangeToTree(dctx DesugarContext, loc common.Loc, from, to parsetree.Node, exclusive bool) tast.Expression {
	fromT, toT := node2Tree(dctx, from), node2Tree(dctx, to)
	recv := mk.ConstantLit(loc.CopyWithZeroLength(), dctx.Intern(rangeModule))
	if exclusive {
		return mk.Send(loc, recv, dctx.Intern(methodNew), fromT, toT, mk.True(loc.CopyWithZeroLength()))
	}
	return mk.Send(loc, recv, dctx.Intern(methodNew), fromT, toT)
}

func arrayLitToTree(dctx DesugarContext, n *parsetree.ArrayLit) tast.Expression {
	return desugarSplattableSeq(dctx, n.Loc(), n.Elems, false)
}

func hashLitToTree(dctx DesugarContext, n *parsetree.HashLit) tast.Expression {
	return desugarSplattableSeq(dctx, n.Loc(), n.Pairs, true)
}

func lineOf(dctx DesugarContext, loc common.Loc) int {
	return dctx.FileDB().Resolve(loc).Start.Line
}

func diagSimple(dctx DesugarContext, loc common.Loc, code diagCode, format string, args ...any) {
	b := dctx.Diag().BeginError(loc, code.code, code.sev)
	if b == nil {
		return
	}
	b.SetHeader(format, args...).Commit()
}

func unsupported(dctx DesugarContext, loc common.Loc, what string) tast.Expression {
	diagSimple(dctx, loc, diag_unsupported, "unsupported construct: %s", what)
	return mk.EmptyTree()
}
