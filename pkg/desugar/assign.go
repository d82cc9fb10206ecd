package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

func assignToTree(dctx DesugarContext, n *parsetree.Assign) tast.Expression {
	lhs := node2Tree(dctx, n.Lhs)
	rhs := node2Tree(dctx, n.Rhs)
	if !mk.IsReference(lhs) {
		// An attribute/index assignment, e.g. `a.b = c` or `a[i] = c`,
		// parses its Lhs as a Send; rewrite it to the corresponding
		// `b=`/`[]=` call per spec.md §4.2.1 "Assignment to a Send".
		if send, ok := lhs.(*tast.Send); ok {
			return rewriteSendAssign(dctx, n.Loc(), send, rhs)
		}
		raise(n.Loc(), "assignment lhs lowered to non-reference, non-send shape %T", lhs)
	}
	return mk.Assign(n.Loc(), lhs, rhs)
}

// rewriteSendAssign turns `recv.method(args) = rhs` into
// `recv.method=(args..., rhs)` (plain attribute form) or
// `recv.[]=(args..., rhs)` (index form, when method is "[]").
func rewriteSendAssign(dctx DesugarContext, loc common.Loc, send *tast.Send, rhs tast.Expression) tast.Expression {
	methodName := dctx.Names().Show(names.NameRef(send.Method))
	args := append(append([]tast.Expression(nil), send.Args...), rhs)
	return tast.NewSend(loc, send.Receiver, tast.NameRef(dctx.Intern(setterMethodName(methodName))), args, nil, send.Flags)
}

// setterMethodName turns a getter/attribute method name into its
// assignment form: `[]` becomes `[]=`, anything else gets a trailing
// `=` (spec.md §4.2.1 "Assignment to a Send").
func setterMethodName(method string) string {
	if method == "[]" {
		return "[]="
	}
	return method + "="
}

// masgnToTree implements multiple assignment `a, *b, c = rhs` by
// handing the rhs and lhs target list to desugarMlhs.
func masgnToTree(dctx DesugarContext, n *parsetree.Masgn) tast.Expression {
	return desugarMlhs(dctx, n.Loc(), n.Lhs, node2Tree(dctx, n.Rhs))
}

// destructureAssign implements "destructuring of a compound parameter
// or for-loop variable": the same expandSplat-driven treatment
// desugarMlhs gives a top-level masgn, driven off a single
// already-lowered source expression rather than a raw rhs parse node.
func destructureAssign(dctx DesugarContext, targets *parsetree.Mlhs, source tast.Expression) tast.Expression {
	return desugarMlhs(dctx, targets.Loc(), targets, source)
}

// desugarMlhs implements multiple assignment and nested destructuring
// (spec.md §4.2.1 "Multiple assignment" / "destructuring of a compound
// parameter or for-loop variable"; Desugar.cc:256-325). rhs is bound to
// tempRhs exactly once, then Magic.expandSplat(tempRhs, before, after)
// expands it into tempExpanded: each plain target reads one `[]` slot
// off tempExpanded by position, and the splat target (if named) reads
// the remaining elements via a `Range.new(left, -right, exclusive)`
// slice. Regardless of how the targets destructure, the whole
// expression evaluates to tempRhs — the entire rhs value, not any one
// target's assignment (Desugar.cc:323-325).
func desugarMlhs(dctx DesugarContext, loc common.Loc, m *parsetree.Mlhs, rhs tast.Expression) tast.Expression {
	z := loc.CopyWithZeroLength()
	rhsTemp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
	expandedTemp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
	rhsLocal := mk.Local(z, rhsTemp)
	expandedLocal := mk.Local(z, expandedTemp)

	splatIdx := -1
	for i, t := range m.Targets {
		if _, ok := t.(*parsetree.Splat); ok {
			splatIdx = i
			break
		}
	}
	n := len(m.Targets)
	before, after := n, 0
	if splatIdx >= 0 {
		before, after = splatIdx, n-splatIdx-1
	}

	magic := mk.ConstantLit(z, dctx.Intern(magicModule))
	expanded := mk.Send(loc, magic, dctx.Intern(magicExpandSplat), rhsLocal, mk.Int(z, int64(before)), mk.Int(z, int64(after)))

	stats := []tast.Expression{
		mk.Assign(z, rhsLocal, rhs),
		mk.Assign(z, expandedLocal, expanded),
	}

	i := 0
	for idx, t := range m.Targets {
		if sp, ok := t.(*parsetree.Splat); ok {
			left := idx
			right := n - left - 1
			if sp.Expr != nil {
				vz := sp.Expr.Loc().CopyWithZeroLength()
				exclusive := mk.True(vz)
				if right == 0 {
					right = 1
					exclusive = mk.False(vz)
				}
				index := mk.Send(vz, mk.ConstantLit(vz, dctx.Intern(rangeModule)), dctx.Intern(methodNew),
					mk.Int(vz, int64(left)), mk.Int(vz, int64(-right)), exclusive)
				value := mk.Send1(z, expandedLocal, dctx.Intern(methodSlice), index)
				stats = append(stats, assignDestructureTarget(dctx, sp.Expr, value))
			}
			i = -right
			continue
		}
		value := mk.Send1(z, expandedLocal, dctx.Intern(methodSquareBrackets), mk.Int(z, int64(i)))
		stats = append(stats, assignDestructureTarget(dctx, t, value))
		i++
	}

	return mk.InsSeq(loc, stats, rhsLocal)
}

// assignDestructureTarget binds one masgn/destructure target to value:
// a nested Mlhs recurses through desugarMlhs, a rest-arg target (only
// reachable from a compound parameter list, not a real masgn target)
// is rejected since there is nowhere to splice its remaining elements,
// and anything else lowers through the normal node2Tree + mk.Assign
// path.
func assignDestructureTarget(dctx DesugarContext, target parsetree.Node, value tast.Expression) tast.Expression {
	if nested, ok := target.(*parsetree.Mlhs); ok {
		return desugarMlhs(dctx, nested.Loc(), nested, value)
	}
	if _, ok := target.(*parsetree.RestArgNode); ok {
		diagSimple(dctx, target.Loc(), diag_unsup_rest, "unsupported rest args in destructure")
		return mk.EmptyTree()
	}
	lhs := node2Tree(dctx, target)
	return mk.Assign(target.Loc(), lhs, value)
}

// opAsgnToTree implements `lhs op= rhs` (spec.md §4.2.1 "op-assign"),
// dispatching on the four lhs shapes node2Tree can produce
// (Desugar.cc:742-780): a Send receiver is read and written exactly
// once via opAsgnOnSend/opAsgnOnTastSend; a reference lhs lowers to
// `lhs = lhs.op(rhs)` directly; a constant lhs is rejected with
// Desugar::NoConstantReassignment; a safe-navigation (InsSeq/If) lhs
// has its Send branch rewritten in place so the nil short-circuit on
// the receiver is preserved.
func opAsgnToTree(dctx DesugarContext, n *parsetree.OpAsgn) tast.Expression {
	loc := n.Loc()
	if send, ok := n.Lhs.(*parsetree.Send); ok && send.Receiver != nil {
		return opAsgnOnSend(dctx, loc, send, n.Op, n.Rhs)
	}
	lhs := node2Tree(dctx, n.Lhs)
	if _, ok := lhs.(*tast.UnresolvedConstantLit); ok {
		diagSimple(dctx, loc, diag_no_const_ra, "constant reassignment via op-assign is not supported")
		return mk.EmptyTree()
	}
	if ifExpr, send, ok := safeNavElseSend(lhs); ok {
		rhs := node2Tree(dctx, n.Rhs)
		ifExpr.Else = opAsgnOnTastSend(dctx, send, n.Op, rhs)
		return lhs
	}
	rhs := node2Tree(dctx, n.Rhs)
	combined := mk.Send1(loc, lhs, dctx.Intern(n.Op), rhs)
	return mk.Assign(loc, lhs, combined)
}

// opAsgnOnSend implements "op-assign on an index/attribute send":
// `recv.m += rhs` / `recv[i] += rhs`, lowering receiver and args once
// and delegating the read-modify-write scaffold to opAsgnOnTastSend.
func opAsgnOnSend(dctx DesugarContext, loc common.Loc, send *parsetree.Send, op string, rhsNode parsetree.Node) tast.Expression {
	recv := node2Tree(dctx, send.Receiver)
	args := desugarArgList(dctx, send.Args)
	lowered := tast.NewSend(loc, recv, tast.NameRef(dctx.Intern(send.Method)), args, nil, 0)
	rhs := node2Tree(dctx, rhsNode)
	return opAsgnOnTastSend(dctx, lowered, op, rhs)
}

// opAsgnOnTastSend builds the `InsSeq{scaffold; (recv.m(args) op rhs)
// -> recv.m=(args, combined)}` result for an already-lowered Send lhs,
// shared by the plain attribute/index case and the safe-navigation
// (InsSeq/If) case.
func opAsgnOnTastSend(dctx DesugarContext, send *tast.Send, op string, rhs tast.Expression) tast.Expression {
	loc := send.Loc()
	z := loc.CopyWithZeroLength()
	recvLocal, stats, argTemps := opAsgnScaffold(dctx, z, send.Receiver, send.Args)
	method := dctx.Names().Show(names.NameRef(send.Method))

	getter := mk.Send(loc, recvLocal, dctx.Intern(method), argTemps...)
	combined := mk.Send1(loc, getter, dctx.Intern(op), rhs)

	setterArgs := append(append([]tast.Expression(nil), argTemps...), combined)
	result := tast.NewSend(loc, recvLocal, tast.NameRef(dctx.Intern(setterMethodName(method))), setterArgs, nil, 0)
	return mk.InsSeq(loc, stats, result)
}

// opAsgnScaffold implements copyArgsForOpAsgn (Desugar.cc's
// evaluate-the-receiver-and-args-exactly-once prologue, shared by the
// op-assign, &&=/||=, and safe-navigation forms of compound
// assignment): binds recv and each arg into a fresh temp, returning a
// reusable receiver reference, the staging assignments, and the temps
// to replay as the getter's and setter's leading arguments.
func opAsgnScaffold(dctx DesugarContext, z common.Loc, recv tast.Expression, args []tast.Expression) (recvLocal tast.Expression, stats, argTemps []tast.Expression) {
	recvTemp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
	recvLocal = mk.Local(z, recvTemp)
	stats = []tast.Expression{mk.Assign(z, recvLocal, recv)}
	argTemps = make([]tast.Expression, 0, len(args))
	for _, a := range args {
		t := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
		tLocal := mk.Local(z, t)
		stats = append(stats, mk.Assign(z, tLocal, a))
		argTemps = append(argTemps, tLocal)
	}
	return
}

// safeNavElseSend recognizes the `InsSeq{assign; If{guard, nil, Send}}`
// shape csendToTree produces for a safe-navigation receiver (`a&.b`)
// and, if lhs matches it, returns the If node (so its Else branch can
// be mutated in place, mirroring Desugar.cc's `ifExpr->elsep.swap`)
// along with the Send it currently holds.
func safeNavElseSend(lhs tast.Expression) (*tast.If, *tast.Send, bool) {
	seq, ok := lhs.(*tast.InsSeq)
	if !ok {
		return nil, nil, false
	}
	ifExpr, ok := seq.Expr.(*tast.If)
	if !ok {
		return nil, nil, false
	}
	send, ok := ifExpr.Else.(*tast.Send)
	if !ok {
		return nil, nil, false
	}
	return ifExpr, send, true
}

// andOrAsgnToTree implements `lhs &&= rhs` / `lhs ||= rhs` across all
// four lhs shapes node2Tree can produce (Desugar.cc:596-720): a Send
// receiver is read once via andOrAsgnOnSend/andOrAsgnOnTastSend and
// only written when the short-circuit condition holds; a reference lhs
// (Local/UnresolvedIdent) is read and written directly, since
// re-reading it has no side effect; a constant lhs is rejected with
// Desugar::NoConstantReassignment; a safe-navigation (InsSeq/If) lhs
// has its Send branch rewritten the same way as the plain Send case,
// in place.
func andOrAsgnToTree(dctx DesugarContext, loc common.Loc, lhsNode, rhsNode parsetree.Node, isAnd bool) tast.Expression {
	if send, ok := lhsNode.(*parsetree.Send); ok && send.Receiver != nil {
		return andOrAsgnOnSend(dctx, loc, send, rhsNode, isAnd)
	}
	lhs := node2Tree(dctx, lhsNode)
	if _, ok := lhs.(*tast.UnresolvedConstantLit); ok {
		diagSimple(dctx, loc, diag_no_const_ra, "constant reassignment is not supported")
		return mk.EmptyTree()
	}
	if ifExpr, send, ok := safeNavElseSend(lhs); ok {
		rhs := node2Tree(dctx, rhsNode)
		ifExpr.Else = andOrAsgnOnTastSend(dctx, send, rhs, isAnd)
		return lhs
	}
	rhs := node2Tree(dctx, rhsNode)
	assign := mk.Assign(loc, lhs, rhs)
	if isAnd {
		return mk.If(loc, lhs, assign, lhs)
	}
	return mk.If(loc, lhs, lhs, assign)
}

// andOrAsgnOnSend lowers receiver and args once and delegates the
// read-once-then-conditionally-write scaffold to andOrAsgnOnTastSend.
func andOrAsgnOnSend(dctx DesugarContext, loc common.Loc, send *parsetree.Send, rhsNode parsetree.Node, isAnd bool) tast.Expression {
	recv := node2Tree(dctx, send.Receiver)
	args := desugarArgList(dctx, send.Args)
	lowered := tast.NewSend(loc, recv, tast.NameRef(dctx.Intern(send.Method)), args, nil, 0)
	rhs := node2Tree(dctx, rhsNode)
	return andOrAsgnOnTastSend(dctx, lowered, rhs, isAnd)
}

// andOrAsgnOnTastSend builds the &&=/||= scaffold for an
// already-lowered Send lhs: the getter is read into a temp exactly
// once, since it supplies both the short-circuit guard and (when the
// setter isn't taken) the overall result.
func andOrAsgnOnTastSend(dctx DesugarContext, send *tast.Send, rhs tast.Expression, isAnd bool) tast.Expression {
	loc := send.Loc()
	z := loc.CopyWithZeroLength()
	recvLocal, stats, argTemps := opAsgnScaffold(dctx, z, send.Receiver, send.Args)
	method := dctx.Names().Show(names.NameRef(send.Method))

	getter := mk.Send(loc, recvLocal, dctx.Intern(method), argTemps...)
	resultTemp := dctx.Fresh(names.Desugar, names.BaseAssignTemp)
	resultLocal := mk.Local(z, resultTemp)
	stats = append(stats, mk.Assign(z, resultLocal, getter))

	setterArgs := append(append([]tast.Expression(nil), argTemps...), rhs)
	write := tast.NewSend(loc, recvLocal, tast.NameRef(dctx.Intern(setterMethodName(method))), setterArgs, nil, 0)

	var ifExpr tast.Expression
	if isAnd {
		ifExpr = mk.If(loc, resultLocal, write, resultLocal)
	} else {
		ifExpr = mk.If(loc, resultLocal, resultLocal, write)
	}
	return mk.InsSeq(loc, stats, ifExpr)
}

// shortCircuitToTree implements `lhs && rhs` / `lhs || rhs` in terms of
// If, evaluating lhs into a temp so it is read only once when it also
// supplies the non-taken branch's value.
func shortCircuitToTree(dctx DesugarContext, loc common.Loc, lhsNode, rhsNode parsetree.Node, isAnd bool) tast.Expression {
	z := loc.CopyWithZeroLength()
	temp := dctx.Fresh(names.Desugar, nameFor(isAnd))
	lhs := node2Tree(dctx, lhsNode)
	rhs := node2Tree(dctx, rhsNode)
	assign := mk.Assign(z, mk.Local(z, temp), lhs)
	tempLocal := mk.Local(z, temp)
	var ifExpr tast.Expression
	if isAnd {
		ifExpr = mk.If(loc, tempLocal, rhs, tempLocal)
	} else {
		ifExpr = mk.If(loc, tempLocal, tempLocal, rhs)
	}
	return mk.InsSeq(loc, []tast.Expression{assign}, ifExpr)
}

func nameFor(isAnd bool) string {
	if isAnd {
		return names.BaseAndAnd
	}
	return names.BaseOrOr
}

// multiArgToTree implements the argument list of a multi-value
// `return`/`break`/`next` (spec.md §4.2.1 "return e1, e2, …"): wrapped
// in an Array literal exactly like any other splattable sequence,
// except a bare block-pass operand among the arguments is rejected
// outright since there is no call site for it to attach to.
func multiArgToTree(dctx DesugarContext, loc common.Loc, args []parsetree.Node) tast.Expression {
	for _, a := range args {
		if bp, ok := a.(*parsetree.BlockPassOperand); ok {
			diagSimple(dctx, bp.Loc(), diag_unsupported, "block-pass argument is not allowed here")
		}
	}
	switch len(args) {
	case 0:
		return mk.EmptyTree()
	case 1:
		if _, ok := args[0].(*parsetree.Splat); !ok {
			return node2Tree(dctx, args[0])
		}
	}
	return desugarSplattableSeq(dctx, loc, args, false)
}

// desugarSplattableSeq implements both Array literals and Hash
// literals (isHash selects the latter): a sequence with no splats
// lowers to a plain Array/Hash; one containing a Splat (or, for Hash,
// a double-splat) lowers to successive `.concat`/`.merge` calls off an
// initial literal holding the non-splat prefix (spec.md §4.2.1 "Array
// literal containing a splat", "Hash literal containing a double
// splat").
func desugarSplattableSeq(dctx DesugarContext, loc common.Loc, elems []parsetree.Node, isHash bool) tast.Expression {
	hasSplat := false
	for _, e := range elems {
		if _, ok := e.(*parsetree.Splat); ok {
			hasSplat = true
			break
		}
	}
	if !hasSplat {
		if isHash {
			return hashLiteral(dctx, loc, elems)
		}
		return mk.Array(loc, desugarArgList(dctx, elems)...)
	}

	z := loc.CopyWithZeroLength()
	var acc tast.Expression
	var prefix []parsetree.Node
	flush := func() {
		if len(prefix) == 0 {
			return
		}
		var lit tast.Expression
		if isHash {
			lit = hashLiteral(dctx, loc, prefix)
		} else {
			lit = mk.Array(loc, desugarArgList(dctx, prefix)...)
		}
		if acc == nil {
			acc = lit
		} else if isHash {
			acc = mk.Send1(z, acc, dctx.Intern(methodMerge), lit)
		} else {
			acc = mk.Send1(z, acc, dctx.Intern(methodConcat), lit)
		}
		prefix = nil
	}
	for _, e := range elems {
		sp, ok := e.(*parsetree.Splat)
		if !ok {
			prefix = append(prefix, e)
			continue
		}
		flush()
		splatVal := node2Tree(dctx, sp.Expr)
		if acc == nil {
			if isHash {
				acc = mk.Send0(z, splatVal, dctx.Intern(methodToH))
			} else {
				acc = mk.Send0(z, splatVal, dctx.Intern(methodToA))
			}
			continue
		}
		if isHash {
			acc = mk.Send1(z, acc, dctx.Intern(methodMerge), splatVal)
		} else {
			acc = mk.Send1(z, acc, dctx.Intern(methodConcat), splatVal)
		}
	}
	flush()
	if acc == nil {
		if isHash {
			return mk.Hash(loc, nil, nil)
		}
		return mk.Array(loc)
	}
	return acc
}

func hashLiteral(dctx DesugarContext, loc common.Loc, pairs []parsetree.Node) tast.Expression {
	keys := make([]tast.Expression, 0, len(pairs))
	values := make([]tast.Expression, 0, len(pairs))
	for _, p := range pairs {
		pair, ok := p.(*parsetree.Pair)
		if !ok {
			raise(p.Loc(), "hash literal element is not a Pair: %T", p)
		}
		keys = append(keys, node2Tree(dctx, pair.Key))
		values = append(values, node2Tree(dctx, pair.Value))
	}
	return mk.Hash(loc, keys, values)
}
