package passes

import (
	"fmt"

	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/rewriter"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// NewTestDSL implements the "TestDSL (describe/it/before/after)" pass
// of spec.md §4.5, grounded on original_source/rewriter/Minitest.cc
// (runSingle, ConstantMover). Recognizes four shapes of a private
// self-send and lowers each to the class/method form the original's
// runSingle builds; every other node passes through unchanged.
func NewTestDSL(ctx rewriter.Context) rewriter.Pass {
	return rewriter.Pass{Name: "TestDSL", Visitor: testDSLVisitor{ctx: ctx}}
}

type testDSLVisitor struct {
	ctx rewriter.Context
	rewriter.BaseVisitor
}

func (v testDSLVisitor) Post(node tast.Expression, path *rewriter.Path) tast.Expression {
	send, ok := node.(*tast.Send)
	if !ok {
		return node
	}
	if _, ok := send.Receiver.(*tast.Self); !ok {
		return node
	}
	method := v.ctx.Show(names.NameRef(send.Method))

	switch {
	case len(send.Args) == 0 && send.Block != nil && (method == "before" || method == "after"):
		return v.lowerBeforeAfter(send, method)
	case len(send.Args) == 1 && method == "describe" && send.Block != nil:
		return v.lowerDescribe(send)
	case len(send.Args) == 1 && method == "it":
		return v.lowerIt(send)
	default:
		return node
	}
}

// lowerBeforeAfter implements `before { body }` / `after { body }` ⇒ a
// synthesized `initialize` / `<after>` method, sig(:void)-typed, with
// its block body's top-level constants/classes hoisted out.
func (v testDSLVisitor) lowerBeforeAfter(send *tast.Send, method string) tast.Expression {
	name := "initialize"
	if method == "after" {
		name = "<after>"
	}
	loc := send.Loc()
	body, moved := hoistConstants(v.ctx, send.Block.Body)
	methodDef := mk.MethodDef(loc, v.ctx.Intern(name), nil, body, tast.RewriterSynthesized)
	return attachMoved(loc, moved, addSigVoid(v.ctx, loc, methodDef))
}

// lowerDescribe implements `describe "D" { body }` ⇒ `class
// ⟨describe-'D'⟩ < self; body end` — the block body becomes a class
// body directly, so (unlike it/before/after) no hoisting is needed:
// constants and nested classes are already legal there.
func (v testDSLVisitor) lowerDescribe(send *tast.Send) tast.Expression {
	loc := send.Loc()
	z := loc.CopyWithZeroLength()
	desc := argToString(v.ctx, send.Args[0])
	name := mk.UnresolvedConstantLit(z, mk.EmptyTree(), v.ctx.Intern(fmt.Sprintf("<describe-'%s'>", desc)))
	ancestors := []tast.Expression{mk.Self(z)}
	body := stmtsOf(send.Block.Body)
	return mk.ClassDef(loc, name, ancestors, body, tast.ClassKindClass)
}

// lowerIt implements `it "N" { body }` ⇒ `sig(:void); def ⟨it-'N'⟩;
// body end`, plus the Minitest "it with no block" supplemental feature
// (SPEC_FULL §3): a blockless `it "pending"` lowers to an empty
// sig(:void)-typed method.
func (v testDSLVisitor) lowerIt(send *tast.Send) tast.Expression {
	loc := send.Loc()
	desc := argToString(v.ctx, send.Args[0])
	name := v.ctx.Intern(fmt.Sprintf("<it-'%s'>", desc))

	if send.Block == nil {
		methodDef := mk.MethodDef(loc, name, nil, mk.EmptyTree(), tast.RewriterSynthesized)
		return addSigVoid(v.ctx, loc, methodDef)
	}

	body, moved := hoistConstants(v.ctx, send.Block.Body)
	methodDef := mk.MethodDef(loc, name, nil, body, tast.RewriterSynthesized)
	return attachMoved(loc, moved, addSigVoid(v.ctx, loc, methodDef))
}

func addSigVoid(ctx rewriter.Context, loc common.Loc, method tast.Expression) tast.Expression {
	z := loc.CopyWithZeroLength()
	sig := mk.SendPrivateOK(z, mk.Self(z), ctx.Intern("sig"), mk.Symbol(z, ctx.Intern("void")))
	return stmtsToExpr(loc, []tast.Expression{sig, method})
}

func attachMoved(loc common.Loc, moved []tast.Expression, expr tast.Expression) tast.Expression {
	if len(moved) == 0 {
		return expr
	}
	return mk.InsSeq(loc, moved, expr)
}

func argToString(ctx rewriter.Context, arg tast.Expression) string {
	switch n := arg.(type) {
	case *tast.Literal:
		if n.Kind == tast.LitString || n.Kind == tast.LitSymbol {
			return ctx.Show(names.NameRef(n.Str))
		}
	case *tast.UnresolvedConstantLit, *tast.ConstantLit:
		return ctx.Show(constRefName(n))
	}
	return "?"
}

// hoistConstants implements ConstantMover (Minitest.cc): within a
// synthesized method body, a top-level constant assignment becomes a
// deferred `Module.const_set(:Name, rhs)` call in place plus a hoisted
// declaration; a top-level (outermost) nested class/describe-block is
// hoisted whole, replaced in place by EmptyTree. Nested class depth is
// tracked so only outermost nested classes move.
func hoistConstants(ctx rewriter.Context, body tast.Expression) (tast.Expression, []tast.Expression) {
	m := &constantMover{ctx: ctx}
	newBody := rewriter.Walk(m, body, nil)
	return newBody, m.moved
}

// constantMover mirrors Minitest.cc's ConstantMover: depth tracks
// nested class/describe-block recursion so only the outermost one at
// a given call gets hoisted; moved accumulates the hoisted
// declarations/classdefs in encounter order.
type constantMover struct {
	ctx   rewriter.Context
	depth int
	moved []tast.Expression
}

func (m *constantMover) Pre(node tast.Expression, path *rewriter.Path) (tast.Expression, bool) {
	switch n := node.(type) {
	case *tast.ClassDef:
		m.depth++
	case *tast.Send:
		if isDescribeBlockSend(m.ctx, n) {
			m.depth++
		}
	}
	return node, false
}

func (m *constantMover) Post(node tast.Expression, path *rewriter.Path) tast.Expression {
	switch n := node.(type) {
	case *tast.ClassDef:
		m.depth--
		if m.depth == 0 {
			m.moved = append(m.moved, n)
			return mk.EmptyTree()
		}
		return n
	case *tast.Send:
		if isDescribeBlockSend(m.ctx, n) {
			m.depth--
			if m.depth == 0 {
				m.moved = append(m.moved, n)
				return mk.EmptyTree()
			}
		}
		return n
	case *tast.Assign:
		if !isConstRef(n.Lhs) {
			return n
		}
		if isConstRef(n.Rhs) {
			// `CONST2 = CONST1`: already a pure constant expression,
			// hoist the whole assignment verbatim.
			m.moved = append(m.moved, n)
			return mk.EmptyTree()
		}
		loc := n.Loc()
		sym := mk.Symbol(loc, constRefName(n.Lhs))
		m.moved = append(m.moved, decayedConstAssign(m.ctx, n))
		moduleConst := mk.UnresolvedConstantLit(loc.CopyWithZeroLength(), mk.EmptyTree(), m.ctx.Intern("Module"))
		return mk.SendPrivateOK(loc, moduleConst, m.ctx.Intern("const_set"), sym, n.Rhs)
	default:
		return n
	}
}

// decayedConstAssign builds the hoisted declaration for a constant
// that lived inside a synthesized method body: its value decays to
// `T.unsafe(nil)` (the real value is set later via const_set), while
// an existing `T.let(_, Type)` annotation on the original rhs is
// preserved around the decayed value.
func decayedConstAssign(ctx rewriter.Context, asgn *tast.Assign) tast.Expression {
	loc := asgn.Loc()
	z := loc.CopyWithZeroLength()
	tConst := mk.UnresolvedConstantLit(z, mk.EmptyTree(), ctx.Intern("T"))
	unsafeNil := mk.SendPrivateOK(z, tConst, ctx.Intern("unsafe"), mk.Nil(z))

	if send, ok := asgn.Rhs.(*tast.Send); ok && ctx.Show(names.NameRef(send.Method)) == "let" && len(send.Args) == 2 {
		letExpr := mk.SendPrivateOK(z, tConst, ctx.Intern("let"), unsafeNil, send.Args[1])
		return mk.Assign(loc, asgn.Lhs, letExpr)
	}
	return mk.Assign(loc, asgn.Lhs, unsafeNil)
}

// isDescribeBlockSend recognizes a nested `describe "..." { ... }`
// call inside a synthesized method body — the original treats it the
// same as a ClassDef for hoisting purposes, since it becomes one.
func isDescribeBlockSend(ctx rewriter.Context, s *tast.Send) bool {
	if _, ok := s.Receiver.(*tast.Self); !ok {
		return false
	}
	return ctx.Show(names.NameRef(s.Method)) == "describe" && len(s.Args) == 1 && s.Block != nil
}
