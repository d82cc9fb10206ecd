// Package verifier implements C6 (spec.md §5): a structural pass over
// a desugared TAST checking the invariants pkg/mk is supposed to have
// already enforced at construction time. It exists as a second line of
// defense — a MethodDef or Assign built by hand in a test fixture, or
// produced by a future rewriter pass that forgot to go through pkg/mk,
// should fail loudly here rather than surface as a mysterious crash
// three stages later. Modeled on the teacher's pkg/checker.Checker
// Bug/Issue accumulate-then-report shape.
package verifier

import (
	"fmt"
	"io"

	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// Bug is a violation of an invariant the desugar engine itself is
// supposed to guarantee — finding one means pkg/desugar or pkg/mk has
// a defect, not that the source program was invalid.
type Bug struct {
	Message string
	Node    tast.Expression
}

// Verifier walks a TAST accumulating Bugs; unlike diagnostics.Collector
// (which reports to the program's author) a Bug is always a defect in
// this module's own output.
type Verifier struct {
	Bugs []Bug
}

func New() *Verifier {
	return &Verifier{}
}

func (v *Verifier) addBug(message string, node tast.Expression) {
	v.Bugs = append(v.Bugs, Bug{Message: message, Node: node})
}

func (v *Verifier) OK() bool { return len(v.Bugs) == 0 }

// Report writes every accumulated Bug to w, the same shape the
// teacher's Checker.ReportErrors prints Bugs in.
func (v *Verifier) Report(w io.Writer) {
	if len(v.Bugs) == 0 {
		return
	}
	fmt.Fprintln(w, "internal error: desugared tree violates an invariant:")
	for i, b := range v.Bugs {
		fmt.Fprintf(w, "  [%d] %s at %s\n", i+1, b.Message, b.Node.Loc())
	}
}

// Verify walks expr and everything reachable from it.
func (v *Verifier) Verify(expr tast.Expression) bool {
	v.walk(expr)
	return v.OK()
}

func (v *Verifier) walk(expr tast.Expression) {
	if expr == nil {
		v.addBug("nil child expression", expr)
		return
	}
	switch n := expr.(type) {
	case *tast.Literal, *tast.Local, *tast.UnresolvedIdent, *tast.ConstantLit, *tast.Self, *tast.EmptyTree, *tast.ZSuperArgs, *tast.Retry:
		// leaves, nothing further to check

	case *tast.UnresolvedConstantLit:
		v.walk(n.Scope)

	case *tast.Assign:
		if !isReference(n.Lhs) {
			v.addBug("Assign.Lhs is not a reference form", n)
		}
		v.walk(n.Lhs)
		v.walk(n.Rhs)

	case *tast.Send:
		v.walk(n.Receiver)
		for _, a := range n.Args {
			v.walk(a)
		}
		if n.Block != nil {
			v.walkBlock(n.Block)
		}

	case *tast.Block:
		v.walkBlock(n)

	case *tast.MethodDef:
		v.checkMethodParams(n)
		for _, p := range n.Params {
			v.walk(p)
		}
		v.walk(n.Body)

	case *tast.ClassDef:
		v.walk(n.Name)
		for _, a := range n.Ancestors {
			v.walk(a)
		}
		for _, b := range n.Body {
			v.walk(b)
		}

	case *tast.If:
		v.walk(n.Cond)
		v.walk(n.Then)
		v.walk(n.Else)

	case *tast.While:
		v.walk(n.Cond)
		v.walk(n.Body)

	case *tast.Return:
		v.walk(n.Expr)
	case *tast.Break:
		v.walk(n.Expr)
	case *tast.Next:
		v.walk(n.Expr)

	case *tast.Rescue:
		v.walk(n.Body)
		for _, c := range n.Cases {
			if !isReference(c.Var) {
				v.addBug("RescueCase.Var is not a reference form", n)
			}
			for _, cls := range c.Classes {
				v.walk(cls)
			}
			v.walk(c.Var)
			v.walk(c.Body)
		}
		if n.Else != nil {
			v.walk(n.Else)
		}
		if n.Ensure != nil {
			v.walk(n.Ensure)
		}

	case *tast.Array:
		for _, e := range n.Elems {
			v.walk(e)
		}

	case *tast.Hash:
		if len(n.Keys) != len(n.Values) {
			v.addBug("Hash.Keys and Hash.Values have different lengths", n)
		}
		for _, k := range n.Keys {
			v.walk(k)
		}
		for _, val := range n.Values {
			v.walk(val)
		}

	case *tast.InsSeq:
		if len(n.Stats) == 0 {
			v.addBug("InsSeq with no statements should have been collapsed to its expression", n)
		}
		for _, s := range n.Stats {
			if _, ok := s.(*tast.EmptyTree); ok {
				v.addBug("InsSeq statement is an EmptyTree placeholder; should have been filtered", n)
			}
			v.walk(s)
		}
		v.walk(n.Expr)

	case *tast.RestArg, *tast.KeywordArg, *tast.BlockArg, *tast.ShadowArg:
		// parameter leaves, nothing further

	case *tast.OptionalArg:
		v.walk(n.Default)

	default:
		v.addBug(fmt.Sprintf("unrecognized TAST node type %T", n), expr)
	}
}

func (v *Verifier) walkBlock(b *tast.Block) {
	for _, p := range b.Params {
		v.walk(p)
	}
	v.walk(b.Body)
}

// checkMethodParams re-checks the invariant pkg/mk.MethodDef already
// enforces at construction time (spec.md §3.2 invariant 2).
func (v *Verifier) checkMethodParams(n *tast.MethodDef) {
	if len(n.Params) == 0 {
		return
	}
	if _, ok := n.Params[len(n.Params)-1].(*tast.BlockArg); !ok {
		v.addBug("MethodDef has a non-empty parameter list not ending in a BlockArg", n)
	}
}

func isReference(e tast.Expression) bool {
	switch e.(type) {
	case *tast.Local, *tast.UnresolvedIdent, *tast.UnresolvedConstantLit:
		return true
	default:
		return false
	}
}
