// Package parsetree models the concrete parse tree described in
// spec.md §3.1: the rich, irregular, ~70-variant vocabulary the
// desugar engine (pkg/desugar) consumes and lowers into the small TAST
// vocabulary of pkg/tast. This core never constructs one of these — an
// upstream parser is out of scope (spec.md §1) — so the types here
// exist purely as the desugarer's input contract and as fixtures for
// its tests.
package parsetree

import "github.com/spicery/nutmeg-desugar/pkg/common"

// Node is the sealed interface every parse-tree variant implements.
type Node interface {
	Loc() common.Loc
	isNode()
}

type base struct {
	loc common.Loc
}

func (b base) Loc() common.Loc { return b.loc }
func (base) isNode()           {}

// ---- literals ----

// RefKind distinguishes the four identifier-reference shapes the
// surface grammar keeps separate (local/instance/global/class
// variable) plus the constant-path form.
type RefKind int

const (
	RefLocal RefKind = iota
	RefInstance
	RefGlobal
	RefClass
)

// Ident is a bare identifier reference (LVar/IVar/GVar/CVar in the
// surface grammar), collapsed into one struct with a Kind tag rather
// than four near-identical ones.
type Ident struct {
	base
	Kind RefKind
	Name string
}

// Const is a constant reference `Scope::Name`; Scope is nil for a
// bare/implicit-scope reference (`Name` or `::Name` at the root, the
// latter flagged by Root).
type Const struct {
	base
	Scope Node
	Root  bool
	Name  string
}

type SelfLit struct{ base }

type BoolLit struct {
	base
	Value bool
}

type NilLit struct{ base }

// IntLit/FloatLit carry the raw textual form; the desugarer decodes it
// (stripping `_` separators, honoring a leading `~`) per spec.md
// §4.2.1 "Integer / float literals".
type IntLit struct {
	base
	Text string
}

type FloatLit struct {
	base
	Text string
}

type RationalLit struct {
	base
	Text string
}

type ComplexLit struct {
	base
	Text string
}

// StringLit/SymbolLit are the plain, non-interpolated forms.
type StringLit struct {
	base
	Value string
}

type SymbolLit struct {
	base
	Value string
}

// DString/DSymbol are the interpolated forms: Parts is left-to-right,
// each either a StringLit (literal chunk) or an arbitrary expression.
type DString struct {
	base
	Parts []Node
}

type DSymbol struct {
	base
	Parts []Node
}

type RegexpLit struct {
	base
	Source Node // StringLit or DString
	Flags  string
}

type FileLit struct{ base }
type LineLit struct{ base }
type EncodingLit struct{ base }

// ---- containers ----

// Splat marks an element of an Array/Hash literal, an argument list,
// or an Mlhs as the unpacking form `*expr`.
type Splat struct {
	base
	Expr Node // nil for a bare anonymous splat inside Mlhs
}

type ArrayLit struct {
	base
	Elems []Node // elements may be Splat
}

// Pair is one `key => value` or `key: value` entry of a HashLit.
type Pair struct {
	base
	Key   Node
	Value Node
}

type HashLit struct {
	base
	Pairs []Node // each is *Pair or *Splat (double-splat `**h`)
}

type IRange struct {
	base
	From, To Node
}

type ERange struct {
	base
	From, To Node
}

// ---- calls ----

// Send is a method call. Receiver is nil for an implicit receiver.
// Block, if present, is a *CallBlock. A block-pass argument, if any,
// lives in BlockPass (mutually exclusive with Block).
type Send struct {
	base
	Receiver  Node
	Method    string
	Args      []Node // elements may be Splat or Pair (trailing kwargs)
	Block     *CallBlock
	BlockPass Node // expression passed as `&expr`; may be a SymbolLit
}

// CSend is the safe-navigation call `recv&.m(args)`.
type CSend struct {
	base
	Receiver Node
	Method   string
	Args     []Node
}

// CallBlock is the `{ |params| body }` / `do |params| ... end` block
// literal passed to a Send.
type CallBlock struct {
	base
	Params *Args
	Body   Node
}

// Args is a method/block parameter list. Each element is one of
// Arg, OptArg, RestArg, KwArg, KwOptArg, KwRestArg, BlockArgNode,
// ShadowArgNode, or Mlhs (a destructured compound parameter).
type Args struct {
	base
	List []Node
}

type Arg struct {
	base
	Name string
}

type OptArg struct {
	base
	Name    string
	Default Node
}

type RestArgNode struct {
	base
	Name string // empty for the bare anonymous `*`
}

type KwArg struct {
	base
	Name string
}

type KwOptArg struct {
	base
	Name    string
	Default Node
}

type KwRestArgNode struct {
	base
	Name string
}

type BlockArgNode struct {
	base
	Name string // empty for the bare anonymous `&`
}

type ShadowArgNode struct {
	base
	Name string
}

// Mlhs is a compound (destructuring) assignment target or parameter:
// `a, *b, c`. Exactly one element may be a *Splat.
type Mlhs struct {
	base
	Targets []Node
}

// ---- assignment ----

type Assign struct {
	base
	Lhs Node // Ident, Const, or a Send (attribute/index assignment)
	Rhs Node
}

// Masgn is `lhs1, ..., *splat, ... = rhs`.
type Masgn struct {
	base
	Lhs *Mlhs
	Rhs Node
}

// OpAsgn is `lhs op= rhs`, e.g. `x += 1`.
type OpAsgn struct {
	base
	Lhs Node
	Op  string
	Rhs Node
}

type AndAsgn struct {
	base
	Lhs, Rhs Node
}

type OrAsgn struct {
	base
	Lhs, Rhs Node
}

type And struct {
	base
	Lhs, Rhs Node
}

type Or struct {
	base
	Lhs, Rhs Node
}

// ---- control flow ----

type If struct {
	base
	Cond, Then, Else Node
}

type While struct {
	base
	Cond, Body Node
	Until      bool // true for `until`
	PostTest   bool // true for `begin ... end while/until cond`
}

type For struct {
	base
	Var  Node // Ident or Mlhs
	Iter Node
	Body Node
}

// Begin is a bare statement sequence, e.g. the body of `begin ... end`
// or of any block with more than one statement.
type Begin struct {
	base
	Stmts []Node
}

type Return struct {
	base
	Args []Node
}

type BreakNode struct {
	base
	Args []Node
}

type NextNode struct {
	base
	Args []Node
}

type RedoNode struct{ base }

type Retry struct{ base }

// When is one `when p1, p2 then body` arm of a Case.
type When struct {
	base
	Patterns []Node
	Body     Node
}

type Case struct {
	base
	Cond  Node // nil for a condition-less `case` whose patterns are booleans
	Whens []*When
	Else  Node
}

// RescueBody is one `rescue C1, C2 => var; body` arm.
type RescueBody struct {
	base
	Classes []Node // empty for a bare `rescue`
	Var     Node   // nil if no binding was named
	Body    Node
}

type RescueNode struct {
	base
	Body    Node
	Rescues []*RescueBody
	Else    Node
}

type EnsureNode struct {
	base
	Body   Node
	Ensure Node
}

type Super struct {
	base
	Args      []Node
	Block     *CallBlock
	BlockPass Node
}

type ZSuper struct{ base }

type Yield struct {
	base
	Args []Node
}

type Defined struct {
	base
	Expr Node
}

// ---- definitions ----

type ClassNode struct {
	base
	Name       Node // Const
	Superclass Node // nil if absent
	Body       Node
}

// SClass is `class << expr; body; end`; only `expr == Self{}` is
// accepted by desugar (spec.md §4.2.1).
type SClass struct {
	base
	Expr Node
	Body Node
}

type ModuleNode struct {
	base
	Name Node
	Body Node
}

// Def is `def m(args); body; end`. Defs is `def recv.m(args); body; end`
// (Definee must be Self for anything but a syntax error per spec.md).
type Def struct {
	base
	Name string
	Args *Args
	Body Node
}

type Defs struct {
	base
	Definee Node
	Name    string
	Args    *Args
	Body    Node
}

type Alias struct {
	base
	New, Old Node
}

type UndefNode struct {
	base
	Names []Node
}

type BeginBlock struct {
	base
	Body Node
}

type EndBlock struct {
	base
	Body Node
}

type BackRef struct {
	base
	Text string // e.g. "$~", "$1", "$&"
}

type FlipFlop struct {
	base
	From, To  Node
	Exclusive bool
}

// BlockPassOperand is a bare `&expr` appearing somewhere other than a
// Send/Super's dedicated BlockPass slot, e.g. as one operand of a
// multi-value `return`/`break`/`next` — rejected by desugar with a
// diagnostic per spec.md §4.2.1 ("return e1, e2, …").
type BlockPassOperand struct {
	base
	Expr Node
}
