// Package tast implements the typed abstract syntax tree (C1,
// spec.md §3.2): a small, regular, tagged-variant expression tree that
// the desugar engine (pkg/desugar) produces and the verifier
// (pkg/verifier) and rewriter (pkg/rewriter) consume.
//
// Go has no sum types, so the canonical variants are modeled as an
// Expression interface sealed to this package plus one concrete struct
// per variant, the same "interface + type switch" idiom the spec's
// design notes ask implementations to prefer over virtual dispatch.
// Each consumer's type switch has its own default arm: the verifier
// records an "unrecognized TAST node type" bug, the printer renders an
// "<unknown T>" label, and the rewriter walk treats the node as a leaf.
package tast

import "github.com/spicery/nutmeg-desugar/pkg/common"

// Expression is the sealed interface implemented by every TAST node.
type Expression interface {
	Loc() common.Loc
	isExpression()
}

type base struct {
	loc common.Loc
}

func (b base) Loc() common.Loc { return b.loc }
func (base) isExpression()     {}

// ---- Literal ----

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitSymbol
	LitBool
	LitNil
)

type Literal struct {
	base
	Kind LiteralKind
	// Exactly one of these is meaningful, selected by Kind.
	Int   int64
	Float float64
	Str   NameRef // String and Symbol literals carry an interned spelling
	Bool  bool
}

// NameRef mirrors pkg/names.NameRef. TAST nodes only ever need to carry
// the handle, never to intern or mint one, so tast depends on no name
// table implementation — callers pass already-interned refs in.
type NameRef uint32

// ---- Local ----

type Local struct {
	base
	Name NameRef
}

// ---- UnresolvedIdent ----

type IdentBinding int

const (
	BindingLocal IdentBinding = iota
	BindingInstance
	BindingClass
	BindingGlobal
)

type UnresolvedIdent struct {
	base
	Binding IdentBinding
	Name    NameRef
}

// ---- UnresolvedConstantLit / ConstantLit ----

type UnresolvedConstantLit struct {
	base
	Scope Expression
	Name  NameRef
}

type ConstantLit struct {
	base
	Symbol NameRef
}

// ---- Self ----

type Self struct {
	base
}

// ---- Assign ----

type Assign struct {
	base
	Lhs Expression // always a reference form: Local / UnresolvedIdent / UnresolvedConstantLit
	Rhs Expression
}

// ---- Send ----

type SendFlags uint8

const (
	// PrivateOK is set when the receiver was implicit, i.e. the call
	// may dispatch to a private method (spec.md §4.2.1 "Send (method
	// call) with implicit receiver").
	PrivateOK SendFlags = 1 << iota
)

func (f SendFlags) Has(flag SendFlags) bool { return f&flag != 0 }

type Send struct {
	base
	Receiver Expression
	Method   NameRef
	Args     []Expression
	Block    *Block // nil if no block was passed
	Flags    SendFlags
}

// ---- Block ----

type Block struct {
	base
	Params []Expression // parameter leaves, see RestArg/KeywordArg/OptionalArg/BlockArg/ShadowArg
	Body   Expression
}

// ---- MethodDef ----

type MethodDefFlags uint8

const (
	// SelfMethod is set when the surface form was `def self.m`.
	SelfMethod MethodDefFlags = 1 << iota
	// RewriterSynthesized marks a MethodDef minted by a C8 rewriter
	// pass rather than produced directly by desugar.
	RewriterSynthesized
)

func (f MethodDefFlags) Has(flag MethodDefFlags) bool { return f&flag != 0 }

type MethodDef struct {
	base
	Name   NameRef
	Params []Expression // empty, or ends with exactly one *BlockArg
	Body   Expression
	Flags  MethodDefFlags
}

// ---- ClassDef ----

type ClassKind int

const (
	ClassKindClass ClassKind = iota
	ClassKindModule
)

type ClassDef struct {
	base
	Name      Expression // reference form naming the class/module
	Ancestors []Expression
	Body      []Expression
	Kind      ClassKind
}

// ---- control flow ----

type If struct {
	base
	Cond, Then, Else Expression
}

type While struct {
	base
	Cond, Body Expression
}

type Return struct {
	base
	Expr Expression
}

type Break struct {
	base
	Expr Expression
}

type Next struct {
	base
	Expr Expression
}

type Retry struct {
	base
}

type RescueCase struct {
	base
	Classes []Expression
	Var     Expression // always a reference form, possibly a fresh temp
	Body    Expression
}

type Rescue struct {
	base
	Body    Expression
	Cases   []RescueCase
	Else    Expression
	Ensure  Expression
}

// ---- containers ----

type Array struct {
	base
	Elems []Expression
}

type Hash struct {
	base
	Keys   []Expression
	Values []Expression
}

// ---- sequencing / placeholders ----

type InsSeq struct {
	base
	Stats []Expression
	Expr  Expression
}

type EmptyTree struct {
	base
}

type ZSuperArgs struct {
	base
}

// ---- parameter leaves ----
// Local-shaped nodes wrapped to denote a parameter's role, spec.md §3.2.

type RestArg struct {
	base
	Name NameRef
}

type KeywordArg struct {
	base
	Name NameRef
}

// OptionalArg has a default-value expression, evaluated at call time
// when the argument was omitted.
type OptionalArg struct {
	base
	Name    NameRef
	Default Expression
}

type BlockArg struct {
	base
	Name NameRef
}

type ShadowArg struct {
	base
	Name NameRef
}
