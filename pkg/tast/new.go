package tast

import "github.com/spicery/nutmeg-desugar/pkg/common"

// This file holds one plain constructor per variant: set the fields,
// set the Loc, done. Invariant enforcement (e.g. "a MethodDef's params
// end with a BlockArg") lives one layer up, in pkg/mk, which composes
// these; keeping the two separate means pkg/verifier's structural
// checks and pkg/mk's construction-time checks can be tested against
// the same plain constructors without fighting each other.

func NewLiteralInt(loc common.Loc, v int64) *Literal {
	return &Literal{base: base{loc}, Kind: LitInt, Int: v}
}

func NewLiteralFloat(loc common.Loc, v float64) *Literal {
	return &Literal{base: base{loc}, Kind: LitFloat, Float: v}
}

func NewLiteralString(loc common.Loc, s NameRef) *Literal {
	return &Literal{base: base{loc}, Kind: LitString, Str: s}
}

func NewLiteralSymbol(loc common.Loc, s NameRef) *Literal {
	return &Literal{base: base{loc}, Kind: LitSymbol, Str: s}
}

func NewLiteralBool(loc common.Loc, v bool) *Literal {
	return &Literal{base: base{loc}, Kind: LitBool, Bool: v}
}

func NewLiteralNil(loc common.Loc) *Literal {
	return &Literal{base: base{loc}, Kind: LitNil}
}

func NewLocal(loc common.Loc, name NameRef) *Local {
	return &Local{base: base{loc}, Name: name}
}

func NewUnresolvedIdent(loc common.Loc, binding IdentBinding, name NameRef) *UnresolvedIdent {
	return &UnresolvedIdent{base: base{loc}, Binding: binding, Name: name}
}

func NewUnresolvedConstantLit(loc common.Loc, scope Expression, name NameRef) *UnresolvedConstantLit {
	return &UnresolvedConstantLit{base: base{loc}, Scope: scope, Name: name}
}

func NewConstantLit(loc common.Loc, symbol NameRef) *ConstantLit {
	return &ConstantLit{base: base{loc}, Symbol: symbol}
}

func NewSelf(loc common.Loc) *Self {
	return &Self{base: base{loc}}
}

func NewAssign(loc common.Loc, lhs, rhs Expression) *Assign {
	return &Assign{base: base{loc}, Lhs: lhs, Rhs: rhs}
}

func NewSend(loc common.Loc, recv Expression, method NameRef, args []Expression, block *Block, flags SendFlags) *Send {
	return &Send{base: base{loc}, Receiver: recv, Method: method, Args: args, Block: block, Flags: flags}
}

func NewBlock(loc common.Loc, params []Expression, body Expression) *Block {
	return &Block{base: base{loc}, Params: params, Body: body}
}

func NewMethodDef(loc common.Loc, name NameRef, params []Expression, body Expression, flags MethodDefFlags) *MethodDef {
	return &MethodDef{base: base{loc}, Name: name, Params: params, Body: body, Flags: flags}
}

func NewClassDef(loc common.Loc, name Expression, ancestors []Expression, body []Expression, kind ClassKind) *ClassDef {
	return &ClassDef{base: base{loc}, Name: name, Ancestors: ancestors, Body: body, Kind: kind}
}

func NewIf(loc common.Loc, cond, then, els Expression) *If {
	return &If{base: base{loc}, Cond: cond, Then: then, Else: els}
}

func NewWhile(loc common.Loc, cond, body Expression) *While {
	return &While{base: base{loc}, Cond: cond, Body: body}
}

func NewReturn(loc common.Loc, expr Expression) *Return {
	return &Return{base: base{loc}, Expr: expr}
}

func NewBreak(loc common.Loc, expr Expression) *Break {
	return &Break{base: base{loc}, Expr: expr}
}

func NewNext(loc common.Loc, expr Expression) *Next {
	return &Next{base: base{loc}, Expr: expr}
}

func NewRetry(loc common.Loc) *Retry {
	return &Retry{base: base{loc}}
}

func NewRescueCase(loc common.Loc, classes []Expression, v Expression, body Expression) RescueCase {
	return RescueCase{base: base{loc}, Classes: classes, Var: v, Body: body}
}

func NewRescue(loc common.Loc, body Expression, cases []RescueCase, els, ensure Expression) *Rescue {
	return &Rescue{base: base{loc}, Body: body, Cases: cases, Else: els, Ensure: ensure}
}

func NewArray(loc common.Loc, elems []Expression) *Array {
	return &Array{base: base{loc}, Elems: elems}
}

func NewHash(loc common.Loc, keys, values []Expression) *Hash {
	return &Hash{base: base{loc}, Keys: keys, Values: values}
}

func NewInsSeq(loc common.Loc, stats []Expression, expr Expression) *InsSeq {
	return &InsSeq{base: base{loc}, Stats: stats, Expr: expr}
}

func NewEmptyTree() *EmptyTree {
	return &EmptyTree{}
}

func NewZSuperArgs(loc common.Loc) *ZSuperArgs {
	return &ZSuperArgs{base: base{loc}}
}

func NewRestArg(loc common.Loc, name NameRef) *RestArg {
	return &RestArg{base: base{loc}, Name: name}
}

func NewKeywordArg(loc common.Loc, name NameRef) *KeywordArg {
	return &KeywordArg{base: base{loc}, Name: name}
}

func NewOptionalArg(loc common.Loc, name NameRef, def Expression) *OptionalArg {
	return &OptionalArg{base: base{loc}, Name: name, Default: def}
}

func NewBlockArg(loc common.Loc, name NameRef) *BlockArg {
	return &BlockArg{base: base{loc}, Name: name}
}

func NewShadowArg(loc common.Loc, name NameRef) *ShadowArg {
	return &ShadowArg{base: base{loc}, Name: name}
}
