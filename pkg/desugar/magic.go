package desugar

// Well-known runtime pseudo-module and method names the desugarer
// hard-wires into the TAST, per spec.md §2 GLOSSARY ("Magic") and the
// individual lowering rules of §4.2.1.
const (
	magicModule           = "Magic"
	magicCallWithSplat    = "callWithSplat"
	magicCallWithSplatBlk = "callWithSplatAndBlock"
	magicCallWithBlock    = "callWithBlock"
	magicExpandSplat      = "expandSplat"
	magicDefined          = "defined?"
	magicSelfNew          = "<self-new>"
	magicAliasMethod      = "<alias-method>"

	rangeModule  = "Range"
	regexpModule = "Regexp"
	rootScope   = "<root>"
	kernelMod   = "Kernel"
	todoConst   = "todo"
	singletonCN = "<singleton>"

	methodToS            = "to_s"
	methodConcat         = "concat"
	methodIntern         = "intern"
	methodCall           = "call"
	methodEqEq           = "=="
	methodEqEqEq         = "==="
	methodSlice          = "slice"
	methodSquareBrackets = "[]"
	methodToA            = "to_a"
	methodToH            = "to_h"
	methodMerge          = "merge"
	methodNew            = "new"
	methodRational       = "Rational"
	methodComplex        = "Complex"
	methodSuper          = "super"
	methodExtend         = "extend"
	methodAbstract       = "abstract!"
	methodSealed         = "sealed!"
	methodFinal          = "final!"
	methodInstance       = "instance"
	methodConstSet       = "const_set"
	methodBang           = "!"
	methodEach           = "each"
)
