package parsetree

import (
	"fmt"
	"strconv"

	"github.com/spicery/nutmeg-desugar/pkg/common"
)

// WireNode is the JSON transport shape cmd/nutmeg-desugar reads from
// stdin: a tagged node with a string-keyed option bag and an ordered
// child list, the same Name/Options/Children envelope the teacher's
// pkg/common.Node used for its own generic-tree JSON pipe (see the
// deleted pkg/common/node.go, recorded in DESIGN.md) — kept as a
// standalone type here since the vocabulary of Name values and the
// meaning of Options is entirely different: this core's surface
// grammar is a Ruby/Sorbet-shaped tree, nothing like the teacher's own
// "nutmeg" expression language. Begin/End are byte offsets (parsetree
// locations are byte ranges, not the teacher's line/column Span), sent
// as Options entries rather than a dedicated field; an upstream parser
// that has no position info simply omits them.
type WireNode struct {
	Name     string
	Options  map[string]string
	Children []*WireNode
}

// listNode is the Name a WireNode uses to wrap an ordered,
// variable-length list of children (e.g. Send.Args, ArrayLit.Elems):
// its own Options are empty and its Children are the list elements in
// order.
const listNode = "List"

// FromCommonNode decodes one JSON-transported WireNode tree, produced
// by an upstream parser, into a parsetree.Node. file is the FileRef
// every decoded node's Loc will carry; byte offsets come from the
// "begin"/"end" options when present, defaulting to the zero range.
func FromCommonNode(file common.FileRef, n *WireNode) (Node, error) {
	if n == nil {
		return nil, nil
	}
	loc := locOf(file, n)
	switch n.Name {
	case "Ident":
		return &Ident{base{loc}, refKind(n.Options["kind"]), n.Options["name"]}, nil
	case "Const":
		scope, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Const{base{loc}, scope, boolOpt(n, "root"), n.Options["name"]}, nil
	case "SelfLit":
		return &SelfLit{base{loc}}, nil
	case "BoolLit":
		return &BoolLit{base{loc}, boolOpt(n, "value")}, nil
	case "NilLit":
		return &NilLit{base{loc}}, nil
	case "IntLit":
		return &IntLit{base{loc}, n.Options["text"]}, nil
	case "FloatLit":
		return &FloatLit{base{loc}, n.Options["text"]}, nil
	case "RationalLit":
		return &RationalLit{base{loc}, n.Options["text"]}, nil
	case "ComplexLit":
		return &ComplexLit{base{loc}, n.Options["text"]}, nil
	case "StringLit":
		return &StringLit{base{loc}, n.Options["value"]}, nil
	case "SymbolLit":
		return &SymbolLit{base{loc}, n.Options["value"]}, nil
	case "DString":
		parts, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &DString{base{loc}, parts}, nil
	case "DSymbol":
		parts, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &DSymbol{base{loc}, parts}, nil
	case "RegexpLit":
		source, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &RegexpLit{base{loc}, source, n.Options["flags"]}, nil
	case "FileLit":
		return &FileLit{base{loc}}, nil
	case "LineLit":
		return &LineLit{base{loc}}, nil
	case "EncodingLit":
		return &EncodingLit{base{loc}}, nil
	case "Splat":
		expr, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Splat{base{loc}, expr}, nil
	case "ArrayLit":
		elems, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &ArrayLit{base{loc}, elems}, nil
	case "Pair":
		key, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		value, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &Pair{base{loc}, key, value}, nil
	case "HashLit":
		pairs, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &HashLit{base{loc}, pairs}, nil
	case "IRange":
		from, to, err := fromTo(file, n)
		if err != nil {
			return nil, err
		}
		return &IRange{base{loc}, from, to}, nil
	case "ERange":
		from, to, err := fromTo(file, n)
		if err != nil {
			return nil, err
		}
		return &ERange{base{loc}, from, to}, nil
	case "Send":
		return decodeSend(file, loc, n)
	case "CSend":
		recv, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		args, err := listAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &CSend{base{loc}, recv, n.Options["method"], args}, nil
	case "CallBlock":
		return decodeCallBlock(file, loc, n)
	case "Args":
		list, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Args{base{loc}, list}, nil
	case "Arg":
		return &Arg{base{loc}, n.Options["name"]}, nil
	case "OptArg":
		def, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &OptArg{base{loc}, n.Options["name"], def}, nil
	case "RestArg":
		return &RestArgNode{base{loc}, n.Options["name"]}, nil
	case "KwArg":
		return &KwArg{base{loc}, n.Options["name"]}, nil
	case "KwOptArg":
		def, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &KwOptArg{base{loc}, n.Options["name"], def}, nil
	case "KwRestArg":
		return &KwRestArgNode{base{loc}, n.Options["name"]}, nil
	case "BlockArg":
		return &BlockArgNode{base{loc}, n.Options["name"]}, nil
	case "ShadowArg":
		return &ShadowArgNode{base{loc}, n.Options["name"]}, nil
	case "Mlhs":
		targets, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Mlhs{base{loc}, targets}, nil
	case "Assign":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &Assign{base{loc}, lhs, rhs}, nil
	case "Masgn":
		lhsNode, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		mlhs, ok := lhsNode.(*Mlhs)
		if lhsNode != nil && !ok {
			return nil, fmt.Errorf("parsetree: Masgn child 0 must be Mlhs, got %T", lhsNode)
		}
		rhs, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &Masgn{base{loc}, mlhs, rhs}, nil
	case "OpAsgn":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &OpAsgn{base{loc}, lhs, n.Options["op"], rhs}, nil
	case "AndAsgn":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &AndAsgn{base{loc}, lhs, rhs}, nil
	case "OrAsgn":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &OrAsgn{base{loc}, lhs, rhs}, nil
	case "And":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &And{base{loc}, lhs, rhs}, nil
	case "Or":
		lhs, rhs, err := lhsRhs(file, n)
		if err != nil {
			return nil, err
		}
		return &Or{base{loc}, lhs, rhs}, nil
	case "If":
		cond, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		then, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		els, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &If{base{loc}, cond, then, els}, nil
	case "While":
		cond, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &While{base{loc}, cond, body, boolOpt(n, "until"), boolOpt(n, "posttest")}, nil
	case "For":
		v, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		iter, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &For{base{loc}, v, iter, body}, nil
	case "Begin":
		stmts, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Begin{base{loc}, stmts}, nil
	case "Return":
		args, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Return{base{loc}, args}, nil
	case "Break":
		args, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &BreakNode{base{loc}, args}, nil
	case "Next":
		args, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &NextNode{base{loc}, args}, nil
	case "Redo":
		return &RedoNode{base{loc}}, nil
	case "Retry":
		return &Retry{base{loc}}, nil
	case "When":
		patterns, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &When{base{loc}, patterns, body}, nil
	case "RescueBody":
		classes, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		v, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &RescueBody{base{loc}, classes, v, body}, nil
	case "Case":
		return decodeCase(file, loc, n)
	case "Rescue":
		return decodeRescue(file, loc, n)
	case "Ensure":
		body, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		ensure, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &EnsureNode{base{loc}, body, ensure}, nil
	case "Super":
		args, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		block, err := blockAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		blockPass, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &Super{base{loc}, args, block, blockPass}, nil
	case "ZSuper":
		return &ZSuper{base{loc}}, nil
	case "Yield":
		args, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Yield{base{loc}, args}, nil
	case "Defined":
		expr, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &Defined{base{loc}, expr}, nil
	case "ClassNode":
		name, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		super, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &ClassNode{base{loc}, name, super, body}, nil
	case "SClass":
		expr, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &SClass{base{loc}, expr, body}, nil
	case "ModuleNode":
		name, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		body, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &ModuleNode{base{loc}, name, body}, nil
	case "Def":
		argsNode, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		args, ok := argsNode.(*Args)
		if argsNode != nil && !ok {
			return nil, fmt.Errorf("parsetree: Def child 0 must be Args, got %T", argsNode)
		}
		body, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		return &Def{base{loc}, n.Options["name"], args, body}, nil
	case "Defs":
		definee, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		argsNode, err := childAt(file, n, 1)
		if err != nil {
			return nil, err
		}
		args, ok := argsNode.(*Args)
		if argsNode != nil && !ok {
			return nil, fmt.Errorf("parsetree: Defs child 1 must be Args, got %T", argsNode)
		}
		body, err := childAt(file, n, 2)
		if err != nil {
			return nil, err
		}
		return &Defs{base{loc}, definee, n.Options["name"], args, body}, nil
	case "Alias":
		newN, oldN, err := fromTo(file, n)
		if err != nil {
			return nil, err
		}
		return &Alias{base{loc}, newN, oldN}, nil
	case "Undef":
		names, err := listAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &UndefNode{base{loc}, names}, nil
	case "BeginBlock":
		body, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &BeginBlock{base{loc}, body}, nil
	case "EndBlock":
		body, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &EndBlock{base{loc}, body}, nil
	case "BackRef":
		return &BackRef{base{loc}, n.Options["text"]}, nil
	case "FlipFlop":
		from, to, err := fromTo(file, n)
		if err != nil {
			return nil, err
		}
		return &FlipFlop{base{loc}, from, to, boolOpt(n, "exclusive")}, nil
	case "BlockPassOperand":
		expr, err := childAt(file, n, 0)
		if err != nil {
			return nil, err
		}
		return &BlockPassOperand{base{loc}, expr}, nil
	default:
		return nil, fmt.Errorf("parsetree: unrecognized wire node %q", n.Name)
	}
}

func decodeSend(file common.FileRef, loc common.Loc, n *WireNode) (Node, error) {
	recv, err := childAt(file, n, 0)
	if err != nil {
		return nil, err
	}
	args, err := listAt(file, n, 1)
	if err != nil {
		return nil, err
	}
	block, err := blockAt(file, n, 2)
	if err != nil {
		return nil, err
	}
	blockPass, err := childAt(file, n, 3)
	if err != nil {
		return nil, err
	}
	return &Send{base{loc}, recv, n.Options["method"], args, block, blockPass}, nil
}

func decodeCallBlock(file common.FileRef, loc common.Loc, n *WireNode) (Node, error) {
	paramsNode, err := childAt(file, n, 0)
	if err != nil {
		return nil, err
	}
	params, ok := paramsNode.(*Args)
	if paramsNode != nil && !ok {
		return nil, fmt.Errorf("parsetree: CallBlock child 0 must be Args, got %T", paramsNode)
	}
	body, err := childAt(file, n, 1)
	if err != nil {
		return nil, err
	}
	return &CallBlock{base{loc}, params, body}, nil
}

func decodeCase(file common.FileRef, loc common.Loc, n *WireNode) (Node, error) {
	cond, err := childAt(file, n, 0)
	if err != nil {
		return nil, err
	}
	whensNode, err := listAt(file, n, 1)
	if err != nil {
		return nil, err
	}
	whens := make([]*When, 0, len(whensNode))
	for _, w := range whensNode {
		wn, ok := w.(*When)
		if w != nil && !ok {
			return nil, fmt.Errorf("parsetree: Case arm must be When, got %T", w)
		}
		whens = append(whens, wn)
	}
	els, err := childAt(file, n, 2)
	if err != nil {
		return nil, err
	}
	return &Case{base{loc}, cond, whens, els}, nil
}

func decodeRescue(file common.FileRef, loc common.Loc, n *WireNode) (Node, error) {
	body, err := childAt(file, n, 0)
	if err != nil {
		return nil, err
	}
	rescuesNode, err := listAt(file, n, 1)
	if err != nil {
		return nil, err
	}
	rescues := make([]*RescueBody, 0, len(rescuesNode))
	for _, r := range rescuesNode {
		rn, ok := r.(*RescueBody)
		if r != nil && !ok {
			return nil, fmt.Errorf("parsetree: Rescue arm must be RescueBody, got %T", r)
		}
		rescues = append(rescues, rn)
	}
	els, err := childAt(file, n, 2)
	if err != nil {
		return nil, err
	}
	return &RescueNode{base{loc}, body, rescues, els}, nil
}

// ---- shared decode helpers ----

func locOf(file common.FileRef, n *WireNode) common.Loc {
	begin, _ := strconv.ParseUint(n.Options["begin"], 10, 32)
	end, _ := strconv.ParseUint(n.Options["end"], 10, 32)
	return common.Loc{File: file, Begin: uint32(begin), End: uint32(end)}
}

func boolOpt(n *WireNode, key string) bool {
	v, ok := n.Options[key]
	return ok && v == "true"
}

func refKind(s string) RefKind {
	switch s {
	case "instance":
		return RefInstance
	case "global":
		return RefGlobal
	case "class":
		return RefClass
	default:
		return RefLocal
	}
}

func childAt(file common.FileRef, n *WireNode, i int) (Node, error) {
	if i >= len(n.Children) {
		return nil, nil
	}
	return FromCommonNode(file, n.Children[i])
}

func listAt(file common.FileRef, n *WireNode, i int) ([]Node, error) {
	if i >= len(n.Children) || n.Children[i] == nil {
		return nil, nil
	}
	wrapper := n.Children[i]
	if wrapper.Name != listNode {
		return nil, fmt.Errorf("parsetree: expected %s wrapper at child %d of %s, got %q", listNode, i, n.Name, wrapper.Name)
	}
	out := make([]Node, 0, len(wrapper.Children))
	for _, c := range wrapper.Children {
		decoded, err := FromCommonNode(file, c)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// blockAt decodes an optional *CallBlock child, used by Send/Super.
func blockAt(file common.FileRef, n *WireNode, i int) (*CallBlock, error) {
	node, err := childAt(file, n, i)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	cb, ok := node.(*CallBlock)
	if !ok {
		return nil, fmt.Errorf("parsetree: expected CallBlock at child %d of %s, got %T", i, n.Name, node)
	}
	return cb, nil
}

func fromTo(file common.FileRef, n *WireNode) (Node, Node, error) {
	from, err := childAt(file, n, 0)
	if err != nil {
		return nil, nil, err
	}
	to, err := childAt(file, n, 1)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func lhsRhs(file common.FileRef, n *WireNode) (Node, Node, error) {
	return fromTo(file, n)
}
