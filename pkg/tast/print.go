package tast

import (
	"fmt"
	"io"
	"strconv"

	asciitree "github.com/thediveo/go-asciitree"

	"github.com/spicery/nutmeg-desugar/pkg/names"
)

// asciiNode mirrors the teacher's pkg/parser AsciiNode shape exactly
// (Label/Props/Children struct tags go-asciitree's reflection-based
// renderer looks for): one label per TAST node, its scalar fields
// rendered as "key: value" properties, its Expression-valued fields
// recursed into as children.
type asciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []asciiNode `asciitree:"children"`
}

// Print renders expr as an ASCII tree to w, resolving every NameRef
// through table the way the CLI's -format ASCIITREE option does. trim,
// if positive, truncates each displayed spelling to that many runes
// (plus an ellipsis), mirroring the teacher's -trim flag.
func Print(w io.Writer, table names.Table, expr Expression, trim int) {
	fmt.Fprintln(w, asciitree.RenderFancy(toAsciiNode(printCtx{table, trim}, expr)))
}

type printCtx struct {
	table names.Table
	trim  int
}

func show(ctx printCtx, ref NameRef) string {
	s := ctx.table.Show(names.NameRef(ref))
	r := []rune(s)
	if ctx.trim <= 0 || len(r) <= ctx.trim {
		return s
	}
	if ctx.trim >= 1 {
		return string(r[:ctx.trim]) + "…"
	}
	return s
}

func toAsciiNode(ctx printCtx, expr Expression) asciiNode {
	if expr == nil {
		return asciiNode{Label: "<nil>"}
	}
	switch n := expr.(type) {
	case *Literal:
		return literalNode(ctx, n)
	case *Local:
		return asciiNode{Label: "Local", Props: []string{"name: " + show(ctx, n.Name)}}
	case *UnresolvedIdent:
		return asciiNode{Label: "UnresolvedIdent", Props: []string{"binding: " + bindingString(n.Binding), "name: " + show(ctx, n.Name)}}
	case *UnresolvedConstantLit:
		return asciiNode{Label: "UnresolvedConstantLit", Props: []string{"name: " + show(ctx, n.Name)}, Children: []asciiNode{toAsciiNode(ctx, n.Scope)}}
	case *ConstantLit:
		return asciiNode{Label: "ConstantLit", Props: []string{"symbol: " + show(ctx, n.Symbol)}}
	case *Self:
		return asciiNode{Label: "Self"}
	case *Assign:
		return asciiNode{Label: "Assign", Children: []asciiNode{toAsciiNode(ctx, n.Lhs), toAsciiNode(ctx, n.Rhs)}}
	case *Send:
		return sendNode(ctx, n)
	case *Block:
		children := make([]asciiNode, 0, len(n.Params)+1)
		for _, p := range n.Params {
			children = append(children, toAsciiNode(ctx, p))
		}
		children = append(children, toAsciiNode(ctx, n.Body))
		return asciiNode{Label: "Block", Children: children}
	case *MethodDef:
		children := make([]asciiNode, 0, len(n.Params)+1)
		for _, p := range n.Params {
			children = append(children, toAsciiNode(ctx, p))
		}
		children = append(children, toAsciiNode(ctx, n.Body))
		return asciiNode{Label: "MethodDef", Props: []string{"name: " + show(ctx, n.Name), "flags: " + strconv.Itoa(int(n.Flags))}, Children: children}
	case *ClassDef:
		children := make([]asciiNode, 0, 1+len(n.Ancestors)+len(n.Body))
		children = append(children, toAsciiNode(ctx, n.Name))
		for _, a := range n.Ancestors {
			children = append(children, toAsciiNode(ctx, a))
		}
		for _, b := range n.Body {
			children = append(children, toAsciiNode(ctx, b))
		}
		return asciiNode{Label: "ClassDef", Props: []string{"kind: " + classKindString(n.Kind)}, Children: children}
	case *If:
		return asciiNode{Label: "If", Children: []asciiNode{toAsciiNode(ctx, n.Cond), toAsciiNode(ctx, n.Then), toAsciiNode(ctx, n.Else)}}
	case *While:
		return asciiNode{Label: "While", Children: []asciiNode{toAsciiNode(ctx, n.Cond), toAsciiNode(ctx, n.Body)}}
	case *Return:
		return asciiNode{Label: "Return", Children: []asciiNode{toAsciiNode(ctx, n.Expr)}}
	case *Break:
		return asciiNode{Label: "Break", Children: []asciiNode{toAsciiNode(ctx, n.Expr)}}
	case *Next:
		return asciiNode{Label: "Next", Children: []asciiNode{toAsciiNode(ctx, n.Expr)}}
	case *Retry:
		return asciiNode{Label: "Retry"}
	case *Rescue:
		children := []asciiNode{toAsciiNode(ctx, n.Body)}
		for _, c := range n.Cases {
			caseChildren := make([]asciiNode, 0, len(c.Classes)+2)
			for _, cls := range c.Classes {
				caseChildren = append(caseChildren, toAsciiNode(ctx, cls))
			}
			caseChildren = append(caseChildren, toAsciiNode(ctx, c.Var), toAsciiNode(ctx, c.Body))
			children = append(children, asciiNode{Label: "RescueCase", Children: caseChildren})
		}
		children = append(children, toAsciiNode(ctx, n.Else), toAsciiNode(ctx, n.Ensure))
		return asciiNode{Label: "Rescue", Children: children}
	case *Array:
		children := make([]asciiNode, 0, len(n.Elems))
		for _, e := range n.Elems {
			children = append(children, toAsciiNode(ctx, e))
		}
		return asciiNode{Label: "Array", Children: children}
	case *Hash:
		children := make([]asciiNode, 0, len(n.Keys)*2)
		for i := range n.Keys {
			children = append(children, toAsciiNode(ctx, n.Keys[i]), toAsciiNode(ctx, n.Values[i]))
		}
		return asciiNode{Label: "Hash", Children: children}
	case *InsSeq:
		children := make([]asciiNode, 0, len(n.Stats)+1)
		for _, s := range n.Stats {
			children = append(children, toAsciiNode(ctx, s))
		}
		children = append(children, toAsciiNode(ctx, n.Expr))
		return asciiNode{Label: "InsSeq", Children: children}
	case *EmptyTree:
		return asciiNode{Label: "EmptyTree"}
	case *ZSuperArgs:
		return asciiNode{Label: "ZSuperArgs"}
	case *RestArg:
		return asciiNode{Label: "RestArg", Props: []string{"name: " + show(ctx, n.Name)}}
	case *KeywordArg:
		return asciiNode{Label: "KeywordArg", Props: []string{"name: " + show(ctx, n.Name)}}
	case *OptionalArg:
		return asciiNode{Label: "OptionalArg", Props: []string{"name: " + show(ctx, n.Name)}, Children: []asciiNode{toAsciiNode(ctx, n.Default)}}
	case *BlockArg:
		return asciiNode{Label: "BlockArg", Props: []string{"name: " + show(ctx, n.Name)}}
	case *ShadowArg:
		return asciiNode{Label: "ShadowArg", Props: []string{"name: " + show(ctx, n.Name)}}
	default:
		return asciiNode{Label: fmt.Sprintf("<unknown %T>", n)}
	}
}

func literalNode(ctx printCtx, n *Literal) asciiNode {
	switch n.Kind {
	case LitInt:
		return asciiNode{Label: "Literal", Props: []string{"kind: int", "value: " + strconv.FormatInt(n.Int, 10)}}
	case LitFloat:
		return asciiNode{Label: "Literal", Props: []string{"kind: float", "value: " + strconv.FormatFloat(n.Float, 'g', -1, 64)}}
	case LitString:
		return asciiNode{Label: "Literal", Props: []string{"kind: string", "value: " + show(ctx, n.Str)}}
	case LitSymbol:
		return asciiNode{Label: "Literal", Props: []string{"kind: symbol", "value: " + show(ctx, n.Str)}}
	case LitBool:
		return asciiNode{Label: "Literal", Props: []string{"kind: bool", "value: " + strconv.FormatBool(n.Bool)}}
	default:
		return asciiNode{Label: "Literal", Props: []string{"kind: nil"}}
	}
}

func sendNode(ctx printCtx, n *Send) asciiNode {
	children := make([]asciiNode, 0, len(n.Args)+2)
	children = append(children, toAsciiNode(ctx, n.Receiver))
	for _, a := range n.Args {
		children = append(children, toAsciiNode(ctx, a))
	}
	if n.Block != nil {
		children = append(children, toAsciiNode(ctx, n.Block))
	}
	return asciiNode{Label: "Send", Props: []string{"method: " + show(ctx, n.Method), "flags: " + strconv.Itoa(int(n.Flags))}, Children: children}
}

func bindingString(b IdentBinding) string {
	switch b {
	case BindingInstance:
		return "instance"
	case BindingClass:
		return "class"
	case BindingGlobal:
		return "global"
	default:
		return "local"
	}
}

func classKindString(k ClassKind) string {
	if k == ClassKindModule {
		return "module"
	}
	return "class"
}
