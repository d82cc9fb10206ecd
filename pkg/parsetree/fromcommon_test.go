package parsetree

import (
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/common"
)

const testFile common.FileRef = 1

func TestFromCommonNodeNilIsNil(t *testing.T) {
	node, err := FromCommonNode(testFile, nil)
	if err != nil || node != nil {
		t.Fatalf("expected (nil, nil), got (%#v, %v)", node, err)
	}
}

func TestFromCommonNodeLocUsesBeginEndOptions(t *testing.T) {
	n := &WireNode{Name: "SelfLit", Options: map[string]string{"begin": "10", "end": "14"}}
	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loc := node.Loc()
	if loc.File != testFile || loc.Begin != 10 || loc.End != 14 {
		t.Errorf("unexpected loc: %+v", loc)
	}
}

func TestFromCommonNodeLocDefaultsToZeroRange(t *testing.T) {
	n := &WireNode{Name: "SelfLit"}
	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loc := node.Loc()
	if loc.Begin != 0 || loc.End != 0 {
		t.Errorf("expected a zero-length range when begin/end are absent, got %+v", loc)
	}
}

func TestFromCommonNodeIdentDecodesKindAndName(t *testing.T) {
	n := &WireNode{Name: "Ident", Options: map[string]string{"kind": "instance", "name": "@count"}}
	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ident, ok := node.(*Ident)
	if !ok || ident.Kind != RefInstance || ident.Name != "@count" {
		t.Fatalf("unexpected decode: %#v", node)
	}
}

func TestFromCommonNodeIdentUnrecognizedKindDefaultsLocal(t *testing.T) {
	n := &WireNode{Name: "Ident", Options: map[string]string{"kind": "bogus", "name": "x"}}
	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ident := node.(*Ident)
	if ident.Kind != RefLocal {
		t.Errorf("expected an unrecognized kind option to default to RefLocal, got %v", ident.Kind)
	}
}

func TestFromCommonNodeBoolLitDecodesValue(t *testing.T) {
	n := &WireNode{Name: "BoolLit", Options: map[string]string{"value": "true"}}
	node, _ := FromCommonNode(testFile, n)
	if b := node.(*BoolLit); !b.Value {
		t.Errorf("expected Value true")
	}

	n = &WireNode{Name: "BoolLit", Options: map[string]string{"value": "false"}}
	node, _ = FromCommonNode(testFile, n)
	if b := node.(*BoolLit); b.Value {
		t.Errorf("expected Value false")
	}
}

func TestFromCommonNodeArrayLitDecodesElemsList(t *testing.T) {
	elem1 := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	elem2 := &WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	n := &WireNode{Name: "ArrayLit", Children: []*WireNode{{Name: listNode, Children: []*WireNode{elem1, elem2}}}}

	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := node.(*ArrayLit)
	if len(arr.Elems) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(arr.Elems))
	}
	if arr.Elems[0].(*IntLit).Text != "1" || arr.Elems[1].(*IntLit).Text != "2" {
		t.Errorf("unexpected elements: %#v", arr.Elems)
	}
}

func TestFromCommonNodeListAtRejectsNonListWrapper(t *testing.T) {
	bogusWrapper := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &WireNode{Name: "ArrayLit", Children: []*WireNode{bogusWrapper}}

	_, err := FromCommonNode(testFile, n)
	if err == nil {
		t.Fatalf("expected an error when child 0 is not a List wrapper")
	}
}

func TestFromCommonNodeSendDecodesReceiverArgsBlockAndBlockPass(t *testing.T) {
	recv := &WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "x"}}
	arg := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	params := &WireNode{Name: "Args", Children: []*WireNode{{Name: listNode}}}
	blockBody := &WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	block := &WireNode{Name: "CallBlock", Children: []*WireNode{params, blockBody}}

	n := &WireNode{
		Name:    "Send",
		Options: map[string]string{"method": "each"},
		Children: []*WireNode{
			recv,
			{Name: listNode, Children: []*WireNode{arg}},
			block,
		},
	}

	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	send := node.(*Send)
	if send.Method != "each" {
		t.Errorf("unexpected method: %q", send.Method)
	}
	if _, ok := send.Receiver.(*Ident); !ok {
		t.Errorf("unexpected receiver: %#v", send.Receiver)
	}
	if len(send.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(send.Args))
	}
	if send.Block == nil {
		t.Fatalf("expected a decoded block")
	}
	if send.BlockPass != nil {
		t.Errorf("expected no block-pass, got %#v", send.BlockPass)
	}
}

func TestFromCommonNodeSendWithNilReceiverIsImplicit(t *testing.T) {
	n := &WireNode{
		Name:     "Send",
		Options:  map[string]string{"method": "puts"},
		Children: []*WireNode{nil, {Name: listNode}},
	}
	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	send := node.(*Send)
	if send.Receiver != nil {
		t.Errorf("expected a nil receiver for an implicit-receiver send, got %#v", send.Receiver)
	}
}

func TestFromCommonNodeDefRejectsNonArgsChild(t *testing.T) {
	badArgs := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	body := &WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	n := &WireNode{Name: "Def", Options: map[string]string{"name": "m"}, Children: []*WireNode{badArgs, body}}

	_, err := FromCommonNode(testFile, n)
	if err == nil {
		t.Fatalf("expected an error when Def child 0 is not an Args node")
	}
}

func TestFromCommonNodeMasgnRejectsNonMlhsChild(t *testing.T) {
	badLhs := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	rhs := &WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	n := &WireNode{Name: "Masgn", Children: []*WireNode{badLhs, rhs}}

	_, err := FromCommonNode(testFile, n)
	if err == nil {
		t.Fatalf("expected an error when Masgn child 0 is not an Mlhs node")
	}
}

func TestFromCommonNodeUnrecognizedNameIsAnError(t *testing.T) {
	n := &WireNode{Name: "NotARealNodeKind"}
	_, err := FromCommonNode(testFile, n)
	if err == nil {
		t.Fatalf("expected an error for an unrecognized wire node name")
	}
}

func TestFromCommonNodeClassNodeWithoutSuperclass(t *testing.T) {
	name := &WireNode{Name: "Const", Options: map[string]string{"name": "Foo"}}
	body := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &WireNode{Name: "ClassNode", Children: []*WireNode{name, nil, body}}

	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cn := node.(*ClassNode)
	if cn.Superclass != nil {
		t.Errorf("expected a nil superclass, got %#v", cn.Superclass)
	}
}

func TestFromCommonNodeWhileDecodesUntilAndPosttest(t *testing.T) {
	cond := &WireNode{Name: "BoolLit", Options: map[string]string{"value": "true"}}
	body := &WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &WireNode{Name: "While", Options: map[string]string{"until": "true", "posttest": "true"}, Children: []*WireNode{cond, body}}

	node, err := FromCommonNode(testFile, n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := node.(*While)
	if !w.Until || !w.PostTest {
		t.Errorf("expected Until and PostTest both true, got %+v", w)
	}
}
