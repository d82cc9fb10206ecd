package desugar

import (
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/diagnostics"
	"github.com/spicery/nutmeg-desugar/pkg/files"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// setup builds a fresh DesugarContext pointed at one registered file,
// along with the name table and diagnostic collector backing it.
func setup(t *testing.T) (DesugarContext, *names.MemTable, *diagnostics.Collector, common.FileRef) {
	t.Helper()
	table := names.NewMemTable()
	diag := diagnostics.NewCollector()
	fileDB := files.NewMemDB()
	file := fileDB.AddFile(&files.File{Path: "foo.rb", Source: "line one\nline two\n"})
	dctx := NewContext(table, diag, fileDB, file, Flags{})
	return dctx, table, diag, file
}

func list(children ...*parsetree.WireNode) *parsetree.WireNode {
	return &parsetree.WireNode{Name: "List", Children: children}
}

func decode(t *testing.T, file common.FileRef, n *parsetree.WireNode) parsetree.Node {
	t.Helper()
	if n == nil {
		return nil
	}
	node, err := parsetree.FromCommonNode(file, n)
	if err != nil {
		t.Fatalf("FromCommonNode failed: %v", err)
	}
	return node
}

func desugarWire(t *testing.T, dctx DesugarContext, file common.FileRef, n *parsetree.WireNode) tast.Expression {
	t.Helper()
	node := decode(t, file, n)
	out, err := Desugar(dctx, node)
	if err != nil {
		t.Fatalf("Desugar returned an error: %v", err)
	}
	return out
}

func TestDesugarIntLit(t *testing.T) {
	dctx, _, _, file := setup(t)
	n := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "42"}}

	out := desugarWire(t, dctx, file, n)
	lit, ok := out.(*tast.Literal)
	if !ok || lit.Kind != tast.LitInt || lit.Int != 42 {
		t.Fatalf("expected Literal{Kind:LitInt, Int:42}, got %#v", out)
	}
}

func TestDesugarIntLitOutOfRangeEmitsDiagnostic(t *testing.T) {
	dctx, _, diag, file := setup(t)
	n := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "999999999999999999999999999999"}}

	desugarWire(t, dctx, file, n)

	found := false
	for _, d := range diag.Diagnostics {
		if d.Code == diagnostics.IntegerOutOfRange {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an IntegerOutOfRange diagnostic, got %+v", diag.Diagnostics)
	}
}

func TestDesugarStringLit(t *testing.T) {
	dctx, table, _, file := setup(t)
	n := &parsetree.WireNode{Name: "StringLit", Options: map[string]string{"value": "hello"}}

	out := desugarWire(t, dctx, file, n)
	lit, ok := out.(*tast.Literal)
	if !ok || lit.Kind != tast.LitString || table.Show(names.NameRef(lit.Str)) != "hello" {
		t.Fatalf("expected Literal{Kind:LitString, Str:\"hello\"}, got %#v", out)
	}
}

func TestDesugarBoolAndNilLits(t *testing.T) {
	dctx, _, _, file := setup(t)

	out := desugarWire(t, dctx, file, &parsetree.WireNode{Name: "BoolLit", Options: map[string]string{"value": "true"}})
	if lit, ok := out.(*tast.Literal); !ok || lit.Kind != tast.LitBool || !lit.Bool {
		t.Errorf("expected Literal{Kind:LitBool, Bool:true}, got %#v", out)
	}

	out = desugarWire(t, dctx, file, &parsetree.WireNode{Name: "NilLit"})
	if lit, ok := out.(*tast.Literal); !ok || lit.Kind != tast.LitNil {
		t.Errorf("expected Literal{Kind:LitNil}, got %#v", out)
	}
}

func TestDesugarLocalIdent(t *testing.T) {
	dctx, table, _, file := setup(t)
	n := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "x"}}

	out := desugarWire(t, dctx, file, n)
	local, ok := out.(*tast.Local)
	if !ok || table.Show(names.NameRef(local.Name)) != "x" {
		t.Fatalf("expected Local{Name:\"x\"}, got %#v", out)
	}
}

func TestDesugarInstanceIdent(t *testing.T) {
	dctx, table, _, file := setup(t)
	n := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "instance", "name": "@x"}}

	out := desugarWire(t, dctx, file, n)
	ident, ok := out.(*tast.UnresolvedIdent)
	if !ok || ident.Binding != tast.BindingInstance || table.Show(names.NameRef(ident.Name)) != "@x" {
		t.Fatalf("expected instance UnresolvedIdent, got %#v", out)
	}
}

func TestDesugarUnscopedConst(t *testing.T) {
	dctx, table, _, file := setup(t)
	n := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Foo"}}

	out := desugarWire(t, dctx, file, n)
	c, ok := out.(*tast.UnresolvedConstantLit)
	if !ok || table.Show(names.NameRef(c.Name)) != "Foo" {
		t.Fatalf("expected UnresolvedConstantLit{Name:\"Foo\"}, got %#v", out)
	}
	if _, ok := c.Scope.(*tast.EmptyTree); !ok {
		t.Errorf("expected an unscoped Const to carry an EmptyTree scope, got %#v", c.Scope)
	}
}

func TestDesugarScopedConst(t *testing.T) {
	dctx, table, _, file := setup(t)
	inner := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Bar"}}
	outer := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Foo"}, Children: []*parsetree.WireNode{inner}}

	out := desugarWire(t, dctx, file, outer)
	c, ok := out.(*tast.UnresolvedConstantLit)
	if !ok || table.Show(names.NameRef(c.Name)) != "Foo" {
		t.Fatalf("expected UnresolvedConstantLit{Name:\"Foo\"}, got %#v", out)
	}
	scope, ok := c.Scope.(*tast.UnresolvedConstantLit)
	if !ok || table.Show(names.NameRef(scope.Name)) != "Bar" {
		t.Fatalf("expected scope Bar::Foo, got %#v", c.Scope)
	}
}

func TestDesugarLocalAssign(t *testing.T) {
	dctx, table, _, file := setup(t)
	lhs := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "x"}}
	rhs := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "Assign", Children: []*parsetree.WireNode{lhs, rhs}}

	out := desugarWire(t, dctx, file, n)
	assign, ok := out.(*tast.Assign)
	if !ok {
		t.Fatalf("expected an Assign, got %T", out)
	}
	local, ok := assign.Lhs.(*tast.Local)
	if !ok || table.Show(names.NameRef(local.Name)) != "x" {
		t.Fatalf("unexpected assign lhs: %#v", assign.Lhs)
	}
	if lit, ok := assign.Rhs.(*tast.Literal); !ok || lit.Int != 1 {
		t.Fatalf("unexpected assign rhs: %#v", assign.Rhs)
	}
}

func TestDesugarAttributeAssignRewritesToSend(t *testing.T) {
	dctx, table, _, file := setup(t)
	// foo.bar = 1  ->  foo.bar=(1)
	recv := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "foo"}}
	lhs := &parsetree.WireNode{Name: "Send", Options: map[string]string{"method": "bar"}, Children: []*parsetree.WireNode{recv, list()}}
	rhs := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "Assign", Children: []*parsetree.WireNode{lhs, rhs}}

	out := desugarWire(t, dctx, file, n)
	send, ok := out.(*tast.Send)
	if !ok || table.Show(names.NameRef(send.Method)) != "bar=" {
		t.Fatalf("expected a bar= send, got %#v", out)
	}
	if len(send.Args) != 1 {
		t.Fatalf("expected the rhs to become the sole send argument, got %d args", len(send.Args))
	}
}

func TestDesugarImplicitReceiverSendIsPrivateOK(t *testing.T) {
	dctx, table, _, file := setup(t)
	arg := &parsetree.WireNode{Name: "StringLit", Options: map[string]string{"value": "hi"}}
	n := &parsetree.WireNode{Name: "Send", Options: map[string]string{"method": "puts"}, Children: []*parsetree.WireNode{nil, list(arg)}}

	out := desugarWire(t, dctx, file, n)
	send, ok := out.(*tast.Send)
	if !ok || table.Show(names.NameRef(send.Method)) != "puts" {
		t.Fatalf("expected a puts send, got %#v", out)
	}
	if _, ok := send.Receiver.(*tast.Self); !ok {
		t.Fatalf("expected an implicit receiver to desugar to Self, got %#v", send.Receiver)
	}
	if send.Flags&tast.PrivateOK == 0 {
		t.Errorf("expected an implicit-receiver send to carry PrivateOK")
	}
	if len(send.Args) != 1 {
		t.Fatalf("expected one arg, got %d", len(send.Args))
	}
}

func TestDesugarExplicitReceiverSendIsNotPrivateOK(t *testing.T) {
	dctx, _, _, file := setup(t)
	recv := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "x"}}
	n := &parsetree.WireNode{Name: "Send", Options: map[string]string{"method": "m"}, Children: []*parsetree.WireNode{recv, list()}}

	out := desugarWire(t, dctx, file, n)
	send, ok := out.(*tast.Send)
	if !ok {
		t.Fatalf("expected a Send, got %T", out)
	}
	if send.Flags&tast.PrivateOK != 0 {
		t.Errorf("expected an explicit-receiver send to not carry PrivateOK")
	}
}

func TestDesugarIf(t *testing.T) {
	dctx, _, _, file := setup(t)
	cond := &parsetree.WireNode{Name: "BoolLit", Options: map[string]string{"value": "true"}}
	then := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	els := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	n := &parsetree.WireNode{Name: "If", Children: []*parsetree.WireNode{cond, then, els}}

	out := desugarWire(t, dctx, file, n)
	ifExpr, ok := out.(*tast.If)
	if !ok {
		t.Fatalf("expected an If, got %T", out)
	}
	if lit, ok := ifExpr.Then.(*tast.Literal); !ok || lit.Int != 1 {
		t.Errorf("unexpected then-branch: %#v", ifExpr.Then)
	}
	if lit, ok := ifExpr.Else.(*tast.Literal); !ok || lit.Int != 2 {
		t.Errorf("unexpected else-branch: %#v", ifExpr.Else)
	}
}

func TestDesugarIfWithoutElse(t *testing.T) {
	dctx, _, _, file := setup(t)
	cond := &parsetree.WireNode{Name: "BoolLit", Options: map[string]string{"value": "true"}}
	then := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "If", Children: []*parsetree.WireNode{cond, then}}

	out := desugarWire(t, dctx, file, n)
	ifExpr, ok := out.(*tast.If)
	if !ok {
		t.Fatalf("expected an If, got %T", out)
	}
	if _, ok := ifExpr.Else.(*tast.EmptyTree); !ok {
		t.Errorf("expected a missing else branch to desugar to EmptyTree, got %#v", ifExpr.Else)
	}
}

func TestDesugarMethodDefSynthesizesTrailingBlockArg(t *testing.T) {
	dctx, table, _, file := setup(t)
	args := &parsetree.WireNode{Name: "Args", Children: []*parsetree.WireNode{list()}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "Def", Options: map[string]string{"name": "greet"}, Children: []*parsetree.WireNode{args, body}}

	out := desugarWire(t, dctx, file, n)
	def, ok := out.(*tast.MethodDef)
	if !ok || table.Show(names.NameRef(def.Name)) != "greet" {
		t.Fatalf("expected MethodDef{Name:\"greet\"}, got %#v", out)
	}
	if len(def.Params) != 1 {
		t.Fatalf("expected exactly one synthesized BlockArg param, got %d", len(def.Params))
	}
	if _, ok := def.Params[0].(*tast.BlockArg); !ok {
		t.Errorf("expected the sole param to be a synthesized BlockArg, got %T", def.Params[0])
	}
	if def.Flags&tast.SelfMethod != 0 {
		t.Errorf("expected an instance method def to not carry SelfMethod")
	}
}

func TestDesugarDefsRequiresSelfReceiver(t *testing.T) {
	dctx, _, diag, file := setup(t)
	badDefinee := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "other"}}
	args := &parsetree.WireNode{Name: "Args", Children: []*parsetree.WireNode{list()}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "Defs", Options: map[string]string{"name": "m"}, Children: []*parsetree.WireNode{badDefinee, args, body}}

	out := desugarWire(t, dctx, file, n)
	if _, ok := out.(*tast.EmptyTree); !ok {
		t.Fatalf("expected EmptyTree for an invalid singleton def, got %#v", out)
	}
	found := false
	for _, d := range diag.Diagnostics {
		if d.Code == diagnostics.InvalidSingletonDef {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an InvalidSingletonDef diagnostic, got %+v", diag.Diagnostics)
	}
}

func TestDesugarDefsWithSelfReceiver(t *testing.T) {
	dctx, _, _, file := setup(t)
	selfDefinee := &parsetree.WireNode{Name: "SelfLit"}
	args := &parsetree.WireNode{Name: "Args", Children: []*parsetree.WireNode{list()}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "Defs", Options: map[string]string{"name": "m"}, Children: []*parsetree.WireNode{selfDefinee, args, body}}

	out := desugarWire(t, dctx, file, n)
	def, ok := out.(*tast.MethodDef)
	if !ok || def.Flags&tast.SelfMethod == 0 {
		t.Fatalf("expected a MethodDef carrying SelfMethod, got %#v", out)
	}
}

func TestDesugarClassWithSuperclass(t *testing.T) {
	dctx, table, _, file := setup(t)
	name := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Dog"}}
	super := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Animal"}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "ClassNode", Children: []*parsetree.WireNode{name, super, body}}

	out := desugarWire(t, dctx, file, n)
	cd, ok := out.(*tast.ClassDef)
	if !ok || cd.Kind != tast.ClassKindClass {
		t.Fatalf("expected a ClassDef, got %#v", out)
	}
	cname, ok := cd.Name.(*tast.UnresolvedConstantLit)
	if !ok || table.Show(names.NameRef(cname.Name)) != "Dog" {
		t.Fatalf("unexpected class name: %#v", cd.Name)
	}
	if len(cd.Ancestors) != 1 {
		t.Fatalf("expected exactly one ancestor, got %d", len(cd.Ancestors))
	}
	if len(cd.Body) != 1 {
		t.Fatalf("expected the single-statement body to flatten to one entry, got %d", len(cd.Body))
	}
}

func TestDesugarModule(t *testing.T) {
	dctx, table, _, file := setup(t)
	name := &parsetree.WireNode{Name: "Const", Options: map[string]string{"name": "Greeter"}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "ModuleNode", Children: []*parsetree.WireNode{name, body}}

	out := desugarWire(t, dctx, file, n)
	cd, ok := out.(*tast.ClassDef)
	if !ok || cd.Kind != tast.ClassKindModule {
		t.Fatalf("expected a module ClassDef, got %#v", out)
	}
	cname, ok := cd.Name.(*tast.UnresolvedConstantLit)
	if !ok || table.Show(names.NameRef(cname.Name)) != "Greeter" {
		t.Fatalf("unexpected module name: %#v", cd.Name)
	}
}

func TestDesugarSClassRejectsNonSelfReceiver(t *testing.T) {
	dctx, _, diag, file := setup(t)
	expr := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "other"}}
	body := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	n := &parsetree.WireNode{Name: "SClass", Children: []*parsetree.WireNode{expr, body}}

	out := desugarWire(t, dctx, file, n)
	if _, ok := out.(*tast.EmptyTree); !ok {
		t.Fatalf("expected EmptyTree for class << non-self, got %#v", out)
	}
	if len(diag.Diagnostics) == 0 {
		t.Errorf("expected a diagnostic for class << non-self")
	}
}

func TestDesugarAliasLowersToMagicSend(t *testing.T) {
	dctx, _, _, file := setup(t)
	newSym := &parsetree.WireNode{Name: "SymbolLit", Options: map[string]string{"value": "new_name"}}
	oldSym := &parsetree.WireNode{Name: "SymbolLit", Options: map[string]string{"value": "old_name"}}
	n := &parsetree.WireNode{Name: "Alias", Children: []*parsetree.WireNode{newSym, oldSym}}

	out := desugarWire(t, dctx, file, n)
	send, ok := out.(*tast.Send)
	if !ok {
		t.Fatalf("expected alias to lower to a Send, got %T", out)
	}
	if len(send.Args) != 2 {
		t.Fatalf("expected the alias send to carry both symbol args, got %d", len(send.Args))
	}
}

func TestDesugarUndefEmitsDiagnosticAndEmptyTree(t *testing.T) {
	dctx, _, diag, file := setup(t)
	target := &parsetree.WireNode{Name: "Ident", Options: map[string]string{"kind": "local", "name": "m"}}
	n := &parsetree.WireNode{Name: "Undef", Children: []*parsetree.WireNode{list(target)}}

	out := desugarWire(t, dctx, file, n)
	if _, ok := out.(*tast.EmptyTree); !ok {
		t.Fatalf("expected EmptyTree for undef, got %#v", out)
	}
	found := false
	for _, d := range diag.Diagnostics {
		if d.Code == diagnostics.UndefUsage {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an UndefUsage diagnostic, got %+v", diag.Diagnostics)
	}
}

func TestDesugarUnsupportedConstructsEmitDiagnosticAndEmptyTree(t *testing.T) {
	for _, name := range []string{"Redo", "BeginBlock", "EndBlock", "BackRef", "FlipFlop", "EncodingLit"} {
		dctx, _, diag, file := setup(t)
		var n *parsetree.WireNode
		switch name {
		case "BeginBlock", "EndBlock":
			n = &parsetree.WireNode{Name: name, Children: []*parsetree.WireNode{{Name: "IntLit", Options: map[string]string{"text": "1"}}}}
		case "BackRef":
			n = &parsetree.WireNode{Name: name, Options: map[string]string{"text": "$1"}}
		case "FlipFlop":
			n = &parsetree.WireNode{Name: name, Children: []*parsetree.WireNode{
				{Name: "IntLit", Options: map[string]string{"text": "1"}},
				{Name: "IntLit", Options: map[string]string{"text": "2"}},
			}}
		default:
			n = &parsetree.WireNode{Name: name}
		}

		out := desugarWire(t, dctx, file, n)
		if _, ok := out.(*tast.EmptyTree); !ok {
			t.Errorf("%s: expected EmptyTree, got %#v", name, out)
		}
		if len(diag.Diagnostics) == 0 {
			t.Errorf("%s: expected at least one diagnostic", name)
		}
	}
}

func TestDesugarUnitWrapsInSyntheticRootClass(t *testing.T) {
	dctx, table, _, file := setup(t)
	stmt1 := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	stmt2 := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "2"}}
	root := &parsetree.WireNode{Name: "Begin", Children: []*parsetree.WireNode{list(stmt1, stmt2)}}
	node := decode(t, file, root)

	out, err := DesugarUnit(dctx, node)
	if err != nil {
		t.Fatalf("DesugarUnit returned an error: %v", err)
	}
	cd, ok := out.(*tast.ClassDef)
	if !ok {
		t.Fatalf("expected the top-level lift to produce a ClassDef, got %T", out)
	}
	cname, ok := cd.Name.(*tast.ConstantLit)
	if !ok {
		t.Fatalf("expected the synthetic root class name to be a ConstantLit, got %T", cd.Name)
	}
	_ = table.Show(names.NameRef(cname.Symbol))
	if len(cd.Body) != 2 {
		t.Fatalf("expected the two top-level statements to flatten into Body, got %d", len(cd.Body))
	}
}

func TestDesugarRecoversInternalErrorFromMalformedAliasTarget(t *testing.T) {
	dctx, _, diag, file := setup(t)
	// aliasTargetSymbol only accepts SymbolLit/Ident shapes; anything
	// else is a category-3 "an implementer believes unreachable"
	// internal error (spec.md §4.2.4), caught once at Desugar.
	badTarget := &parsetree.WireNode{Name: "IntLit", Options: map[string]string{"text": "1"}}
	oldSym := &parsetree.WireNode{Name: "SymbolLit", Options: map[string]string{"value": "old_name"}}
	n := &parsetree.WireNode{Name: "Alias", Children: []*parsetree.WireNode{badTarget, oldSym}}
	node := decode(t, file, n)

	out, err := Desugar(dctx, node)
	if err == nil {
		t.Fatalf("expected Desugar to recover an internal error and return one")
	}
	if out != nil {
		t.Errorf("expected a nil result alongside the recovered error, got %#v", out)
	}
	if !diag.HasInternalError() {
		t.Errorf("expected the collector to record an internal error")
	}
}
