package mk

import (
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

var mloc = common.Loc{File: 1, Begin: 0, End: 1}

func TestIsReference(t *testing.T) {
	table := names.NewMemTable()
	ref := table.InternString("x")
	if !IsReference(Local(mloc, ref)) {
		t.Errorf("expected Local to be a reference form")
	}
	if !IsReference(UnresolvedIdent(mloc, tast.BindingLocal, ref)) {
		t.Errorf("expected UnresolvedIdent to be a reference form")
	}
	if !IsReference(UnresolvedConstantLit(mloc, nil, ref)) {
		t.Errorf("expected UnresolvedConstantLit to be a reference form")
	}
	if IsReference(Int(mloc, 1)) {
		t.Errorf("expected a Literal to not be a reference form")
	}
}

func TestAssignAcceptsReferenceLhs(t *testing.T) {
	table := names.NewMemTable()
	ref := table.InternString("x")
	lhs := Local(mloc, ref)
	expr := Assign(mloc, lhs, Int(mloc, 1))
	if _, ok := expr.(*tast.Assign); !ok {
		t.Fatalf("expected an Assign node, got %T", expr)
	}
}

func TestAssignPanicsOnNonReferenceLhs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Assign to panic on a non-reference lhs")
		}
	}()
	Assign(mloc, Int(mloc, 1), Int(mloc, 2))
}

func TestMethodDefAcceptsTrailingBlockArg(t *testing.T) {
	table := names.NewMemTable()
	name := table.InternString("foo")
	blk := BlockArgNode(mloc, table.InternString("&blk"))
	params := []tast.Expression{blk}
	expr := MethodDef(mloc, name, params, EmptyTree(), 0)
	if _, ok := expr.(*tast.MethodDef); !ok {
		t.Fatalf("expected a MethodDef, got %T", expr)
	}
}

func TestMethodDefPanicsWithoutTrailingBlockArg(t *testing.T) {
	table := names.NewMemTable()
	name := table.InternString("foo")
	params := []tast.Expression{RestArg(mloc, table.InternString("rest"))}

	defer func() {
		if recover() == nil {
			t.Errorf("expected MethodDef to panic when params doesn't end in a BlockArg")
		}
	}()
	MethodDef(mloc, name, params, EmptyTree(), 0)
}

func TestMethodDefAllowsEmptyParams(t *testing.T) {
	table := names.NewMemTable()
	name := table.InternString("foo")
	expr := MethodDef(mloc, name, nil, EmptyTree(), 0)
	if _, ok := expr.(*tast.MethodDef); !ok {
		t.Fatalf("expected a MethodDef, got %T", expr)
	}
}

func TestRescueCasePanicsOnNonReferenceVar(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected RescueCase to panic on a non-reference var")
		}
	}()
	RescueCase(mloc, nil, Int(mloc, 1), EmptyTree())
}

func TestInsSeqCollapsesWhenStatsEmpty(t *testing.T) {
	expr := Int(mloc, 42)
	out := InsSeq(mloc, nil, expr)
	if out != expr {
		t.Errorf("expected InsSeq with no stats to collapse to its trailing expression")
	}
}

func TestInsSeqDropsEmptyTreeStatements(t *testing.T) {
	stat := Int(mloc, 1)
	out := InsSeq(mloc, []tast.Expression{EmptyTree(), stat, EmptyTree()}, Int(mloc, 2))
	seq, ok := out.(*tast.InsSeq)
	if !ok {
		t.Fatalf("expected an InsSeq, got %T", out)
	}
	if len(seq.Stats) != 1 || seq.Stats[0] != stat {
		t.Errorf("expected only the non-EmptyTree statement to survive, got %#v", seq.Stats)
	}
}

func TestInsSeqCollapsesWhenAllStatsAreEmptyTree(t *testing.T) {
	expr := Int(mloc, 2)
	out := InsSeq(mloc, []tast.Expression{EmptyTree(), EmptyTree()}, expr)
	if out != expr {
		t.Errorf("expected an all-EmptyTree stats list to collapse, got %#v", out)
	}
}

func TestSendVariantsBuildDistinctArgCounts(t *testing.T) {
	table := names.NewMemTable()
	method := table.InternString("foo")
	recv := Self(mloc)

	s0 := Send0(mloc, recv, method).(*tast.Send)
	if len(s0.Args) != 0 {
		t.Errorf("expected Send0 to have 0 args, got %d", len(s0.Args))
	}
	s1 := Send1(mloc, recv, method, Int(mloc, 1)).(*tast.Send)
	if len(s1.Args) != 1 {
		t.Errorf("expected Send1 to have 1 arg, got %d", len(s1.Args))
	}
	s2 := Send2(mloc, recv, method, Int(mloc, 1), Int(mloc, 2)).(*tast.Send)
	if len(s2.Args) != 2 {
		t.Errorf("expected Send2 to have 2 args, got %d", len(s2.Args))
	}
}

func TestSendPrivateOKSetsFlag(t *testing.T) {
	table := names.NewMemTable()
	method := table.InternString("foo")
	s := SendPrivateOK(mloc, Self(mloc), method).(*tast.Send)
	if s.Flags&tast.PrivateOK == 0 {
		t.Errorf("expected PrivateOK flag to be set")
	}
}
