package names

import "testing"

func TestInternStringDedupes(t *testing.T) {
	table := NewMemTable()
	a := table.InternString("foo")
	b := table.InternString("foo")
	if a != b {
		t.Errorf("expected interning the same spelling twice to return the same ref, got %d and %d", a, b)
	}
	c := table.InternString("bar")
	if c == a {
		t.Errorf("expected a distinct spelling to get a distinct ref")
	}
}

func TestInternUTF8MatchesInternString(t *testing.T) {
	table := NewMemTable()
	a := table.InternString("snowman")
	b := table.InternUTF8([]byte("snowman"))
	if a != b {
		t.Errorf("expected InternUTF8 to dedupe against InternString for the same text")
	}
}

func TestNoNameShowsEmpty(t *testing.T) {
	table := NewMemTable()
	if table.Show(NoName) != "" {
		t.Errorf("expected NoName to show as empty, got %q", table.Show(NoName))
	}
}

func TestShowUnknownRefIsEmpty(t *testing.T) {
	table := NewMemTable()
	if table.Show(NameRef(999)) != "" {
		t.Errorf("expected an out-of-range ref to show as empty")
	}
}

func TestFreshUniqueProducesDistinctNamesForDistinctCounters(t *testing.T) {
	table := NewMemTable()
	base := table.InternString(BaseAssignTemp)
	first := table.FreshUnique(Desugar, base, 1)
	second := table.FreshUnique(Desugar, base, 2)
	if first == second {
		t.Errorf("expected distinct counters to mint distinct names")
	}
	if table.Show(first) == table.Show(second) {
		t.Errorf("expected distinct spellings, got %q twice", table.Show(first))
	}
}

func TestFreshUniqueSpellingIncludesBaseAndKind(t *testing.T) {
	table := NewMemTable()
	base := table.InternString(BaseForTemp)
	ref := table.FreshUnique(TEnum, base, 3)
	spelling := table.Show(ref)
	want := "forTemp$TEnum_3"
	if spelling != want {
		t.Errorf("unexpected synthetic spelling: got %q, want %q", spelling, want)
	}
}

func TestUniqueKindString(t *testing.T) {
	if Desugar.String() != "Desugar" || TEnum.String() != "TEnum" {
		t.Errorf("unexpected UniqueKind strings: %q %q", Desugar.String(), TEnum.String())
	}
	if UniqueKind(99).String() != "UnknownUniqueKind" {
		t.Errorf("expected an unrecognized kind to stringify as UnknownUniqueKind")
	}
}

func TestSpellingsReflectsInternOrder(t *testing.T) {
	table := NewMemTable()
	table.InternString("a")
	table.InternString("b")
	got := table.Spellings()
	want := []string{"", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("unexpected spellings: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unexpected spelling at %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
