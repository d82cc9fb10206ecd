// Package names implements the name allocator (C3, spec.md §3.3/§4.1):
// interning of source identifiers into a shared table, plus minting of
// fresh, unique synthetic names scoped to a (kind, base) pair.
package names

import "fmt"

// NameRef is an opaque handle into a NameTable, the Go analogue of the
// collaborator's `NameRef` in spec.md §6.
type NameRef uint32

// NoName is the reserved "absent" name.
const NoName NameRef = 0

// UniqueKind tags the provenance of a synthesized name, mirroring the
// set enumerated in spec.md §3.3.
type UniqueKind int

const (
	Desugar UniqueKind = iota
	TEnum
)

func (k UniqueKind) String() string {
	switch k {
	case Desugar:
		return "Desugar"
	case TEnum:
		return "TEnum"
	default:
		return "UnknownUniqueKind"
	}
}

// Canonical base names used by the desugarer when minting temporaries,
// spec.md §3.3.
const (
	BaseDestructureArg = "destructureArg"
	BaseAssignTemp     = "assignTemp"
	BaseBlockPassTemp  = "blockPassTemp"
	BaseForTemp        = "forTemp"
	BaseRescueTemp     = "rescueTemp"
	BaseAndAnd         = "andAnd"
	BaseOrOr           = "orOr"
	BaseBlkArg         = "blkArg"
)

// Table is the nameTable collaborator of spec.md §6: intern source
// identifiers, mint fresh unique ones, and render a NameRef back to its
// display string.
type Table interface {
	InternUTF8(bytes []byte) NameRef
	InternString(s string) NameRef
	FreshUnique(kind UniqueKind, base NameRef, counter uint16) NameRef
	Show(ref NameRef) string
}

// MemTable is a simple in-process name table, an interning map plus a
// monotonic id counter. It is the one concrete Table used throughout
// this module's tests and CLI driver; pkg/nametable adds an optional
// persistent backing store wrapping the same interface.
type MemTable struct {
	byString map[string]NameRef
	byRef    []string
}

func NewMemTable() *MemTable {
	return &MemTable{
		byString: make(map[string]NameRef),
		byRef:    []string{""}, // index 0 reserved for NoName
	}
}

func (t *MemTable) InternUTF8(bytes []byte) NameRef {
	return t.InternString(string(bytes))
}

func (t *MemTable) InternString(s string) NameRef {
	if ref, ok := t.byString[s]; ok {
		return ref
	}
	ref := NameRef(len(t.byRef))
	t.byRef = append(t.byRef, s)
	t.byString[s] = ref
	return ref
}

// FreshUnique mints a name of the form "<base>$<kind>_<counter>" and
// interns it. Uniqueness across a compilation unit follows from the
// caller pre-incrementing counter before calling (spec.md §4.1): two
// calls with the same (kind, base) and the same counter value collide
// by construction, but the desugar context guarantees the counter is
// monotonic per scope, and the full key also carries a scope-local
// disambiguator appended by the caller when needed (see
// pkg/desugar.DesugarContext.Fresh).
func (t *MemTable) FreshUnique(kind UniqueKind, base NameRef, counter uint16) NameRef {
	baseStr := t.Show(base)
	synthetic := fmt.Sprintf("%s$%s_%d", baseStr, kind, counter)
	return t.InternString(synthetic)
}

func (t *MemTable) Show(ref NameRef) string {
	if int(ref) >= len(t.byRef) {
		return ""
	}
	return t.byRef[ref]
}

// Spellings returns every interned string, in NameRef order, for use
// by pkg/nametable when persisting the table to its backing store.
func (t *MemTable) Spellings() []string {
	return append([]string(nil), t.byRef...)
}
