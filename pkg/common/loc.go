package common

import "fmt"

// FileRef identifies a source file within a compilation unit's file
// database. Zero is the reserved "no file" value.
type FileRef uint32

// Loc is a byte-range location within a single file: a file id plus a
// half-open [Begin, End) byte offset pair. Unlike the teacher's
// line/column Span, Loc matches what the desugarer and verifier need:
// cheap equality, cheap "zero-length" checks, and no dependency on a
// line-table to construct one.
type Loc struct {
	File  FileRef
	Begin uint32
	End   uint32
}

// NoLoc is the canonical invalid location. Nodes without source text
// (internal-only sentinels) keep this; synthesized nodes instead get a
// zero-length Loc at the point they were minted from, see
// CopyWithZeroLength.
var NoLoc = Loc{}

func (l Loc) Exists() bool {
	return l.File != 0
}

func (l Loc) Empty() bool {
	return l.Begin == l.End
}

// CopyWithZeroLength returns a Loc at the same file and start position
// but with End == Begin, the discipline every synthesized node in the
// desugarer follows so IDE features know to skip it (SPEC_FULL §1,
// spec.md Design Note "Zero-length locations").
func (l Loc) CopyWithZeroLength() Loc {
	return Loc{File: l.File, Begin: l.Begin, End: l.Begin}
}

func (l Loc) Join(other Loc) Loc {
	if !l.Exists() {
		return other
	}
	if !other.Exists() {
		return l
	}
	begin, end := l.Begin, l.End
	if other.Begin < begin {
		begin = other.Begin
	}
	if other.End > end {
		end = other.End
	}
	return Loc{File: l.File, Begin: begin, End: end}
}

func (l Loc) String() string {
	if !l.Exists() {
		return "<no-loc>"
	}
	return fmt.Sprintf("file%d:%d-%d", l.File, l.Begin, l.End)
}
