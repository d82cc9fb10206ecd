// Package files implements the fileDb collaborator described in
// spec.md §6. It is "external" to the desugar/rewrite core in the
// sense that the core only ever calls through the FileDB interface,
// but a concrete implementation lives here so the core can be driven
// end to end without a real upstream parser.
package files

import "github.com/spicery/nutmeg-desugar/pkg/common"

// File is one source file participating in a compilation unit.
type File struct {
	Path   string
	Source string
	// RBI marks an "interface-only" file per the GLOSSARY: one whose
	// declared purpose is type declarations only, enforced by the
	// desugar validator's CodeInRBI check (spec.md §4.2.3 step 6).
	RBI bool
}

func (f *File) IsRBI() bool { return f.RBI }

// LineCol is a 1-based line/column pair, used for diagnostic rendering
// and by the desugar engine to compute the value of `__LINE__`.
type LineCol struct {
	Line, Column int
}

type Resolved struct {
	File  *File
	Start LineCol
	End   LineCol
}

// FileDB resolves common.Loc values to file content and line/column
// positions. This is the fileDb collaborator of spec.md §6.
type FileDB interface {
	Resolve(loc common.Loc) Resolved
	File(ref common.FileRef) *File
	Source(ref common.FileRef) string
}

// MemDB is an in-memory FileDB backed by a slice of files, sufficient
// for tests and for the CLI driver in cmd/nutmeg-desugar.
type MemDB struct {
	files []*File
}

func NewMemDB() *MemDB {
	return &MemDB{files: []*File{nil}} // index 0 reserved, matches common.FileRef's zero value
}

// AddFile registers a file and returns its FileRef.
func (db *MemDB) AddFile(f *File) common.FileRef {
	db.files = append(db.files, f)
	return common.FileRef(len(db.files) - 1)
}

func (db *MemDB) File(ref common.FileRef) *File {
	if int(ref) <= 0 || int(ref) >= len(db.files) {
		return nil
	}
	return db.files[ref]
}

func (db *MemDB) Source(ref common.FileRef) string {
	f := db.File(ref)
	if f == nil {
		return ""
	}
	return f.Source
}

func (db *MemDB) Resolve(loc common.Loc) Resolved {
	f := db.File(loc.File)
	if f == nil {
		return Resolved{}
	}
	start := lineColAt(f.Source, int(loc.Begin))
	end := lineColAt(f.Source, int(loc.End))
	return Resolved{File: f, Start: start, End: end}
}

func lineColAt(source string, offset int) LineCol {
	if offset > len(source) {
		offset = len(source)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return LineCol{Line: line, Column: col}
}
