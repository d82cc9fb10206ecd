// Package desugar implements C4 (the desugar engine) and C5 (the
// top-level lift) of spec.md: a recursive parse-node -> TAST
// translator plus the synthetic root-class wrapper.
package desugar

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/diagnostics"
	"github.com/spicery/nutmeg-desugar/pkg/files"
	"github.com/spicery/nutmeg-desugar/pkg/names"
)

// Flags are the process/unit-wide switches the context consults,
// mirroring the `flags` collaborator of spec.md §6.
type Flags struct {
	// RunningUnderAutogen mirrors flags.runningUnderAutogen; desugar
	// itself does not branch on it (only the rewriter, C7, does) but it
	// is threaded through the context so callers have one place to set
	// it before running the whole pipeline.
	RunningUnderAutogen bool
	// Strict gates the UnnamedBlockParameter diagnostic for `yield`
	// when no block argument is in scope, i.e. outside any method body
	// (spec.md §4.2.1 "yield args"). A method body always has one, a
	// synthesized one when the surface form named none, so a `yield`
	// inside a method is not diagnosed, whatever the method declared.
	Strict bool
}

// counterBox lets a per-scope uniqueCounter be reset on clone while
// still being "mutable" the way spec.md §4.1 describes: callers share
// the box, not the value.
type counterBox struct {
	n uint16
}

// unit is the state shared by every DesugarContext clone within a
// single compilation unit: the name table, the diagnostic sink, and
// the "already reported an internal error" latch of spec.md §4.2.4.
type unit struct {
	names    names.Table
	diag     *diagnostics.Collector
	fileDB   files.FileDB
	flags    Flags
	reported bool
}

// DesugarContext carries everything node2Tree needs, per spec.md §4.2:
// the name table handle, the per-scope uniqueCounter, the enclosing
// block-argument name, and the enclosing method's name/location. It is
// cheap to copy by value; cloning for a new method/class scope swaps in
// a fresh counterBox and updates the enclosing-method fields.
type DesugarContext struct {
	u *unit

	counter *counterBox
	file    common.FileRef

	enclosingBlockArg    names.NameRef
	enclosingMethodName  names.NameRef
	enclosingMethodLoc   common.Loc
}

// NewContext builds the root DesugarContext for one compilation unit.
func NewContext(table names.Table, diag *diagnostics.Collector, fileDB files.FileDB, file common.FileRef, flags Flags) DesugarContext {
	return DesugarContext{
		u:       &unit{names: table, diag: diag, fileDB: fileDB, flags: flags},
		counter: &counterBox{},
		file:    file,
	}
}

// WithFile returns a copy of dctx pointed at a different file, used
// when a compilation unit spans more than one source file.
func (dctx DesugarContext) WithFile(file common.FileRef) DesugarContext {
	dctx.file = file
	return dctx
}

// EnterScope clones the context for a new method or class body: the
// unique counter resets to zero (spec.md §4.1 "Per-scope counter
// reset"), and the enclosing-block-arg / enclosing-method fields are
// left to the caller to overwrite via WithEnclosingMethod /
// WithBlockArg.
func (dctx DesugarContext) EnterScope() DesugarContext {
	dctx.counter = &counterBox{}
	return dctx
}

func (dctx DesugarContext) WithBlockArg(name names.NameRef) DesugarContext {
	dctx.enclosingBlockArg = name
	return dctx
}

func (dctx DesugarContext) WithEnclosingMethod(name names.NameRef, loc common.Loc) DesugarContext {
	dctx.enclosingMethodName = name
	dctx.enclosingMethodLoc = loc
	return dctx
}

func (dctx DesugarContext) BlockArg() (names.NameRef, bool) {
	return dctx.enclosingBlockArg, dctx.enclosingBlockArg != names.NoName
}

func (dctx DesugarContext) Flags() Flags { return dctx.u.flags }

func (dctx DesugarContext) FileDB() files.FileDB { return dctx.u.fileDB }

func (dctx DesugarContext) Diag() *diagnostics.Collector { return dctx.u.diag }

func (dctx DesugarContext) Names() names.Table { return dctx.u.names }

// Fresh mints a fresh unique name of the given kind derived from base,
// pre-incrementing the per-scope counter per spec.md §4.1 ("Callers
// must always pre-increment the counter before requesting a name").
func (dctx DesugarContext) Fresh(kind names.UniqueKind, base string) names.NameRef {
	dctx.counter.n++
	baseRef := dctx.u.names.InternString(base)
	return dctx.u.names.FreshUnique(kind, baseRef, dctx.counter.n)
}

func (dctx DesugarContext) Intern(s string) names.NameRef {
	return dctx.u.names.InternString(s)
}

func (dctx DesugarContext) Loc(l common.Loc) common.Loc {
	// Parse-tree locations are already in this context's file; this
	// exists as the one seam where a future multi-file desugar could
	// remap, kept explicit rather than implicit per spec.md §3.1
	// ("every node carries a Loc").
	return l
}
