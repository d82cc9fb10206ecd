package pipeline

import (
	"io"

	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/desugar"
	"github.com/spicery/nutmeg-desugar/pkg/diagnostics"
	"github.com/spicery/nutmeg-desugar/pkg/files"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/parsetree"
	"github.com/spicery/nutmeg-desugar/pkg/rewriter"
	"github.com/spicery/nutmeg-desugar/pkg/rewriter/passes"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
	"github.com/spicery/nutmeg-desugar/pkg/verifier"
)

// Trace receives one line per stage when a driver wants progress
// visible on stderr, the Go equivalent of the teacher's habit of
// having its cmd/ binaries print a one-liner per phase rather than
// staying silent until final output (see cmd/nutmeg-compiler/main.go).
type Trace func(format string, args ...any)

// Result is everything a caller of Run needs to report to the user:
// the final TAST (nil if desugar itself failed), every diagnostic
// collected along the way, and any verifier bugs — which, unlike
// diagnostics, indicate a defect in this module rather than in the
// input program.
type Result struct {
	Tree        tast.Expression
	Diagnostics *diagnostics.Collector
	Bugs        []verifier.Bug
}

// OK reports whether the whole pipeline produced a usable tree: no
// internal error during desugar, and the verifier found nothing wrong.
func (r *Result) OK() bool {
	return r.Tree != nil && len(r.Bugs) == 0 && !r.Diagnostics.HasInternalError()
}

// Run drives the three core stages — desugar (C4/C5), verify (C6),
// rewrite (C7/C8) — over one top-level parse-tree node, in the order
// spec.md's external interfaces section describes. The rewrite stage
// is skipped entirely when cfg.Autogen is set, mirroring
// Minitest::run's runningUnderAutogen early return in the original.
func Run(cfg *Config, table names.Table, fileDB files.FileDB, file common.FileRef, root parsetree.Node, trace Trace) *Result {
	if trace == nil {
		trace = func(string, ...any) {}
	}
	diag := diagnostics.NewCollector()
	dctx := desugar.NewContext(table, diag, fileDB, file, cfg.Flags())

	trace("desugar: starting")
	tree, err := desugar.DesugarUnit(dctx, root)
	if err != nil {
		trace("desugar: internal error: %v", err)
		return &Result{Diagnostics: diag}
	}
	trace("desugar: done")

	v := verifier.New()
	v.Verify(tree)
	if !v.OK() {
		trace("verify: %d invariant violation(s)", len(v.Bugs))
		return &Result{Tree: tree, Diagnostics: diag, Bugs: v.Bugs}
	}
	trace("verify: ok")

	if cfg.runningUnderAutogen() {
		trace("rewrite: skipped (autogen)")
		return &Result{Tree: tree, Diagnostics: diag}
	}

	rctx := rewriter.NewContext(table, diag)
	rewritten := rewriter.Run([]rewriter.Pass{
		passes.NewTEnum(rctx),
		passes.NewTestDSL(rctx),
	}, tree, cfg.EnabledPasses())
	trace("rewrite: done")

	return &Result{Tree: rewritten, Diagnostics: diag}
}

func (c *Config) runningUnderAutogen() bool {
	return c != nil && c.Autogen
}

// ReportDiagnostics writes every collected diagnostic to w in the
// plain one-per-line form diagnostics.Collector.Report already uses.
func ReportDiagnostics(w io.Writer, r *Result) {
	if r.Diagnostics != nil {
		r.Diagnostics.Report(w)
	}
	if len(r.Bugs) > 0 {
		v := &verifier.Verifier{Bugs: r.Bugs}
		v.Report(w)
	}
}
