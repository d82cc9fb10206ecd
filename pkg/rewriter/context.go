package rewriter

import (
	"github.com/spicery/nutmeg-desugar/pkg/common"
	"github.com/spicery/nutmeg-desugar/pkg/diagnostics"
	"github.com/spicery/nutmeg-desugar/pkg/names"
)

// Context is the rewriter passes' collaborator, the C7/C8 analogue of
// pkg/desugar.DesugarContext: just enough to intern a synthesized
// name and report a diagnostic. Unlike DesugarContext it carries no
// per-scope counter — the names a rewriter pass mints (describe/it
// labels, TEnum variant class names) are derived deterministically
// from source text, not from a fresh-name counter (spec.md §4.5 never
// mentions counter resets for C7/C8).
type Context struct {
	names names.Table
	diag  *diagnostics.Collector
}

func NewContext(table names.Table, diag *diagnostics.Collector) Context {
	return Context{names: table, diag: diag}
}

func (c Context) Intern(s string) names.NameRef { return c.names.InternString(s) }
func (c Context) Show(ref names.NameRef) string { return c.names.Show(ref) }
func (c Context) Diag() *diagnostics.Collector  { return c.diag }

// DiagCode pairs a stable error code with its §7 category, the same
// shape pkg/desugar's unexported diagCode uses; exported here since
// concrete passes live in pkg/rewriter/passes, a separate package.
type DiagCode struct {
	Code     diagnostics.Code
	Severity diagnostics.Severity
}

// DiagSimple emits a one-line diagnostic at loc, or does nothing if
// code is suppressed by the collector's configuration.
func DiagSimple(c Context, loc common.Loc, code DiagCode, format string, args ...any) {
	b := c.Diag().BeginError(loc, code.Code, code.Severity)
	if b == nil {
		return
	}
	b.SetHeader(format, args...).Commit()
}
