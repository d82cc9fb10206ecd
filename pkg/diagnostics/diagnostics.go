// Package diagnostics implements the diagnostics collaborator of
// spec.md §6/§7: a write-only stream the desugar and rewrite passes
// emit to, modeled on the teacher's pkg/checker.Checker
// accumulate-then-report shape (Bugs/Issues there, one Diagnostics
// slice here, each entry carrying its stable error code).
package diagnostics

import (
	"fmt"
	"io"

	"github.com/spicery/nutmeg-desugar/pkg/common"
)

// Code is one of the stable error-code identifiers enumerated in
// spec.md §6.
type Code string

const (
	UnsupportedNode             Code = "Desugar::UnsupportedNode"
	CodeInRBI                   Code = "Desugar::CodeInRBI"
	InvalidSingletonDef         Code = "Desugar::InvalidSingletonDef"
	NoConstantReassignment      Code = "Desugar::NoConstantReassignment"
	UnnamedBlockParameter       Code = "Desugar::UnnamedBlockParameter"
	IntegerOutOfRange           Code = "Desugar::IntegerOutOfRange"
	FloatOutOfRange             Code = "Desugar::FloatOutOfRange"
	UndefUsage                  Code = "Desugar::UndefUsage"
	UnsupportedRestArgsDestruct Code = "Desugar::UnsupportedRestArgsDestructure"
	InternalError               Code = "Internal::InternalError"
	TEnumConstNotEnumValue      Code = "Rewriter::TEnumConstNotEnumValue"
	TEnumOutsideEnumsDo         Code = "Rewriter::TEnumOutsideEnumsDo"
)

// Severity classifies which of the three §7 error categories a
// diagnostic belongs to.
type Severity int

const (
	SourceError Severity = iota
	Unsupported
	Internal
)

// Diagnostic is one committed error report.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Loc      common.Loc
	Header   string
	Lines    []string
	Replace  []Replacement
}

// Replacement is one suggested fix-it edit, mirroring the
// ErrorBuilder.replaceWith collaborator method in spec.md §6.
type Replacement struct {
	Label string
	Loc   common.Loc
	Text  string
}

// Collector accumulates diagnostics for one compilation unit. It is
// the concrete stand-in for the "diagnostics" context member of
// spec.md §6 — desugar and the rewriter only ever call BeginError.
type Collector struct {
	Diagnostics []Diagnostic
	// suppressed tracks error codes a caller has asked to mute, the Go
	// analogue of "user configuration" suppressing an ErrorBuilder per
	// spec.md §6 ("returning 'no builder' means the error is
	// suppressed").
	suppressed map[Code]bool
}

func NewCollector() *Collector {
	return &Collector{suppressed: make(map[Code]bool)}
}

func (c *Collector) Suppress(code Code) {
	c.suppressed[code] = true
}

// ErrorBuilder accumulates one diagnostic's fields; it commits into its
// Collector when Commit is called, the Go rendition of "ErrorBuilder
// commits on destruction" (spec.md §6) since Go has no destructors.
type ErrorBuilder struct {
	collector *Collector
	d         Diagnostic
	committed bool
}

// BeginError starts building a diagnostic at loc with the given code,
// or returns nil if that code is currently suppressed — callers must
// check for nil before chaining, matching "no builder" in spec.md §6.
func (c *Collector) BeginError(loc common.Loc, code Code, severity Severity) *ErrorBuilder {
	if c.suppressed[code] {
		return nil
	}
	return &ErrorBuilder{collector: c, d: Diagnostic{Code: code, Severity: severity, Loc: loc}}
}

func (b *ErrorBuilder) SetHeader(format string, args ...any) *ErrorBuilder {
	if b == nil {
		return nil
	}
	b.d.Header = fmt.Sprintf(format, args...)
	return b
}

func (b *ErrorBuilder) AddErrorLine(loc common.Loc, format string, args ...any) *ErrorBuilder {
	if b == nil {
		return nil
	}
	b.d.Lines = append(b.d.Lines, fmt.Sprintf("%s: %s", loc, fmt.Sprintf(format, args...)))
	return b
}

func (b *ErrorBuilder) ReplaceWith(label string, loc common.Loc, text string) *ErrorBuilder {
	if b == nil {
		return nil
	}
	b.d.Replace = append(b.d.Replace, Replacement{Label: label, Loc: loc, Text: text})
	return b
}

// Commit finalizes the diagnostic into its collector. Calling Commit
// more than once, or on a nil builder, is a no-op.
func (b *ErrorBuilder) Commit() {
	if b == nil || b.committed {
		return
	}
	b.committed = true
	b.collector.Diagnostics = append(b.collector.Diagnostics, b.d)
}

// Report writes every committed diagnostic to w, grouped by severity in
// the same order the teacher's Checker.ReportErrors walks Bugs then
// Issues: internal errors first (they abort the unit), then source
// errors and unsupported-node diagnostics.
func (c *Collector) Report(w io.Writer) {
	var internal, rest []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == Internal {
			internal = append(internal, d)
		} else {
			rest = append(rest, d)
		}
	}
	for i, d := range internal {
		fmt.Fprintf(w, "  [%d] %s (%s) at %s\n", i+1, d.Header, d.Code, d.Loc)
	}
	for i, d := range rest {
		fmt.Fprintf(w, "  [%d] %s (%s) at %s\n", i+1, d.Header, d.Code, d.Loc)
	}
}

func (c *Collector) HasInternalError() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == Internal {
			return true
		}
	}
	return false
}
