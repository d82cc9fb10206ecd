package diagnostics

import (
	"strings"
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/common"
)

var dloc = common.Loc{File: 1, Begin: 0, End: 3}

func TestBeginErrorCommitsOneDiagnostic(t *testing.T) {
	c := NewCollector()
	c.BeginError(dloc, UndefUsage, SourceError).
		SetHeader("undef is not supported").
		AddErrorLine(dloc, "remove this").
		Commit()

	if len(c.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(c.Diagnostics))
	}
	d := c.Diagnostics[0]
	if d.Code != UndefUsage || d.Severity != SourceError {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
	if d.Header != "undef is not supported" {
		t.Errorf("unexpected header: %q", d.Header)
	}
	if len(d.Lines) != 1 || !strings.Contains(d.Lines[0], "remove this") {
		t.Errorf("unexpected lines: %v", d.Lines)
	}
}

func TestBeginErrorReturnsNilWhenSuppressed(t *testing.T) {
	c := NewCollector()
	c.Suppress(UndefUsage)

	b := c.BeginError(dloc, UndefUsage, SourceError)
	if b != nil {
		t.Fatalf("expected a nil builder for a suppressed code")
	}
	// chaining on a nil builder must not panic
	b.SetHeader("should not panic").AddErrorLine(dloc, "nope").Commit()
	if len(c.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics to be committed for a suppressed code")
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	c := NewCollector()
	b := c.BeginError(dloc, UndefUsage, SourceError)
	b.Commit()
	b.Commit()
	if len(c.Diagnostics) != 1 {
		t.Errorf("expected Commit to be a no-op on a second call, got %d diagnostics", len(c.Diagnostics))
	}
}

func TestHasInternalError(t *testing.T) {
	c := NewCollector()
	if c.HasInternalError() {
		t.Errorf("expected a fresh collector to have no internal error")
	}
	c.BeginError(dloc, InternalError, Internal).SetHeader("oops").Commit()
	if !c.HasInternalError() {
		t.Errorf("expected HasInternalError to be true after committing an Internal severity diagnostic")
	}
}

func TestReplaceWithAppendsReplacement(t *testing.T) {
	c := NewCollector()
	c.BeginError(dloc, UndefUsage, SourceError).
		ReplaceWith("remove undef", dloc, "").
		Commit()

	r := c.Diagnostics[0].Replace
	if len(r) != 1 || r[0].Label != "remove undef" {
		t.Errorf("unexpected replacements: %+v", r)
	}
}

func TestReportOrdersInternalDiagnosticsFirst(t *testing.T) {
	c := NewCollector()
	c.BeginError(dloc, UndefUsage, SourceError).SetHeader("source issue").Commit()
	c.BeginError(dloc, InternalError, Internal).SetHeader("internal issue").Commit()

	var sb strings.Builder
	c.Report(&sb)
	out := sb.String()

	internalIdx := strings.Index(out, "internal issue")
	sourceIdx := strings.Index(out, "source issue")
	if internalIdx == -1 || sourceIdx == -1 {
		t.Fatalf("expected both diagnostics in report output: %q", out)
	}
	if internalIdx > sourceIdx {
		t.Errorf("expected internal diagnostics to be reported first, got: %q", out)
	}
}
