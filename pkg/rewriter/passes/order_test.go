package passes

import (
	"strings"
	"testing"

	"github.com/spicery/nutmeg-desugar/pkg/mk"
	"github.com/spicery/nutmeg-desugar/pkg/names"
	"github.com/spicery/nutmeg-desugar/pkg/rewriter"
	"github.com/spicery/nutmeg-desugar/pkg/tast"
)

// combinedFixture builds a program with one T::Enum class and one
// describe/it block side by side, so both passes have something to do
// in the same tree — the shape spec.md §9 asks to confirm is
// order-independent.
func combinedFixture(ctx rewriter.Context) tast.Expression {
	z := tloc
	tEnumClass := tEnumClassFixture(ctx)

	itBlock := mk.Block(z, nil, mk.Int(z, 1))
	itSend := mk.SendWithBlock(z, mk.Self(z), ctx.Intern("it"), itBlock, mk.String(z, ctx.Intern("does a thing")))
	describeBlock := mk.Block(z, nil, itSend)
	describeSend := mk.SendWithBlock(z, mk.Self(z), ctx.Intern("describe"), describeBlock, mk.String(z, ctx.Intern("a feature")))

	return mk.InsSeq(z, []tast.Expression{tEnumClass}, describeSend)
}

// render prints expr through table, resolving every NameRef back to
// its spelling. Comparing rendered text rather than raw trees sidesteps
// the fact that the two runs below use independent name tables, so the
// same spelling can land on a different NameRef number in each.
func render(table names.Table, expr tast.Expression) string {
	var sb strings.Builder
	tast.Print(&sb, table, expr, 0)
	return sb.String()
}

func TestPassOrderIndependence(t *testing.T) {
	ctxAB, tableAB, _ := newCtx()
	fixtureAB := combinedFixture(ctxAB)
	enumThenDSL := rewriter.Run([]rewriter.Pass{NewTEnum(ctxAB), NewTestDSL(ctxAB)}, fixtureAB, nil)

	ctxBA, tableBA, _ := newCtx()
	fixtureBA := combinedFixture(ctxBA)
	dslThenEnum := rewriter.Run([]rewriter.Pass{NewTestDSL(ctxBA), NewTEnum(ctxBA)}, fixtureBA, nil)

	got := render(tableAB, enumThenDSL)
	want := render(tableBA, dslThenEnum)
	if got != want {
		t.Errorf("TEnum and TestDSL passes are not order-independent:\nTEnum->TestDSL:\n%s\nTestDSL->TEnum:\n%s", got, want)
	}
}
