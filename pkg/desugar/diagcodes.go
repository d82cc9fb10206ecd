package desugar

import "github.com/spicery/nutmeg-desugar/pkg/diagnostics"

type diagCode struct {
	code diagnostics.Code
	sev  diagnostics.Severity
}

var (
	diag_internal     = diagCode{diagnostics.InternalError, diagnostics.Internal}
	diag_unsupported  = diagCode{diagnostics.UnsupportedNode, diagnostics.Unsupported}
	diag_undef        = diagCode{diagnostics.UndefUsage, diagnostics.Unsupported}
	diag_int_range    = diagCode{diagnostics.IntegerOutOfRange, diagnostics.SourceError}
	diag_float_range  = diagCode{diagnostics.FloatOutOfRange, diagnostics.SourceError}
	diag_no_const_ra  = diagCode{diagnostics.NoConstantReassignment, diagnostics.SourceError}
	diag_invalid_sc   = diagCode{diagnostics.InvalidSingletonDef, diagnostics.SourceError}
	diag_code_in_rbi  = diagCode{diagnostics.CodeInRBI, diagnostics.SourceError}
	diag_unnamed_blk  = diagCode{diagnostics.UnnamedBlockParameter, diagnostics.SourceError}
	diag_unsup_rest   = diagCode{diagnostics.UnsupportedRestArgsDestruct, diagnostics.SourceError}
)
