package passes

// Mirrors the subset of pkg/desugar's Magic pseudo-module vocabulary
// the two passes need to recognize in already-desugared TAST.
const (
	magicModule  = "Magic"
	magicSelfNew = "<self-new>"
)
