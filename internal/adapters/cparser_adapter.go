package adapters

import (
	"context"

	"codejudge/internal/ptree"
	"codejudge/internal/ptree/cparser"
	"codejudge/internal/verdict"
)

// CParser wraps the in-process participle-based parser as the external
// parser collaborator, the CLI's stand-in for a real tree-sitter
// binding.
type CParser struct{}

func (CParser) Parse(_ context.Context, in verdict.ProgramInput) (ptree.Tree, error) {
	return cparser.Parse(in.Source)
}
