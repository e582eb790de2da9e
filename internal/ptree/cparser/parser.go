package cparser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"codejudge/internal/ptree"
)

var build = participle.MustBuild[TranslationUnit](
	participle.Lexer(CLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// Parse is the in-process stand-in for the external parser collaborator:
// it turns a source string into a ptree.Tree the feature extractor can
// walk. A syntax error yields an unavailable tree and the error, which
// callers surface as a parse-unavailable diagnostic rather than a crash.
func Parse(source string) (ptree.Tree, error) {
	unit, err := build.ParseString("", source)
	if err != nil {
		return ptree.Tree{}, fmt.Errorf("cparser: %w", err)
	}
	return ptree.Tree{Root: convertUnit(unit)}, nil
}
