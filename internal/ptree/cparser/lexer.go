package cparser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// CLexer tokenizes a small C/C++ statement-and-expression subset: enough to
// carry the function/control-flow/expression shapes the feature extractor
// inspects, not a full preprocessor-aware C grammar.
var CLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Operator", `(\+\+|--|&&|\|\||==|!=|<=|>=|\+=|-=|\*=|/=|%=|[-+*/%=<>!&])`, nil},
		{"Punctuation", `[{}()\[\];,:]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
