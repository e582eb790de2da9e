// Package features implements the Parse-Tree Feature Extractor: a single
// depth-first walk over a ptree.Tree that accumulates structural counters
// consumed by the Syntactic Comparator and Semantic-Equivalence Adjuster.
package features

import "codejudge/internal/ptree"

// ControlFlow is the fixed mapping over control-flow node kinds.
type ControlFlow struct {
	IfStatements     int `json:"if_statements"`
	ForLoops         int `json:"for_loops"`
	WhileLoops       int `json:"while_loops"`
	SwitchStatements int `json:"switch_statements"`
}

// Operations is the fixed mapping over operator categories.
type Operations struct {
	Arithmetic int `json:"arithmetic"`
	Logical    int `json:"logical"`
	Comparison int `json:"comparison"`
	Assignment int `json:"assignment"`
}

// ParseFeatures is the bundle produced by a single traversal of a parse
// tree. All sub-fields are normalized to their zero/empty form when a tree
// is absent, so comparison never needs to special-case a missing parse.
type ParseFeatures struct {
	TotalNodes           int            `json:"total_nodes"`
	Depth                int            `json:"depth"`
	Functions            []string       `json:"functions"`
	ControlFlow          ControlFlow    `json:"control_flow"`
	Operations           Operations     `json:"operations"`
	NodeTypes            map[string]int `json:"node_types"`
	FunctionCalls        []string       `json:"function_calls"`
	VariableDeclarations []string       `json:"variable_declarations"`
}

func empty() ParseFeatures {
	return ParseFeatures{NodeTypes: map[string]int{}}
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var logicalOps = map[string]bool{"&&": true, "||": true, "!": true}
var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

// Extract runs the single DFS pass described above. A nil or unavailable
// tree yields the zero-valued bundle. Extract never returns an error:
// per-node oddities (a nil child slipped in by a parser binding, a
// malformed operator node) are skipped and the walk continues, matching
// the "tolerant of errors" requirement: node-level failures only narrow
// what gets counted, they never abort the traversal.
func Extract(t ptree.Tree) ParseFeatures {
	f := empty()
	if !t.Available() {
		return f
	}
	walk(t.Root, 1, &f)
	return f
}

func walk(n ptree.Node, depth int, f *ParseFeatures) {
	if n == nil {
		return
	}
	f.TotalNodes++
	if depth > f.Depth {
		f.Depth = depth
	}
	typ := n.Type()
	f.NodeTypes[typ]++

	switch typ {
	case "if_statement":
		f.ControlFlow.IfStatements++
	case "for_statement":
		f.ControlFlow.ForLoops++
	case "while_statement":
		f.ControlFlow.WhileLoops++
	case "switch_statement":
		f.ControlFlow.SwitchStatements++
	case "binary_expression", "unary_expression":
		classifyOperator(n, f)
	case "assignment_expression", "init_declarator":
		f.Operations.Assignment++
	}

	switch typ {
	case "function_definition":
		if name := innermostIdentifier(n.Field("declarator")); name != "" {
			f.Functions = append(f.Functions, name)
		}
	case "call_expression":
		if fn := n.Field("function"); fn != nil {
			f.FunctionCalls = append(f.FunctionCalls, fn.Text())
		}
	case "declaration":
		if name := innermostIdentifier(n.Field("declarator")); name != "" {
			f.VariableDeclarations = append(f.VariableDeclarations, name)
		}
	}

	for _, c := range n.Children() {
		walk(c, depth+1, f)
	}
}

// classifyOperator inspects a binary/unary expression's operator child and
// buckets it into arithmetic, logical, or comparison. An operator node this
// extractor doesn't recognize contributes to none of the buckets rather
// than failing the walk.
func classifyOperator(n ptree.Node, f *ParseFeatures) {
	op := n.Field("operator")
	if op == nil {
		return
	}
	text := op.Text()
	switch {
	case arithmeticOps[text]:
		f.Operations.Arithmetic++
	case logicalOps[text]:
		f.Operations.Logical++
	case comparisonOps[text]:
		f.Operations.Comparison++
	}
}

// innermostIdentifier descends a declarator chain (pointer/array/function
// wrappers around a bare identifier) to the identifier text at its core.
func innermostIdentifier(n ptree.Node) string {
	for n != nil {
		if n.Type() == "identifier" {
			return n.Text()
		}
		if inner := n.Field("declarator"); inner != nil {
			n = inner
			continue
		}
		if len(n.Children()) > 0 {
			n = n.Children()[0]
			continue
		}
		return n.Text()
	}
	return ""
}
