package cparser

import "codejudge/internal/ptree"

// convert.go turns this package's participle AST into the generic
// ptree.Node shape the feature extractor consumes. Node type strings follow
// the tree-sitter-C convention the extractor's switch statements are
// written against (function_definition, if_statement, binary_expression,
// ...) so any future real tree-sitter binding is a drop-in replacement for
// this one.

func ident(name string) *ptree.FixtureNode {
	return ptree.NewFixtureNode("identifier", name)
}

func convertUnit(u *TranslationUnit) ptree.Node {
	root := ptree.NewFixtureNode("translation_unit", "")
	for _, fn := range u.Functions {
		root.AddChild(convertFunction(fn))
	}
	return root
}

func convertFunction(fn *FunctionDef) ptree.Node {
	n := ptree.NewFixtureNode("function_definition", fn.Name)
	decl := ident(fn.Name)
	n.SetField("declarator", decl)
	n.AddChild(decl)
	for _, p := range fn.Params {
		n.AddChild(ident(p.Name))
	}
	if fn.Body != nil {
		n.AddChild(convertCompound(fn.Body))
	}
	return n
}

func convertCompound(c *CompoundStmt) ptree.Node {
	n := ptree.NewFixtureNode("compound_statement", "")
	for _, s := range c.Stmts {
		if child := convertStmt(s); child != nil {
			n.AddChild(child)
		}
	}
	return n
}

func convertStmt(s *Stmt) ptree.Node {
	switch {
	case s.If != nil:
		return convertIf(s.If)
	case s.For != nil:
		return convertFor(s.For)
	case s.While != nil:
		return convertWhile(s.While)
	case s.Switch != nil:
		return convertSwitch(s.Switch)
	case s.Return != nil:
		return convertReturn(s.Return)
	case s.Case != nil:
		n := ptree.NewFixtureNode("case_label", "")
		if s.Case.Value != nil {
			n.AddChild(convertExpr(s.Case.Value))
		}
		return n
	case s.Default != nil:
		return ptree.NewFixtureNode("default_label", "")
	case s.Decl != nil:
		return convertDecl(s.Decl)
	case s.Compound != nil:
		return convertCompound(s.Compound)
	case s.Expr != nil:
		return convertExpr(s.Expr.Expr)
	}
	return nil
}

func convertIf(s *IfStmt) ptree.Node {
	n := ptree.NewFixtureNode("if_statement", "")
	n.AddChild(convertExpr(s.Cond))
	n.AddChild(convertStmt(s.Then))
	if s.Else != nil {
		n.AddChild(convertStmt(s.Else))
	}
	return n
}

func convertFor(s *ForStmt) ptree.Node {
	n := ptree.NewFixtureNode("for_statement", "")
	if s.Init != nil {
		switch {
		case s.Init.Decl != nil:
			n.AddChild(convertDeclNoSemi(s.Init.Decl))
		case s.Init.Expr != nil:
			n.AddChild(convertExpr(s.Init.Expr))
		}
	}
	if s.Cond != nil {
		n.AddChild(convertExpr(s.Cond))
	}
	if s.Post != nil {
		n.AddChild(convertExpr(s.Post))
	}
	n.AddChild(convertStmt(s.Body))
	return n
}

func convertWhile(s *WhileStmt) ptree.Node {
	n := ptree.NewFixtureNode("while_statement", "")
	n.AddChild(convertExpr(s.Cond))
	n.AddChild(convertStmt(s.Body))
	return n
}

func convertSwitch(s *SwitchStmt) ptree.Node {
	n := ptree.NewFixtureNode("switch_statement", "")
	n.AddChild(convertExpr(s.Cond))
	n.AddChild(convertCompound(s.Body))
	return n
}

func convertReturn(s *ReturnStmt) ptree.Node {
	n := ptree.NewFixtureNode("return_statement", "")
	if s.Expr != nil {
		n.AddChild(convertExpr(s.Expr))
	}
	return n
}

func convertDecl(d *DeclStmt) ptree.Node {
	return declarationNode(d.Declarators)
}

func convertDeclNoSemi(d *DeclNoSemi) ptree.Node {
	return declarationNode(d.Declarators)
}

// declarationNode builds one "declaration" node per declarator, so a
// multi-variable statement like `int a, b;` records a distinct "declarator"
// field per name instead of one field overwritten by the last declarator. A
// single-declarator statement keeps its original one-node shape; multiple
// declarators are wrapped under a "declaration_list" node purely to give the
// caller a single ptree.Node to attach; the extractor's "declaration" case
// fires once per wrapped child regardless.
func declarationNode(declarators []*InitDeclarator) ptree.Node {
	if len(declarators) == 1 {
		return convertSingleDeclarator(declarators[0])
	}
	wrapper := ptree.NewFixtureNode("declaration_list", "")
	for _, id := range declarators {
		wrapper.AddChild(convertSingleDeclarator(id))
	}
	return wrapper
}

func convertSingleDeclarator(id *InitDeclarator) ptree.Node {
	n := ptree.NewFixtureNode("declaration", "")
	n.AddChild(convertInitDeclarator(id, n))
	return n
}

// convertInitDeclarator emits an init_declarator node when the declarator
// carries an initializer (so the extractor counts it as an assignment),
// otherwise a bare identifier; either way it records the declaration's
// "declarator" field so the extractor's innermost-identifier walk resolves
// the declared name.
func convertInitDeclarator(id *InitDeclarator, owner *ptree.FixtureNode) ptree.Node {
	name := ident(id.Name)
	if id.Init == nil {
		owner.SetField("declarator", name)
		return name
	}
	n := ptree.NewFixtureNode("init_declarator", id.Name)
	n.SetField("declarator", name)
	n.AddChild(name)
	n.AddChild(convertExpr(id.Init))
	owner.SetField("declarator", n)
	return n
}

func convertExpr(e *Expr) ptree.Node {
	left := convertBinary(e.Left)
	if e.AssignOp == "" || e.Right == nil {
		return left
	}
	n := ptree.NewFixtureNode("assignment_expression", e.AssignOp)
	op := ptree.NewFixtureNode("operator", e.AssignOp)
	n.SetField("operator", op)
	n.AddChild(left)
	n.AddChild(op)
	n.AddChild(convertExpr(e.Right))
	return n
}

func convertBinary(b *BinaryExpr) ptree.Node {
	result := convertUnary(b.Left)
	for _, op := range b.Ops {
		n := ptree.NewFixtureNode("binary_expression", op.Operator)
		opNode := ptree.NewFixtureNode("operator", op.Operator)
		n.SetField("operator", opNode)
		n.AddChild(result)
		n.AddChild(opNode)
		n.AddChild(convertUnary(op.Right))
		result = n
	}
	return result
}

func convertUnary(u *UnaryExpr) ptree.Node {
	postfix := convertPostfix(u.Postfix)
	if u.Op == "" {
		return postfix
	}
	n := ptree.NewFixtureNode("unary_expression", u.Op)
	op := ptree.NewFixtureNode("operator", u.Op)
	n.SetField("operator", op)
	n.AddChild(op)
	n.AddChild(postfix)
	return n
}

func convertPostfix(p *PostfixExpr) ptree.Node {
	primary := convertPrimary(p.Primary)
	if p.IncDec == "" {
		return primary
	}
	n := ptree.NewFixtureNode("unary_expression", p.IncDec)
	op := ptree.NewFixtureNode("operator", p.IncDec)
	n.SetField("operator", op)
	n.AddChild(primary)
	n.AddChild(op)
	return n
}

func convertPrimary(p *PrimaryExpr) ptree.Node {
	switch {
	case p.Call != nil:
		return convertCall(p.Call)
	case p.Number != nil:
		return ptree.NewFixtureNode("number_literal", *p.Number)
	case p.Ident != nil:
		return ident(*p.Ident)
	case p.Paren != nil:
		return convertExpr(p.Paren)
	}
	return ptree.NewFixtureNode("error", "")
}

func convertCall(c *CallExpr) ptree.Node {
	n := ptree.NewFixtureNode("call_expression", c.Name)
	fn := ident(c.Name)
	n.SetField("function", fn)
	n.AddChild(fn)
	for _, arg := range c.Args {
		n.AddChild(convertExpr(arg))
	}
	return n
}
