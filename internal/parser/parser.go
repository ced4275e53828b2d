// Package parser is the tree-sitter front end. It turns TypeScript and
// JavaScript source text into the internal/ast taxonomy the analysis
// engines consume. The engines never touch tree-sitter types.
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codeatlas/internal/ast"
)

// Parser parses one language into ast trees. A Parser is cheap; a fresh
// sitter.Parser is created per Parse call, so a Parser value is safe for
// concurrent use.
type Parser struct {
	language *sitter.Language
	lang     string
}

// Language returns the parser's language name.
func (p *Parser) Language() string { return p.lang }

// Parse parses source and converts it to the engine taxonomy. Input that
// tree-sitter cannot produce a tree for yields an empty source file
// rather than an error; partial trees convert to partial ASTs.
func (p *Parser) Parse(source []byte) (*ast.Node, error) {
	tsParser := sitter.NewParser()
	defer tsParser.Close()

	tsParser.SetLanguage(p.language)

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return &ast.Node{Kind: ast.KindSourceFile}, nil
	}
	defer tree.Close()

	c := &converter{source: source}
	return &ast.Node{
		Kind:     ast.KindSourceFile,
		Children: c.convertChildren(tree.RootNode()),
	}, nil
}

type converter struct {
	source []byte
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.source[n.StartByte():n.EndByte()])
}

// convertChildren converts the named children of n, flattening through
// grammar nodes that have no mapping of their own so nested declarations
// and calls are never lost.
func (c *converter) convertChildren(n *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if mapped := c.convert(child); mapped != nil {
			out = append(out, mapped)
		} else {
			out = append(out, c.convertChildren(child)...)
		}
	}
	return out
}

// convert maps one tree-sitter node onto the taxonomy. Returns nil for
// kinds without a mapping; the caller flattens through them.
func (c *converter) convert(n *sitter.Node) *ast.Node {
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration":
		return c.convertFunction(n, ast.KindFunctionDecl)
	case "class_declaration":
		return c.convertClass(n)
	case "interface_declaration":
		return c.convertInterface(n)
	case "method_definition":
		return c.convertMethod(n)
	case "call_expression":
		return c.convertCall(n)
	case "member_expression":
		return &ast.Node{
			Kind:     ast.KindPropertyAccess,
			Text:     c.text(n),
			Children: c.convertChildren(n),
		}
	case "identifier", "property_identifier", "type_identifier":
		return &ast.Node{Kind: ast.KindIdentifier, Name: c.text(n)}
	case "statement_block":
		return &ast.Node{Kind: ast.KindBlock, Children: c.convertChildren(n)}
	case "if_statement":
		return &ast.Node{Kind: ast.KindIfStmt, Children: c.convertChildren(n)}
	case "for_statement", "for_in_statement":
		return &ast.Node{Kind: ast.KindForStmt, Children: c.convertChildren(n)}
	case "while_statement":
		return &ast.Node{Kind: ast.KindWhileStmt, Children: c.convertChildren(n)}
	case "do_statement":
		return &ast.Node{Kind: ast.KindDoStmt, Children: c.convertChildren(n)}
	case "switch_case":
		return &ast.Node{Kind: ast.KindCaseClause, Children: c.convertChildren(n)}
	case "ternary_expression":
		return &ast.Node{Kind: ast.KindConditionalExpr, Children: c.convertChildren(n)}
	case "expression_statement", "return_statement", "lexical_declaration",
		"variable_declaration", "throw_statement", "break_statement",
		"continue_statement", "switch_statement", "try_statement",
		"labeled_statement":
		return &ast.Node{Kind: ast.KindStatement, Children: c.convertChildren(n)}
	}
	return nil
}

func (c *converter) convertFunction(n *sitter.Node, kind ast.Kind) *ast.Node {
	fn := &ast.Node{
		Kind: kind,
		Name: c.text(n.ChildByFieldName("name")),
		Type: annotationText(c.text(n.ChildByFieldName("return_type"))),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Children = append(fn.Children, c.convertParameters(params)...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if mapped := c.convert(body); mapped != nil {
			fn.Children = append(fn.Children, mapped)
		}
	}
	return fn
}

func (c *converter) convertClass(n *sitter.Node) *ast.Node {
	class := &ast.Node{
		Kind: ast.KindClassDecl,
		Name: c.text(n.ChildByFieldName("name")),
	}

	// class_heritage wraps the extends and implements clauses.
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if child.Kind() != "class_heritage" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			clause := child.NamedChild(uint(j))
			switch clause.Kind() {
			case "extends_clause":
				class.Children = append(class.Children, c.convertHeritage(clause, "extends"))
			case "implements_clause":
				class.Children = append(class.Children, c.convertHeritage(clause, "implements"))
			}
		}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(uint(i))
			if member.Kind() != "method_definition" {
				continue
			}
			class.Children = append(class.Children, c.convertMethod(member))
		}
	}
	return class
}

func (c *converter) convertInterface(n *sitter.Node) *ast.Node {
	iface := &ast.Node{
		Kind: ast.KindInterfaceDecl,
		Name: c.text(n.ChildByFieldName("name")),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if child.Kind() == "extends_type_clause" {
			iface.Children = append(iface.Children, c.convertHeritage(child, "extends"))
		}
	}
	return iface
}

// convertHeritage builds a heritage clause whose children are the
// referenced base names.
func (c *converter) convertHeritage(clause *sitter.Node, keyword string) *ast.Node {
	h := &ast.Node{Kind: ast.KindHeritageClause, Name: keyword}
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		base := clause.NamedChild(uint(i))
		switch base.Kind() {
		case "identifier", "type_identifier", "member_expression", "generic_type":
			name := c.text(base)
			// Drop type arguments: "Repository<User>" refers to Repository.
			if lt := strings.IndexByte(name, '<'); lt > 0 {
				name = name[:lt]
			}
			h.Children = append(h.Children, &ast.Node{Kind: ast.KindIdentifier, Name: name})
		}
	}
	return h
}

func (c *converter) convertMethod(n *sitter.Node) *ast.Node {
	kind := ast.KindMethodDecl
	name := c.text(n.ChildByFieldName("name"))
	if name == "constructor" {
		kind = ast.KindConstructorDecl
	}
	method := &ast.Node{
		Kind:      kind,
		Name:      name,
		Type:      annotationText(c.text(n.ChildByFieldName("return_type"))),
		Modifiers: c.collectModifiers(n),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		method.Children = append(method.Children, c.convertParameters(params)...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if mapped := c.convert(body); mapped != nil {
			method.Children = append(method.Children, mapped)
		}
	}
	return method
}

func (c *converter) collectModifiers(n *sitter.Node) []string {
	var mods []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		switch child.Kind() {
		case "accessibility_modifier", "static", "async", "readonly", "override":
			mods = append(mods, c.text(child))
		}
	}
	return mods
}

func (c *converter) convertParameters(params *sitter.Node) []*ast.Node {
	var out []*ast.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(uint(i))
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			out = append(out, &ast.Node{
				Kind: ast.KindParameter,
				Name: c.text(p.ChildByFieldName("pattern")),
				Type: annotationText(c.text(p.ChildByFieldName("type"))),
			})
		case "identifier":
			// Plain JavaScript parameter, no annotation.
			out = append(out, &ast.Node{Kind: ast.KindParameter, Name: c.text(p)})
		}
	}
	return out
}

func (c *converter) convertCall(n *sitter.Node) *ast.Node {
	call := &ast.Node{Kind: ast.KindCallExpr, Text: c.text(n)}

	if fn := n.ChildByFieldName("function"); fn != nil {
		if mapped := c.convert(fn); mapped != nil {
			call.Children = append(call.Children, mapped)
		} else {
			// Unmapped callee shapes (parenthesized, await, etc) keep
			// their text so downstream heuristics can still inspect it.
			call.Children = append(call.Children, &ast.Node{
				Kind: ast.KindIdentifier,
				Text: c.text(fn),
			})
		}
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		call.Children = append(call.Children, c.convertChildren(args)...)
	}
	return call
}

// annotationText strips the leading ":" from a type annotation.
func annotationText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ":")
	return strings.TrimSpace(s)
}
