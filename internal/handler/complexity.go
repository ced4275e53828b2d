package handler

import "codeatlas/internal/ast"

// Complexity computes cyclomatic complexity, statement count and maximum
// nesting depth for a method body in a single traversal.
//
// Complexity starts at 1 and increments once per branching construct
// (if/for/while/do/case/ternary); short-circuit operators add nothing.
// Nesting tracks entry into blocks and loop/if bodies. Statement count
// covers every statement node except blocks themselves.
func Complexity(method *ast.Node) Metrics {
	m := Metrics{CyclomaticComplexity: 1}
	depth := 0

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.KindIfStmt, ast.KindForStmt, ast.KindWhileStmt,
			ast.KindDoStmt, ast.KindCaseClause, ast.KindConditionalExpr:
			m.CyclomaticComplexity++
		}
		if n.Kind.IsStatement() && n.Kind != ast.KindBlock {
			m.StatementCount++
		}

		nests := false
		switch n.Kind {
		case ast.KindBlock, ast.KindIfStmt, ast.KindForStmt, ast.KindWhileStmt:
			nests = true
		}
		if nests {
			depth++
			if depth > m.MaxNestingDepth {
				m.MaxNestingDepth = depth
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
		if nests {
			depth--
		}
	}

	for _, c := range method.Children {
		walk(c)
	}
	return m
}
