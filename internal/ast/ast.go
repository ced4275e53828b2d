// Package ast defines the node taxonomy the analysis engines consume.
//
// The tree is produced by a parser front end (internal/parser) but the
// engines never depend on the parser: any tree of Nodes with the kinds
// below is a valid input.
package ast

// Kind identifies the syntactic category of a node.
type Kind int

const (
	KindSourceFile Kind = iota
	KindFunctionDecl
	KindClassDecl
	KindInterfaceDecl
	KindMethodDecl
	KindConstructorDecl
	KindHeritageClause
	KindParameter
	KindCallExpr
	KindPropertyAccess
	KindIdentifier
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindDoStmt
	KindCaseClause
	KindConditionalExpr
	KindBlock
	KindStatement
)

var kindNames = map[Kind]string{
	KindSourceFile:      "source_file",
	KindFunctionDecl:    "function_declaration",
	KindClassDecl:       "class_declaration",
	KindInterfaceDecl:   "interface_declaration",
	KindMethodDecl:      "method_declaration",
	KindConstructorDecl: "constructor_declaration",
	KindHeritageClause:  "heritage_clause",
	KindParameter:       "parameter",
	KindCallExpr:        "call_expression",
	KindPropertyAccess:  "property_access",
	KindIdentifier:      "identifier",
	KindIfStmt:          "if_statement",
	KindForStmt:         "for_statement",
	KindWhileStmt:       "while_statement",
	KindDoStmt:          "do_statement",
	KindCaseClause:      "case_clause",
	KindConditionalExpr: "conditional_expression",
	KindBlock:           "block",
	KindStatement:       "statement",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsStatement reports whether the kind is a statement-level construct.
// Blocks count as statements here; callers that need to exclude them
// (statement metrics) check KindBlock separately.
func (k Kind) IsStatement() bool {
	switch k {
	case KindIfStmt, KindForStmt, KindWhileStmt, KindDoStmt, KindBlock, KindStatement:
		return true
	}
	return false
}

// Node is one vertex of the parsed tree. Fields are populated per kind:
//
//   - Name: declared name (functions, classes, methods, parameters) or the
//     heritage keyword ("extends"/"implements") on heritage clauses.
//   - Text: source text of expressions; for a PropertyAccess this is the
//     full dotted chain (e.g. "this.repo.save").
//   - Type: type annotation text (parameters, function return types).
//   - Modifiers: access and storage modifiers in source order.
//
// Missing information is the zero value; the engines default rather than
// fail (unnamed functions render as "anonymous").
type Node struct {
	Kind      Kind
	Name      string
	Text      string
	Type      string
	Modifiers []string
	Children  []*Node
}

// Walk visits n and its descendants pre-order. Returning false from the
// visitor prunes the subtree below the current node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// FindFirst returns the first node of the given kind in pre-order, or nil.
func FindFirst(n *Node, kind Kind) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Kind == kind {
			found = c
			return false
		}
		return true
	})
	return found
}

// ChildrenOfKind returns the direct children of n with the given kind.
func ChildrenOfKind(n *Node, kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// HasModifier reports whether the node carries the named modifier.
func (n *Node) HasModifier(name string) bool {
	for _, m := range n.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}
