// Package graph builds a structural dependency graph from a parsed source
// file: declarations, inheritance and membership relationships, and call
// edges classified as internal project code versus external dependencies.
package graph

import (
	"fmt"
	"strings"

	"codeatlas/internal/ast"
	"codeatlas/util"
)

const (
	layoutStepY = 100
	layoutMaxY  = 500
	layoutStepX = 250
)

// Config tunes the extractor. A zero Config uses the default ignore list.
type Config struct {
	// IgnorePrefixes overrides DefaultIgnorePrefixes when non-empty.
	IgnorePrefixes []string
}

// Extractor turns an AST into a Graph. It holds no per-run state; all
// traversal bookkeeping lives in a per-call pass value, so one Extractor
// is safe for concurrent Analyze calls.
type Extractor struct {
	ignorePrefixes []string
}

// NewExtractor creates an extractor with the given configuration.
func NewExtractor(cfg Config) *Extractor {
	prefixes := cfg.IgnorePrefixes
	if len(prefixes) == 0 {
		prefixes = DefaultIgnorePrefixes
	}
	return &Extractor{ignorePrefixes: prefixes}
}

// Analyze walks the tree and returns the structural graph. It never fails:
// malformed or partial trees produce a best-effort partial graph.
func (e *Extractor) Analyze(root *ast.Node) *Graph {
	p := &pass{
		ignorePrefixes: e.ignorePrefixes,
		index:          make(map[nodeKey]string),
		nodes:          []Node{},
		edges:          []Edge{},
	}
	p.visit(root)
	return &Graph{Nodes: p.nodes, Edges: p.edges}
}

// nodeKey deduplicates nodes per run: one node per (label, kind) pair.
type nodeKey struct {
	label string
	kind  NodeKind
}

// pass is the traversal state for a single Analyze call.
type pass struct {
	ignorePrefixes []string
	nodes          []Node
	edges          []Edge
	index          map[nodeKey]string
	counter        int
	cursorX        float64
	cursorY        float64
}

// visit dispatches on declaration kinds and recurses into all children,
// so nested classes, interfaces and functions are discovered wherever
// they appear.
func (p *pass) visit(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindFunctionDecl:
		p.visitFunction(n)
	case ast.KindClassDecl:
		p.visitClass(n)
	case ast.KindInterfaceDecl:
		p.visitInterface(n)
	}
	for _, c := range n.Children {
		p.visit(c)
	}
}

func (p *pass) visitFunction(fn *ast.Node) {
	label := fn.Name
	if label == "" {
		label = "anonymous"
	}
	id := p.getOrCreateNode(label, NodeFunction, renderSignature(fn))
	p.collectCalls(fn, id)
}

func (p *pass) visitClass(class *ast.Node) {
	label := class.Name
	if label == "" {
		label = "anonymous"
	}
	classID := p.getOrCreateNode(label, NodeClass, "")

	for _, clause := range ast.ChildrenOfKind(class, ast.KindHeritageClause) {
		relation := RelationImplements
		if clause.Name == "extends" {
			relation = RelationExtends
		}
		for _, base := range ast.ChildrenOfKind(clause, ast.KindIdentifier) {
			if base.Name == "" {
				continue
			}
			baseID := p.getOrCreateNode(base.Name, NodeClass, "")
			p.addEdge(classID, baseID, relation)
		}
	}

	for _, method := range ast.ChildrenOfKind(class, ast.KindMethodDecl) {
		name := method.Name
		if name == "" {
			name = "anonymous"
		}
		methodID := p.getOrCreateNode(name, NodeFunction, renderSignature(method))
		p.addEdge(classID, methodID, RelationDefault)
		p.collectCalls(method, methodID)
	}
}

func (p *pass) visitInterface(iface *ast.Node) {
	label := iface.Name
	if label == "" {
		label = "anonymous"
	}
	ifaceID := p.getOrCreateNode(label, NodeInterface, "")

	for _, clause := range ast.ChildrenOfKind(iface, ast.KindHeritageClause) {
		for _, base := range ast.ChildrenOfKind(clause, ast.KindIdentifier) {
			if base.Name == "" {
				continue
			}
			baseID := p.getOrCreateNode(base.Name, NodeInterface, "")
			p.addEdge(ifaceID, baseID, RelationExtends)
		}
	}
}

// collectCalls walks a function or method body and emits a call edge for
// every call expression whose callee is not classified as an external
// package call. Resolved callees reuse the existing function node;
// unresolved ones become call nodes.
func (p *pass) collectCalls(fn *ast.Node, ownerID string) {
	for _, child := range fn.Children {
		ast.Walk(child, func(n *ast.Node) bool {
			if n.Kind != ast.KindCallExpr {
				return true
			}
			callee := calleeText(n)
			if callee == "" {
				return true
			}
			if isExternalPackageCall(callee, p.ignorePrefixes) {
				return true
			}
			targetID, ok := p.index[nodeKey{label: callee, kind: NodeFunction}]
			if !ok {
				targetID = p.getOrCreateNode(callee, NodeCall, "")
			}
			p.addEdge(ownerID, targetID, RelationCalls)
			return true
		})
	}
}

// calleeText renders a call's callee expression. Property accesses rooted
// at the enclosing instance drop the "this." qualifier so instance method
// calls resolve against declared method names.
func calleeText(call *ast.Node) string {
	if len(call.Children) == 0 {
		return ""
	}
	callee := call.Children[0]
	switch callee.Kind {
	case ast.KindIdentifier:
		if callee.Name != "" {
			return callee.Name
		}
		return callee.Text
	case ast.KindPropertyAccess:
		text := callee.Text
		if strings.HasPrefix(text, "this.") {
			return strings.TrimPrefix(text, "this.")
		}
		return text
	}
	return ""
}

// renderSignature renders a parameter list and optional return type
// annotation, e.g. "(id: string, force: boolean): void".
func renderSignature(fn *ast.Node) string {
	params := ast.ChildrenOfKind(fn, ast.KindParameter)
	parts := make([]string, 0, len(params))
	for _, param := range params {
		if param.Type != "" {
			parts = append(parts, param.Name+": "+param.Type)
		} else {
			parts = append(parts, param.Name)
		}
	}
	sig := "(" + strings.Join(parts, ", ") + ")"
	if fn.Type != "" {
		sig += ": " + fn.Type
	}
	return sig
}

func (p *pass) getOrCreateNode(label string, kind NodeKind, detail string) string {
	key := nodeKey{label: label, kind: kind}
	if id, ok := p.index[key]; ok {
		return id
	}
	id := fmt.Sprintf("node-%d", p.counter)
	p.counter++
	p.nodes = append(p.nodes, Node{
		ID:       id,
		Kind:     kind,
		Label:    label,
		Detail:   detail,
		Position: p.nextPosition(),
	})
	p.index[key] = id
	return id
}

// nextPosition advances the shared layout cursor: down in steps of 100,
// wrapping to a new column of width 250 once y passes 500.
func (p *pass) nextPosition() Position {
	pos := Position{X: p.cursorX, Y: p.cursorY}
	p.cursorY += layoutStepY
	if p.cursorY > layoutMaxY {
		p.cursorY = 0
		p.cursorX += layoutStepX
	}
	return pos
}

func (p *pass) addEdge(source, target string, relation Relation) {
	p.edges = append(p.edges, Edge{
		ID:       util.EdgeID(source, target),
		Source:   source,
		Target:   target,
		Relation: relation,
	})
}
