package graph

// NodeKind classifies a graph vertex.
type NodeKind string

const (
	NodeFunction  NodeKind = "function"
	NodeClass     NodeKind = "class"
	NodeInterface NodeKind = "interface"
	NodeCall      NodeKind = "call"
)

// Relation classifies a graph edge.
type Relation string

const (
	RelationDefault    Relation = "default"
	RelationCalls      Relation = "calls"
	RelationImplements Relation = "implements"
	RelationExtends    Relation = "extends"
)

// Position is a 2-D layout coordinate handed to the visualization layer.
// Units are arbitrary; consumers scale as they see fit.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents a declaration or an unresolved call site.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Label    string   `json:"label"`
	Detail   string   `json:"detail,omitempty"`
	Position Position `json:"position"`
}

// Edge represents a directed relationship between two nodes. Edge ids are
// derived from (source, target), so repeated calls between the same pair
// produce edges with colliding ids. That is accepted behavior: consumers
// treat the edge list, not the id, as authoritative.
type Edge struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
}

// Graph is the structural extractor's output for one source file.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
