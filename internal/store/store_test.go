package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/graph"
	"codeatlas/internal/handler"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "node-0", Kind: graph.NodeClass, Label: "OrderHandler", Position: graph.Position{Y: 0}},
			{ID: "node-1", Kind: graph.NodeFunction, Label: "handleOrder", Position: graph.Position{Y: 100}},
			{ID: "node-2", Kind: graph.NodeCall, Label: "save", Position: graph.Position{Y: 200}},
		},
		Edges: []graph.Edge{
			{ID: "edge-a", Source: "node-0", Target: "node-1", Relation: graph.RelationDefault},
			{ID: "edge-b", Source: "node-1", Target: "node-2", Relation: graph.RelationCalls},
			{ID: "edge-b", Source: "node-1", Target: "node-2", Relation: graph.RelationCalls},
		},
	}
}

func TestGraphRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)
	require.NotEmpty(t, snap)

	require.NoError(t, s.SaveGraph(ctx, snap, "src/order.ts", testGraph()))

	g, err := s.LoadGraph(ctx, snap)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "src/order.ts::node-0", g.Nodes[0].ID)
	assert.Equal(t, graph.NodeClass, g.Nodes[0].Kind)
	assert.Equal(t, 100.0, g.Nodes[1].Position.Y)

	require.Len(t, g.Edges, 3, "duplicate edges must survive the round trip")
	assert.Equal(t, "src/order.ts::node-1", g.Edges[1].Source)
	assert.Equal(t, g.Edges[1].ID, g.Edges[2].ID)
}

func TestSaveGraphReplacesFile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)

	require.NoError(t, s.SaveGraph(ctx, snap, "a.ts", testGraph()))
	require.NoError(t, s.SaveGraph(ctx, snap, "a.ts", &graph.Graph{
		Nodes: []graph.Node{{ID: "node-0", Kind: graph.NodeFunction, Label: "only"}},
	}))

	g, err := s.LoadGraph(ctx, snap)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "only", g.Nodes[0].Label)
	assert.Empty(t, g.Edges)
}

func TestLatestSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, id, "empty store has no snapshot")

	first, err := s.NewSnapshot(ctx, "/a")
	require.NoError(t, err)
	latest, err := s.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, latest)
}

func TestSaveHandler(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)

	d := &handler.Descriptor{HandlerName: "OrderHandler", MethodName: "handleOrder"}
	require.NoError(t, s.SaveHandler(ctx, snap, "src/order.ts", d))
	// Replacing the same file must not error.
	require.NoError(t, s.SaveHandler(ctx, snap, "src/order.ts", d))
}

func TestPruneStaleFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)
	require.NoError(t, s.SaveGraph(ctx, snap, "keep.ts", testGraph()))
	require.NoError(t, s.SaveGraph(ctx, snap, "gone.ts", testGraph()))

	require.NoError(t, s.PruneStaleFiles(ctx, snap, []string{"keep.ts"}))

	g, err := s.LoadGraph(ctx, snap)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)
	for _, n := range g.Nodes {
		assert.Contains(t, n.ID, "keep.ts::")
	}
}

func TestFindImpact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)

	// handleOrder -> save, OrderHandler -> handleOrder. Changing "save"
	// impacts both ancestors.
	require.NoError(t, s.SaveGraph(ctx, snap, "src/order.ts", testGraph()))

	impacted, err := s.FindImpact(ctx, snap, "save")
	require.NoError(t, err)
	assert.Equal(t, []string{"OrderHandler", "handleOrder"}, impacted)

	impacted, err = s.FindImpact(ctx, snap, "OrderHandler")
	require.NoError(t, err)
	assert.Empty(t, impacted, "nothing depends on the root")

	impacted, err = s.FindImpact(ctx, snap, "doesNotExist")
	require.NoError(t, err)
	assert.Nil(t, impacted)
}

func TestFindImpactAcrossFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.NewSnapshot(ctx, "/workspace")
	require.NoError(t, err)

	// Same label in two files: both occurrences seed the traversal.
	require.NoError(t, s.SaveGraph(ctx, snap, "a.ts", &graph.Graph{
		Nodes: []graph.Node{
			{ID: "node-0", Kind: graph.NodeFunction, Label: "callerA"},
			{ID: "node-1", Kind: graph.NodeCall, Label: "shared"},
		},
		Edges: []graph.Edge{
			{ID: "e", Source: "node-0", Target: "node-1", Relation: graph.RelationCalls},
		},
	}))
	require.NoError(t, s.SaveGraph(ctx, snap, "b.ts", &graph.Graph{
		Nodes: []graph.Node{
			{ID: "node-0", Kind: graph.NodeFunction, Label: "callerB"},
			{ID: "node-1", Kind: graph.NodeCall, Label: "shared"},
		},
		Edges: []graph.Edge{
			{ID: "e", Source: "node-0", Target: "node-1", Relation: graph.RelationCalls},
		},
	}))

	impacted, err := s.FindImpact(ctx, snap, "shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"callerA", "callerB"}, impacted)
}
