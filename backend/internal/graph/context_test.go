package graph

import (
	"reflect"
	"testing"
)

func contextTestGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "A", Data: map[string]interface{}{"title": "Alpha", "type": "case_study"}},
			{ID: "B", Data: map[string]interface{}{"title": "Beta", "type": "company"}},
			{ID: "C", Data: map[string]interface{}{"title": "Gamma"}},
		},
		Edges: []Edge{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
		},
	}
}

func idSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestAssembleContext(t *testing.T) {
	g := contextTestGraph()

	ctx := AssembleContext(g, idSet("A", "B"))

	if len(ctx.Nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(ctx.Nodes))
	}
	if len(ctx.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(ctx.Edges))
	}
	if ctx.Edges[0].Source != "A" || ctx.Edges[0].Target != "B" {
		t.Errorf("Unexpected edge: %+v", ctx.Edges[0])
	}
	if ctx.Summary.TotalNodes != 2 || ctx.Summary.TotalEdges != 1 {
		t.Errorf("Unexpected summary: %+v", ctx.Summary)
	}
	if !reflect.DeepEqual(ctx.Summary.NodeTypes, []string{"case_study", "company"}) {
		t.Errorf("Unexpected node types: %v", ctx.Summary.NodeTypes)
	}
}

func TestAssembleContext_EdgesRequireBothEndpoints(t *testing.T) {
	g := contextTestGraph()

	ctx := AssembleContext(g, idSet("A", "C"))

	// A-B and B-C each have one endpoint outside the set
	if len(ctx.Edges) != 0 {
		t.Errorf("Expected no edges, got %v", ctx.Edges)
	}

	// Every returned edge must come from the graph with both endpoints in
	// the set
	full := AssembleContext(g, idSet("A", "B", "C"))
	if len(full.Edges) != len(g.Edges) {
		t.Errorf("Expected all %d edges, got %d", len(g.Edges), len(full.Edges))
	}
}

func TestAssembleContext_UnknownIDsDropped(t *testing.T) {
	g := contextTestGraph()

	ctx := AssembleContext(g, idSet("A", "missing"))

	if len(ctx.Nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(ctx.Nodes))
	}
	if ctx.Nodes[0].ID != "A" {
		t.Errorf("Expected node A, got %s", ctx.Nodes[0].ID)
	}
}

func TestAssembleContext_DefaultNodeType(t *testing.T) {
	g := contextTestGraph()

	ctx := AssembleContext(g, idSet("C"))

	if !reflect.DeepEqual(ctx.Summary.NodeTypes, []string{"unknown"}) {
		t.Errorf("Expected [unknown], got %v", ctx.Summary.NodeTypes)
	}
}

func TestAssembleContext_Deterministic(t *testing.T) {
	g := contextTestGraph()
	ids := idSet("A", "B", "C")

	first := AssembleContext(g, ids)
	second := AssembleContext(g, ids)

	if !reflect.DeepEqual(first, second) {
		t.Error("Identical inputs must produce identical contexts")
	}
}

func TestAssembleContext_EmptySet(t *testing.T) {
	g := contextTestGraph()

	ctx := AssembleContext(g, idSet())

	if len(ctx.Nodes) != 0 || len(ctx.Edges) != 0 {
		t.Errorf("Expected empty context, got %+v", ctx)
	}
	if ctx.Summary.TotalNodes != 0 || ctx.Summary.TotalEdges != 0 {
		t.Errorf("Expected zero summary, got %+v", ctx.Summary)
	}
}
