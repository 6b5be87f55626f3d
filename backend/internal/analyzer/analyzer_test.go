package analyzer

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"patterngraph/backend/internal/graph"
	"patterngraph/backend/internal/index"
)

// Mock implementations for testing

type mockEmbedder struct{}

// Embed maps each text to its lowercase letter-frequency vector, so queries
// rank lexically similar documents first.
func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, 26)
		for _, r := range strings.ToLower(text) {
			if r >= 'a' && r <= 'z' {
				v[r-'a']++
			}
		}
		vectors[i] = v
	}
	return vectors, nil
}

type mockGenerator struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userMsg string) (string, error) {
	m.lastSystem = systemPrompt
	m.lastUser = userMsg
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func analyzerTestGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "A", Data: map[string]interface{}{"title": "Alpha pattern"}},
			{ID: "B", Data: map[string]interface{}{"title": "Beta pattern"}},
		},
		Edges: []graph.Edge{{Source: "A", Target: "B"}},
	}
}

func newTestAnalyzer(t *testing.T, gen Generator) *Analyzer {
	t.Helper()
	g := analyzerTestGraph()
	adjacency := graph.BuildAdjacency(g)

	idx, err := index.Build(context.Background(), g, &mockEmbedder{})
	if err != nil {
		t.Fatalf("Index build failed: %v", err)
	}

	return NewAnalyzer(g, adjacency, idx, gen)
}

func TestAnalyzeQuery_EndToEnd(t *testing.T) {
	gen := &mockGenerator{response: "The Alpha pattern connects to Beta."}
	a := newTestAnalyzer(t, gen)

	result := a.AnalyzeQuery(context.Background(), "Alpha")

	if result.Error != "" {
		t.Fatalf("Unexpected error: %s", result.Error)
	}
	if result.Query != "Alpha" {
		t.Errorf("Expected query echoed back, got %q", result.Query)
	}
	if len(result.RelevantNodes) == 0 || result.RelevantNodes[0] != "A" {
		t.Errorf("Expected A as first relevant node, got %v", result.RelevantNodes)
	}

	// Default depth 2 expansion must pull in the neighbor
	connected := make(map[string]bool)
	for _, id := range result.ConnectedNodes {
		connected[id] = true
	}
	if !connected["A"] || !connected["B"] {
		t.Errorf("Expected A and B connected, got %v", result.ConnectedNodes)
	}

	if result.GraphContext == nil {
		t.Fatal("Expected graph context")
	}
	foundEdge := false
	for _, e := range result.GraphContext.Edges {
		if (e.Source == "A" && e.Target == "B") || (e.Source == "B" && e.Target == "A") {
			foundEdge = true
		}
	}
	if !foundEdge {
		t.Error("Expected A-B edge in context")
	}

	if result.Analysis != gen.response {
		t.Errorf("Expected generator output in analysis, got %q", result.Analysis)
	}
}

func TestAnalyzeQuery_PromptContents(t *testing.T) {
	gen := &mockGenerator{response: "ok"}
	a := newTestAnalyzer(t, gen)

	a.AnalyzeQuery(context.Background(), "Alpha")

	if !strings.Contains(gen.lastSystem, "pattern analysis expert") {
		t.Error("System prompt must carry the role instruction")
	}
	if !strings.Contains(gen.lastSystem, "Document 1:") {
		t.Error("System prompt must serialize retrieved documents")
	}
	if !strings.Contains(gen.lastSystem, "Node A:") || !strings.Contains(gen.lastSystem, "Node B:") {
		t.Error("System prompt must serialize expanded node contents")
	}
	if gen.lastUser != "Alpha" {
		t.Errorf("User content must be the raw query, got %q", gen.lastUser)
	}
}

func TestAnalyzeQuery_AbsentIndex(t *testing.T) {
	g := analyzerTestGraph()
	a := NewAnalyzer(g, graph.BuildAdjacency(g), nil, &mockGenerator{response: "never"})

	result := a.AnalyzeQuery(context.Background(), "Alpha")

	if result.Error == "" {
		t.Fatal("Expected error envelope for absent index")
	}
	if len(result.RelevantNodes) != 0 || result.Analysis != "" {
		t.Errorf("Error envelope must not carry partial results: %+v", result)
	}
}

func TestAnalyzeQuery_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exhausted")}
	a := newTestAnalyzer(t, gen)

	result := a.AnalyzeQuery(context.Background(), "Alpha")

	if result.Error == "" {
		t.Fatal("Expected error envelope when generation fails")
	}
	if !strings.Contains(result.Error, "analysis generation failed") {
		t.Errorf("Unexpected error message: %s", result.Error)
	}
	if result.Analysis != "" {
		t.Error("Failed analysis must not carry generated text")
	}
}

func TestAnalyzeQuery_Idempotent(t *testing.T) {
	gen := &mockGenerator{response: "deterministic answer"}
	a := newTestAnalyzer(t, gen)

	first := a.AnalyzeQuery(context.Background(), "Alpha")
	second := a.AnalyzeQuery(context.Background(), "Alpha")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical queries must yield identical results:\n%+v\n%+v", first, second)
	}
}
