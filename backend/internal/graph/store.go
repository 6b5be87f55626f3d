package graph

import (
	"encoding/json"
	"os"

	apperrors "patterngraph/backend/pkg/errors"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Load parses the graph document at path. It returns a typed load error on a
// missing or malformed source; callers that must not abort startup should use
// LoadOrEmpty instead.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewGraphLoadFailed(path, err)
	}

	var g Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, apperrors.NewGraphLoadFailed(path, err)
	}

	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}

	return &g, nil
}

// LoadOrEmpty loads the graph document and degrades to an empty graph when
// the source is missing or malformed. The process keeps serving; queries
// against an empty graph simply report an unavailable index.
func LoadOrEmpty(path string) *Graph {
	log := logger.Get()

	g, err := Load(path)
	if err != nil {
		log.Warn("Failed to load graph, starting with empty graph",
			zap.String("path", path),
			zap.Error(err),
		)
		return EmptyGraph()
	}

	log.Info("Graph loaded",
		zap.String("path", path),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)
	return g
}

// EmptyGraph returns a graph with zero nodes and zero edges.
func EmptyGraph() *Graph {
	return &Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// BuildAdjacency builds the undirected adjacency structure: for every edge,
// the target is appended to the source's neighbor list and vice versa. Every
// node id gets an entry up front, so a lookup on a leaf node returns an empty
// slice rather than triggering an insert.
func BuildAdjacency(g *Graph) Adjacency {
	adj := make(Adjacency, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID] = []string{}
	}

	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	return adj
}
