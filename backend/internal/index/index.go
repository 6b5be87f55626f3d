package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"patterngraph/backend/internal/graph"
	apperrors "patterngraph/backend/pkg/errors"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Embedder turns a batch of texts into embedding vectors. Implementations
// must preserve input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is the searchable content derived from one graph node.
type Document struct {
	NodeID string `json:"node_id"`
	Text   string `json:"text"`
}

// Match is a single similarity search hit.
type Match struct {
	NodeID string  `json:"node_id"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// Index is an immutable collection of (vector, document) pairs supporting
// nearest-neighbor search by cosine similarity. It is built once at startup
// and never mutated, so concurrent searches need no locking. A nil *Index
// represents the absent state: no index could be built.
type Index struct {
	docs     []Document
	vectors  [][]float32
	embedder Embedder
	logger   *zap.Logger
}

// Build extracts a document for every graph node with non-empty content,
// embeds all document texts in one batched provider call, and constructs the
// index. It returns a typed error (and no index) when there is nothing to
// index or the embedding provider fails; callers degrade to an absent index
// rather than crashing.
func Build(ctx context.Context, g *graph.Graph, embedder Embedder) (*Index, error) {
	log := logger.Get()

	if embedder == nil {
		return nil, apperrors.NewIndexUnavailable("no embedding provider configured")
	}

	docs := make([]Document, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		text := graph.ExtractContent(n)
		if text == "" {
			continue
		}
		docs = append(docs, Document{NodeID: n.ID, Text: text})
	}

	if len(docs) == 0 {
		return nil, apperrors.NewIndexUnavailable("no indexable documents in graph")
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, apperrors.NewIndexUnavailable("embedding provider failed: " + err.Error())
	}
	if len(vectors) != len(docs) {
		return nil, apperrors.NewIndexUnavailable("embedding provider returned wrong vector count")
	}

	log.Info("Vector index built",
		zap.Int("documents", len(docs)),
		zap.Int("graph_nodes", len(g.Nodes)),
	)

	return &Index{
		docs:     docs,
		vectors:  vectors,
		embedder: embedder,
		logger:   log,
	}, nil
}

// Size returns the number of indexed documents. Safe on a nil index.
func (idx *Index) Size() int {
	if idx == nil {
		return 0
	}
	return len(idx.docs)
}

// Search embeds the query and returns up to k matches ordered by descending
// cosine similarity. Ties keep document insertion order. A nil index fails
// with a typed index-unavailable error.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if idx == nil {
		return nil, apperrors.NewIndexUnavailable("index was not built")
	}

	queryVectors, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, apperrors.NewRetrievalFailed(query, err)
	}
	if len(queryVectors) != 1 {
		return nil, apperrors.NewRetrievalFailed(query, fmt.Errorf("expected 1 query vector, got %d", len(queryVectors)))
	}
	queryVector := queryVectors[0]

	matches := make([]Match, len(idx.docs))
	for i, d := range idx.docs {
		matches[i] = Match{
			NodeID: d.NodeID,
			Score:  cosineSimilarity(queryVector, idx.vectors[i]),
			Text:   d.Text,
		}
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}

	idx.logger.Debug("Similarity search completed",
		zap.String("query", query),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector has zero norm or the dimensions disagree.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
