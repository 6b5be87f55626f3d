package analyzer

import (
	"context"
	"fmt"
	"strings"

	"patterngraph/backend/internal/graph"
	"patterngraph/backend/internal/index"
	"patterngraph/backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	// topK is how many documents similarity search returns per query.
	topK = 5
)

// systemRole is the fixed role instruction prepended to every generation
// request.
const systemRole = `You are a pattern analysis expert. Analyze the given query in the context of the provided graph data.
Focus on identifying patterns, relationships, and insights that could be valuable for business analysis.
Provide a clear, structured analysis with actionable insights.`

// State tracks where a query is in the analysis pipeline.
type State string

const (
	StateInit      State = "INIT"
	StateRetrieved State = "RETRIEVED"
	StateExpanded  State = "EXPANDED"
	StateAssembled State = "ASSEMBLED"
	StateAnalyzed  State = "ANALYZED"
	StateDone      State = "DONE"
	StateFailed    State = "FAILED"
)

// Generator produces text from a (system, user) content pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMsg string) (string, error)
}

// QueryResult is the envelope returned for every query. Either Error is set
// or the remaining fields are; AnalyzeQuery never fails any other way.
type QueryResult struct {
	Query          string         `json:"query"`
	RelevantNodes  []string       `json:"relevant_nodes,omitempty"`
	ConnectedNodes []string       `json:"connected_nodes,omitempty"`
	GraphContext   *graph.Context `json:"graph_context,omitempty"`
	Analysis       string         `json:"analysis,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Analyzer orchestrates similarity retrieval, graph expansion, context
// assembly and generation for one query at a time. Its graph, adjacency and
// index are process-wide read-only state, so concurrent queries are safe.
type Analyzer struct {
	graph     *graph.Graph
	adjacency graph.Adjacency
	index     *index.Index
	generator Generator
	logger    *zap.Logger
}

// NewAnalyzer creates a query analyzer. A nil index is accepted; queries
// then report the index as unavailable instead of crashing.
func NewAnalyzer(g *graph.Graph, adjacency graph.Adjacency, idx *index.Index, generator Generator) *Analyzer {
	return &Analyzer{
		graph:     g,
		adjacency: adjacency,
		index:     idx,
		generator: generator,
		logger:    logger.Get(),
	}
}

// AnalyzeQuery runs the full pipeline for one query and always returns a
// result envelope: retrieval, multi-hop expansion, context assembly and
// generation, or an error field when any step fails. No failure below this
// boundary escapes as an error value.
func (a *Analyzer) AnalyzeQuery(ctx context.Context, query string) *QueryResult {
	result := &QueryResult{Query: query}
	state := StateInit

	fail := func(msg string, err error) *QueryResult {
		a.transition(&state, StateFailed)
		if err != nil {
			result.Error = fmt.Sprintf("%s: %v", msg, err)
		} else {
			result.Error = msg
		}
		a.logger.Warn("Query analysis failed",
			zap.String("query", query),
			zap.String("error", result.Error),
		)
		return result
	}

	if a.index == nil {
		return fail("vector index not available", nil)
	}

	matches, err := a.index.Search(ctx, query, topK)
	if err != nil {
		return fail("similarity search failed", err)
	}
	a.transition(&state, StateRetrieved)

	relevant := make([]string, len(matches))
	for i, m := range matches {
		relevant[i] = m.NodeID
	}

	connected := graph.Expand(relevant, a.adjacency, graph.DefaultExpandDepth)
	a.transition(&state, StateExpanded)

	graphContext := graph.AssembleContext(a.graph, connected)
	a.transition(&state, StateAssembled)

	systemPrompt := a.buildSystemPrompt(matches, connected)
	analysis, err := a.generator.Generate(ctx, systemPrompt, query)
	if err != nil {
		return fail("analysis generation failed", err)
	}
	a.transition(&state, StateAnalyzed)

	result.RelevantNodes = relevant
	result.ConnectedNodes = graph.SortedIDs(connected)
	result.GraphContext = &graphContext
	result.Analysis = analysis
	a.transition(&state, StateDone)

	a.logger.Info("Query analyzed",
		zap.String("query", query),
		zap.Int("relevant_nodes", len(result.RelevantNodes)),
		zap.Int("connected_nodes", len(result.ConnectedNodes)),
	)

	return result
}

// buildSystemPrompt serializes the retrieved documents and expanded node
// contents under the fixed role instruction, blank-line separated.
func (a *Analyzer) buildSystemPrompt(matches []index.Match, connected map[string]struct{}) string {
	var parts []string

	for i, m := range matches {
		parts = append(parts, fmt.Sprintf("Document %d: %s", i+1, m.Text))
	}

	for _, id := range graph.SortedIDs(connected) {
		node, found := a.graph.FindNode(id)
		if !found {
			continue
		}
		parts = append(parts, fmt.Sprintf("Node %s: %s", id, graph.ExtractContent(*node)))
	}

	return systemRole + "\n\nContext:\n\n" + strings.Join(parts, "\n\n")
}

func (a *Analyzer) transition(state *State, to State) {
	a.logger.Debug("Analyzer state transition",
		zap.String("from", string(*state)),
		zap.String("to", string(to)),
	)
	*state = to
}
