package graph

import "sort"

// ContextNode is a node's id and data as included in an assembled context.
type ContextNode struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// ContextSummary summarizes an assembled context.
type ContextSummary struct {
	TotalNodes int      `json:"total_nodes"`
	TotalEdges int      `json:"total_edges"`
	NodeTypes  []string `json:"node_types"`
}

// Context is the combined node and edge data for a retrieved/expanded node
// set, used as grounding material for generation. It is a transient,
// per-query value.
type Context struct {
	Nodes   []ContextNode  `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Summary ContextSummary `json:"summary"`
}

// AssembleContext merges the data of every node in ids found in the graph
// (ids absent from the graph are silently dropped) with every edge whose both
// endpoints are in ids, plus summary statistics. Nodes are emitted in sorted
// id order so identical inputs yield identical contexts.
func AssembleContext(g *Graph, ids map[string]struct{}) Context {
	ctx := Context{
		Nodes: []ContextNode{},
		Edges: []Edge{},
	}

	typeSet := make(map[string]struct{})
	for _, id := range SortedIDs(ids) {
		node, found := g.FindNode(id)
		if !found {
			continue
		}
		ctx.Nodes = append(ctx.Nodes, ContextNode{ID: id, Data: node.Data})
		typeSet[node.Type()] = struct{}{}
	}

	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			continue
		}
		ctx.Edges = append(ctx.Edges, e)
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	ctx.Summary = ContextSummary{
		TotalNodes: len(ctx.Nodes),
		TotalEdges: len(ctx.Edges),
		NodeTypes:  types,
	}

	return ctx
}
