package graph

import "sort"

// DefaultExpandDepth is the number of adjacency hops used by the analyzer.
const DefaultExpandDepth = 2

// Expand runs a breadth-first traversal from the seed ids over the adjacency
// structure for up to maxDepth rounds. Each round adds every node one hop
// from the current frontier the first time it is seen; traversal stops early
// once a round adds nothing new. With maxDepth 0 the result is exactly the
// seed set. Seeds are sorted before traversal so frontier order is
// deterministic.
func Expand(seeds []string, adj Adjacency, maxDepth int) map[string]struct{} {
	ordered := append([]string(nil), seeds...)
	sort.Strings(ordered)

	visited := make(map[string]struct{}, len(ordered))
	frontier := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if _, seen := visited[id]; !seen {
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	for depth := 0; depth < maxDepth; depth++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range adj[id] {
				if _, seen := visited[neighbor]; !seen {
					visited[neighbor] = struct{}{}
					next = append(next, neighbor)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	return visited
}

// SortedIDs returns the ids of a node set in sorted order, for deterministic
// serialization.
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
