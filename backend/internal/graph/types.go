package graph

// Node represents a case-study entity in the knowledge graph. The Data map
// carries arbitrary fields from the graph document; the ones the extractor
// cares about are title, name, description, content, text and the nested
// properties map.
type Node struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// Edge represents an undirected connection between two node ids. A single
// edge record is interpreted symmetrically.
type Edge struct {
	Source string                 `json:"source"`
	Target string                 `json:"target"`
	Data   map[string]interface{} `json:"data"`
}

// Graph owns the ordered node and edge sequences loaded from the graph
// document. It is loaded once at startup and treated as immutable for the
// process lifetime, so concurrent readers need no synchronization.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Adjacency maps a node id to the ids of its neighbors. Every node id known
// to the graph has an entry, possibly empty, so lookups never need to insert
// a default. Duplicate edges produce duplicate neighbor entries; that widens
// the expansion frontier but does not change reachability.
type Adjacency map[string][]string

// FindNode returns the node with the given id, if present.
func (g *Graph) FindNode(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// NodeType returns the node's data.type field, or "unknown" when absent or
// not a string.
func (n *Node) Type() string {
	if t, ok := n.Data["type"].(string); ok && t != "" {
		return t
	}
	return "unknown"
}
