package graph

import (
	"fmt"
	"sort"
	"strings"
)

// contentFields are the node data fields considered searchable, in priority
// order.
var contentFields = []string{"title", "name", "description", "content", "text"}

// ExtractContent derives the search-ready text blob for a node: the string
// form of each present, non-empty content field in priority order, followed
// by "key: value" lines for each string-valued entry of the nested
// properties map. Property keys are emitted in sorted order since Go maps
// carry no insertion order. Returns the empty string when nothing qualifies;
// such nodes stay out of the index but remain graph members.
func ExtractContent(n Node) string {
	var parts []string

	for _, field := range contentFields {
		value, ok := n.Data[field]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString {
			if s != "" {
				parts = append(parts, s)
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", value))
	}

	if props, ok := n.Data["properties"].(map[string]interface{}); ok {
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if s, isString := props[k].(string); isString && s != "" {
				parts = append(parts, k+": "+s)
			}
		}
	}

	return strings.Join(parts, " ")
}
