package tree

import "strings"

// PathDelimiter joins labels in a PathString, e.g. "System / Menus / Edit".
const PathDelimiter = " / "

// EncodePath joins the labels of n's ancestors (root first, n excluded) and n's own label.
// Callers supply the chain, typically accumulated during a walk.
func EncodePath(n *Node, ancestors []string) string {
	parts := make([]string, 0, len(ancestors)+1)
	parts = append(parts, ancestors...)
	parts = append(parts, n.Label)
	return strings.Join(parts, PathDelimiter)
}

// DecodePath resolves a PathString back to a node by matching labels level by level.
// Sibling labels are not disambiguated: the first match in forest order wins.
func DecodePath(path string, forest Forest) (*Node, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, PathDelimiter)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	level := []*Node(forest)
	for depth, seg := range segments {
		var match *Node
		for _, n := range level {
			if labelMatches(n, seg) {
				match = n
				break
			}
		}
		if match == nil {
			return nil, false
		}
		if depth == len(segments)-1 {
			return match, true
		}
		level = match.Children
	}
	return nil, false
}

// upstream data is inconsistent about which field carries the human name
func labelMatches(n *Node, label string) bool {
	if n.Label == label {
		return true
	}
	return strings.TrimSpace(n.Raw.Title) == label && label != ""
}

// ResolvePathID decodes path and falls back to a previously known id when nothing matches,
// so a form submit is never blocked by a stale display string.
func ResolvePathID(path string, forest Forest, fallback ID) ID {
	if n, ok := DecodePath(path, forest); ok {
		return n.ID
	}
	return fallback
}

// PathOf builds the PathString of id using an index.
func (idx *Index) PathOf(id ID) (string, bool) {
	n, ok := idx.nodes[id]
	if !ok {
		return "", false
	}
	ancestors := idx.Ancestors(id)
	labels := make([]string, len(ancestors))
	for i, a := range ancestors {
		labels[i] = a.Label
	}
	return EncodePath(n, labels), true
}

type PathOption struct {
	ID    ID
	Path  string
	Depth int
}

// PathOptions lists every node with its PathString in pre-order, for parent selectors.
// The subtree rooted at exclude is left out: a node cannot become its own descendant.
func PathOptions(forest Forest, exclude ID) []PathOption {
	out := make([]PathOption, 0, 16)
	var walk func(nodes []*Node, ancestors []string, depth int)
	walk = func(nodes []*Node, ancestors []string, depth int) {
		for _, n := range nodes {
			if !exclude.IsZero() && n.ID == exclude {
				continue
			}
			out = append(out, PathOption{ID: n.ID, Path: EncodePath(n, ancestors), Depth: depth})
			if n.Children != nil {
				next := make([]string, len(ancestors), len(ancestors)+1)
				copy(next, ancestors)
				walk(n.Children, append(next, n.Label), depth+1)
			}
		}
	}
	walk(forest, nil, 0)
	return out
}
