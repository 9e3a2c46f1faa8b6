package tree

import "sort"

// ExpansionSet holds the ids of expanded nodes. It is owned by one UI session and
// mutated in place.
type ExpansionSet map[ID]struct{}

func NewExpansionSet(ids ...ID) ExpansionSet {
	s := make(ExpansionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ExpansionSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

func (s ExpansionSet) Expand(ids ...ID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s ExpansionSet) Collapse(ids ...ID) {
	for _, id := range ids {
		delete(s, id)
	}
}

// Toggle flips id and reports whether it is expanded afterwards.
func (s ExpansionSet) Toggle(id ID) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s ExpansionSet) IDs() []ID {
	return sortedIDs(s)
}

// ExpandAll expands every node that has children.
func ExpandAll(forest Forest) ExpansionSet {
	return ExpandToDepth(forest, -1)
}

// ExpandToDepth expands parents shallower than depth, so depth=1 shows roots and their
// children. A negative depth expands everything.
func ExpandToDepth(forest Forest, depth int) ExpansionSet {
	s := NewExpansionSet()
	forest.Walk(func(n *Node, d int) bool {
		if depth >= 0 && d >= depth {
			return false
		}
		if n.Children != nil {
			s[n.ID] = struct{}{}
		}
		return true
	})
	return s
}

// ExpandAncestors expands the ancestors of each id so the node itself becomes visible.
func ExpandAncestors(forest Forest, ids []ID) ExpansionSet {
	idx := forest.Index()
	s := NewExpansionSet()
	for _, id := range ids {
		for _, a := range idx.Ancestors(id) {
			s[a.ID] = struct{}{}
		}
	}
	return s
}

func sortedIDs[M ~map[ID]struct{}](m M) []ID {
	out := make([]ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
