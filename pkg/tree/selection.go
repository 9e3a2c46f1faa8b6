package tree

// SelectionSet holds the ids of checked nodes.
// Engine functions never mutate their input; they return a new set.
type SelectionSet map[ID]struct{}

func NewSelectionSet(ids ...ID) SelectionSet {
	s := make(SelectionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SelectionSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the selected ids sorted, ready for a request body.
func (s SelectionSet) IDs() []ID {
	return sortedIDs(s)
}

func (s SelectionSet) Clone() SelectionSet {
	out := make(SelectionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

func (c CheckState) String() string {
	switch c {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Toggle flips id and cascades the new state to every descendant.
// An id that is not in the forest leaves the selection unchanged.
func Toggle(forest Forest, sel SelectionSet, id ID) SelectionSet {
	out := sel.Clone()
	n, ok := forest.Find(id)
	if !ok {
		return out
	}
	ids := append([]ID{n.ID}, Descendants(n)...)
	if sel.Has(id) {
		for _, d := range ids {
			delete(out, d)
		}
		return out
	}
	for _, d := range ids {
		out[d] = struct{}{}
	}
	return out
}

// ReconcileAncestors fixes parent states bottom-up after a toggle.
// With selected=true a parent whose direct children are all selected becomes selected;
// with selected=false a selected parent missing any direct child is deselected.
func ReconcileAncestors(forest Forest, sel SelectionSet, selected bool) SelectionSet {
	out := sel.Clone()
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.Children == nil {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
		all := allChildrenSelected(n, out)
		switch {
		case selected && all && !out.Has(n.ID):
			out[n.ID] = struct{}{}
		case !selected && !all && out.Has(n.ID):
			delete(out, n.ID)
		}
	}
	for _, r := range forest {
		visit(r)
	}
	return out
}

func allChildrenSelected(n *Node, sel SelectionSet) bool {
	for _, c := range n.Children {
		if !sel.Has(c.ID) {
			return false
		}
	}
	return true
}

// Check is the checkbox click handler: Toggle followed by ReconcileAncestors in the
// direction the toggle went.
// An id that is not in the forest leaves the selection unchanged.
func Check(forest Forest, sel SelectionSet, id ID) SelectionSet {
	if _, ok := forest.Find(id); !ok {
		return sel.Clone()
	}
	out := Toggle(forest, sel, id)
	return ReconcileAncestors(forest, out, out.Has(id))
}

func IsSelected(sel SelectionSet, id ID) bool {
	return sel.Has(id)
}

// IsIndeterminate reports an unselected node with at least one selected descendant.
func IsIndeterminate(n *Node, sel SelectionSet) bool {
	if sel.Has(n.ID) {
		return false
	}
	for _, c := range n.Children {
		if sel.Has(c.ID) || IsIndeterminate(c, sel) {
			return true
		}
	}
	return false
}

func State(n *Node, sel SelectionSet) CheckState {
	switch {
	case sel.Has(n.ID):
		return Checked
	case IsIndeterminate(n, sel):
		return Indeterminate
	default:
		return Unchecked
	}
}

func SelectAll(forest Forest) SelectionSet {
	out := NewSelectionSet()
	forest.Walk(func(n *Node, _ int) bool {
		out[n.ID] = struct{}{}
		return true
	})
	return out
}

func Clear() SelectionSet {
	return NewSelectionSet()
}

// Normalize prepares a selection seeded from backend data: ids missing from the forest
// are dropped, fully covered parents are selected and partially covered ones deselected.
func Normalize(forest Forest, sel SelectionSet) SelectionSet {
	idx := forest.Index()
	out := NewSelectionSet()
	for id := range sel {
		if _, ok := idx.Node(id); ok {
			out[id] = struct{}{}
		}
	}
	out = ReconcileAncestors(forest, out, true)
	return ReconcileAncestors(forest, out, false)
}

// Changes diffs two selections into sorted added and removed id lists.
func Changes(before, after SelectionSet) (added, removed []ID) {
	added = make([]ID, 0)
	removed = make([]ID, 0)
	for _, id := range after.IDs() {
		if !before.Has(id) {
			added = append(added, id)
		}
	}
	for _, id := range before.IDs() {
		if !after.Has(id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
