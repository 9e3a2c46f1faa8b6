package tree

// Row is one visible line of a tree table.
type Row struct {
	Node  *Node
	Depth int
}

// Flatten walks the forest in pre-order and descends into a node only when it is expanded.
// Collapsed nodes are still emitted; their whole subtree is not.
func Flatten(forest Forest, expanded ExpansionSet) []Row {
	rows := make([]Row, 0, len(forest))
	forest.Walk(func(n *Node, depth int) bool {
		rows = append(rows, Row{Node: n, Depth: depth})
		return descends(n, expanded)
	})
	return rows
}

func descends(n *Node, expanded ExpansionSet) bool {
	return expanded.Has(n.ID)
}

// ShouldShow is the per-row form of Flatten's visibility rule for table widgets that
// filter a full row list: a node is visible iff every ancestor descends.
func ShouldShow(n *Node, idx *Index, expanded ExpansionSet) bool {
	for _, a := range idx.Ancestors(n.ID) {
		if !descends(a, expanded) {
			return false
		}
	}
	return true
}
