package tree

// Node is a record placed in a Forest. Children is nil for leaves.
// Nodes belong to the Forest that built them and must be treated as read-only.
type Node struct {
	ID       ID
	ParentID ID
	Label    string
	Order    float64
	Children []*Node
	Raw      Record
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Forest is the ordered list of roots produced by Build.
type Forest []*Node

// Walk visits every node in pre-order. Returning false from fn skips the node's subtree.
func (f Forest) Walk(fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(f, 0)
}

func (f Forest) Len() int {
	count := 0
	f.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

func (f Forest) Find(id ID) (*Node, bool) {
	var found *Node
	f.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Index is a side table for parent lookups, built once per query.
type Index struct {
	nodes   map[ID]*Node
	parents map[ID]*Node
	order   []ID
}

func (f Forest) Index() *Index {
	idx := &Index{
		nodes:   make(map[ID]*Node),
		parents: make(map[ID]*Node),
	}
	var walk func(parent *Node, nodes []*Node)
	walk = func(parent *Node, nodes []*Node) {
		for _, n := range nodes {
			idx.nodes[n.ID] = n
			idx.order = append(idx.order, n.ID)
			if parent != nil {
				idx.parents[n.ID] = parent
			}
			walk(n, n.Children)
		}
	}
	walk(nil, f)
	return idx
}

func (idx *Index) Node(id ID) (*Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Parent returns the node's parent within the forest; roots have none.
func (idx *Index) Parent(id ID) (*Node, bool) {
	p, ok := idx.parents[id]
	return p, ok
}

// Ancestors lists the ancestors of id from the root down, excluding id itself.
func (idx *Index) Ancestors(id ID) []*Node {
	var chain []*Node
	for p, ok := idx.parents[id]; ok; p, ok = idx.parents[p.ID] {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// IDs returns every node id in pre-order.
func (idx *Index) IDs() []ID {
	out := make([]ID, len(idx.order))
	copy(out, idx.order)
	return out
}

func (idx *Index) Len() int {
	return len(idx.order)
}

// Descendants returns the ids below n in pre-order, n excluded.
func Descendants(n *Node) []ID {
	var out []ID
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, c := range nodes {
			out = append(out, c.ID)
			walk(c.Children)
		}
	}
	walk(n.Children)
	return out
}
