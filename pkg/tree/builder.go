package tree

import (
	"sort"

	"github.com/sirupsen/logrus"
)

type DiagnosticKind string

const (
	DiagnosticMissingID      DiagnosticKind = "missing_id"
	DiagnosticDuplicateID    DiagnosticKind = "duplicate_id"
	DiagnosticDanglingParent DiagnosticKind = "dangling_parent"
	DiagnosticCycle          DiagnosticKind = "cycle"
)

// Diagnostic describes a record Build could not place as declared.
// None of them abort the build.
type Diagnostic struct {
	Kind     DiagnosticKind
	Index    int
	ID       ID
	ParentID ID
}

type buildConfig struct {
	logger      logrus.FieldLogger
	diagnostics func(Diagnostic)
}

type BuildOption func(*buildConfig)

func WithLogger(logger logrus.FieldLogger) BuildOption {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

func WithDiagnostics(fn func(Diagnostic)) BuildOption {
	return func(c *buildConfig) {
		c.diagnostics = fn
	}
}

func (c *buildConfig) report(d Diagnostic) {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"kind":         string(d.Kind),
			"record_index": d.Index,
			"id":           d.ID.String(),
			"parent_id":    d.ParentID.String(),
		}).Warn("tree.build.diagnostic")
	}
	if c.diagnostics != nil {
		c.diagnostics(d)
	}
}

// Build turns a flat record list into a Forest.
//
// Records without an id are skipped, and only the first record for a given id is used.
// A record whose parent is missing becomes a root. Every node is attached exactly once;
// nodes stranded by a parent loop are promoted to roots in input order.
// Siblings are stably sorted by Order, highest first, at every level.
func Build(records []Record, opts ...BuildOption) Forest {
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	byID := make(map[ID]*Node, len(records))
	placed := make([]*Node, 0, len(records))
	indexOf := make(map[ID]int, len(records))
	for i, r := range records {
		if r.ID.IsZero() {
			cfg.report(Diagnostic{Kind: DiagnosticMissingID, Index: i, ParentID: r.ParentID})
			continue
		}
		if _, ok := byID[r.ID]; ok {
			cfg.report(Diagnostic{Kind: DiagnosticDuplicateID, Index: i, ID: r.ID, ParentID: r.ParentID})
			continue
		}
		n := &Node{
			ID:       r.ID,
			ParentID: r.ParentID,
			Label:    r.Label(),
			Order:    r.Order,
			Raw:      r,
		}
		byID[r.ID] = n
		indexOf[r.ID] = i
		placed = append(placed, n)
	}

	roots := make([]*Node, 0, 8)
	parentOf := make(map[ID]*Node, len(placed))
	for _, n := range placed {
		if n.ParentID.IsZero() {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[n.ParentID]
		if !ok {
			cfg.report(Diagnostic{Kind: DiagnosticDanglingParent, Index: indexOf[n.ID], ID: n.ID, ParentID: n.ParentID})
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		parentOf[n.ID] = parent
	}

	visited := make(map[ID]struct{}, len(placed))
	var mark func(n *Node)
	mark = func(n *Node) {
		if _, ok := visited[n.ID]; ok {
			return
		}
		visited[n.ID] = struct{}{}
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	if len(visited) != len(placed) {
		for _, n := range placed {
			if _, ok := visited[n.ID]; ok {
				continue
			}
			if parent, ok := parentOf[n.ID]; ok {
				parent.Children = removeChild(parent.Children, n.ID)
				delete(parentOf, n.ID)
			}
			cfg.report(Diagnostic{Kind: DiagnosticCycle, Index: indexOf[n.ID], ID: n.ID, ParentID: n.ParentID})
			roots = append(roots, n)
			mark(n)
		}
	}

	for _, n := range placed {
		if len(n.Children) == 0 {
			n.Children = nil
		}
	}
	sortSiblings(roots)
	return Forest(roots)
}

func removeChild(children []*Node, id ID) []*Node {
	out := children[:0]
	for _, c := range children {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order > nodes[j].Order
	})
	for _, n := range nodes {
		if n.Children != nil {
			sortSiblings(n.Children)
		}
	}
}
