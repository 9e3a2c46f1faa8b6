package mappers

import (
	"github.com/iota-uz/treesync/modules/console/presentation/viewmodels"
	"github.com/iota-uz/treesync/pkg/tree"
)

// RowsToTable maps flattened rows to table rows. A nil selection renders a table
// without checkboxes. ParentID is the node's place in the forest: roots, including
// records promoted over a missing or cyclic parent, have none.
func RowsToTable(rows []tree.Row, expanded tree.ExpansionSet, selection tree.SelectionSet) *viewmodels.TreeTable {
	out := make([]viewmodels.TreeRow, 0, len(rows))
	for _, row := range rows {
		n := row.Node
		vm := viewmodels.TreeRow{
			ID:          n.ID.String(),
			Label:       n.Label,
			Depth:       row.Depth,
			HasChildren: !n.IsLeaf(),
			Expanded:    !n.IsLeaf() && expanded.Has(n.ID),
		}
		if row.Depth > 0 && !n.ParentID.IsZero() {
			vm.ParentID = n.ParentID.String()
		}
		if selection != nil {
			switch tree.State(n, selection) {
			case tree.Checked:
				vm.Checked = true
			case tree.Indeterminate:
				vm.Indeterminate = true
			}
		}
		out = append(out, vm)
	}
	return &viewmodels.TreeTable{Rows: out}
}
