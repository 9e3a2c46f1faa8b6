package viewmodels

type TreeRow struct {
	ID            string
	ParentID      string
	Label         string
	Depth         int
	HasChildren   bool
	Expanded      bool
	Checked       bool
	Indeterminate bool
}

type TreeTable struct {
	Rows []TreeRow
}

// IDs lists the row ids in display order.
func (t *TreeTable) IDs() []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.ID)
	}
	return out
}
