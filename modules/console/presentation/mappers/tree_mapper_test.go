package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/treesync/pkg/tree"
)

func permissionForest() tree.Forest {
	return tree.Build([]tree.Record{
		{ID: "p", Name: "P"},
		{ID: "a", ParentID: "p", Name: "A", Order: 1},
		{ID: "b", ParentID: "p", Name: "B"},
		{ID: "a1", ParentID: "a", Name: "A1", Order: 1},
		{ID: "a2", ParentID: "a", Name: "A2"},
	})
}

func TestRowsToTable_DepthAndExpansion(t *testing.T) {
	forest := permissionForest()
	expanded := tree.NewExpansionSet("p")

	table := RowsToTable(tree.Flatten(forest, expanded), expanded, nil)
	require.Equal(t, []string{"p", "a", "b"}, table.IDs())

	p, a, b := table.Rows[0], table.Rows[1], table.Rows[2]
	require.Equal(t, 0, p.Depth)
	require.True(t, p.HasChildren)
	require.True(t, p.Expanded)

	require.Equal(t, 1, a.Depth)
	require.Equal(t, "p", a.ParentID)
	require.True(t, a.HasChildren)
	require.False(t, a.Expanded)

	require.False(t, b.HasChildren)
	require.False(t, b.Expanded)
	require.False(t, b.Checked)
}

func TestRowsToTable_TriState(t *testing.T) {
	forest := permissionForest()
	expanded := tree.ExpandAll(forest)
	sel := tree.Check(forest, tree.Clear(), "a")

	table := RowsToTable(tree.Flatten(forest, expanded), expanded, sel)
	require.Equal(t, []string{"p", "a", "a1", "a2", "b"}, table.IDs())

	byID := map[string]struct{ checked, indeterminate bool }{}
	for _, r := range table.Rows {
		byID[r.ID] = struct{ checked, indeterminate bool }{r.Checked, r.Indeterminate}
	}
	require.Equal(t, struct{ checked, indeterminate bool }{false, true}, byID["p"])
	require.Equal(t, struct{ checked, indeterminate bool }{true, false}, byID["a"])
	require.Equal(t, struct{ checked, indeterminate bool }{true, false}, byID["a1"])
	require.Equal(t, struct{ checked, indeterminate bool }{false, false}, byID["b"])
}

func TestRowsToTable_PromotedRootHasNoParent(t *testing.T) {
	forest := tree.Build([]tree.Record{
		{ID: "1", Name: "Orphan", ParentID: "99"},
		{ID: "2", Name: "Child", ParentID: "1"},
	})
	expanded := tree.ExpandAll(forest)

	table := RowsToTable(tree.Flatten(forest, expanded), expanded, nil)
	require.Equal(t, []string{"1", "2"}, table.IDs())
	require.Equal(t, 0, table.Rows[0].Depth)
	require.Empty(t, table.Rows[0].ParentID)
	require.Equal(t, "1", table.Rows[1].ParentID)
}

func TestRowsToTable_Empty(t *testing.T) {
	table := RowsToTable(nil, tree.NewExpansionSet(), tree.Clear())
	require.NotNil(t, table)
	require.Empty(t, table.Rows)
}
