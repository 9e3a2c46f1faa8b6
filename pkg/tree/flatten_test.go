package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rowIDs(rows []Row) []ID {
	out := make([]ID, len(rows))
	for i, r := range rows {
		out[i] = r.Node.ID
	}
	return out
}

func TestFlatten_DescendsOnlyIntoExpanded(t *testing.T) {
	forest := menuForest()

	rows := Flatten(forest, NewExpansionSet())
	require.Equal(t, []ID{"1", "5"}, rowIDs(rows))

	rows = Flatten(forest, NewExpansionSet("1"))
	require.Equal(t, []ID{"1", "2", "3", "5"}, rowIDs(rows))
	require.Equal(t, []int{0, 1, 1, 0}, []int{rows[0].Depth, rows[1].Depth, rows[2].Depth, rows[3].Depth})

	rows = Flatten(forest, ExpandAll(forest))
	require.Equal(t, []ID{"1", "2", "4", "3", "5", "6"}, rowIDs(rows))
}

func TestFlatten_ExpandedDescendantOfCollapsedStaysHidden(t *testing.T) {
	forest := menuForest()

	rows := Flatten(forest, NewExpansionSet("2"))
	require.Equal(t, []ID{"1", "5"}, rowIDs(rows))
}

func TestFlatten_CollapseRemovesWholeSubtree(t *testing.T) {
	forest := menuForest()
	expanded := ExpandAll(forest)
	before := Flatten(forest, expanded)

	expanded.Collapse("1")
	after := Flatten(forest, expanded)

	require.Equal(t, []ID{"1", "5", "6"}, rowIDs(after))
	require.Len(t, before, len(after)+3)
}

func TestFlatten_AgreesWithShouldShow(t *testing.T) {
	forest := menuForest()
	idx := forest.Index()

	sets := []ExpansionSet{
		NewExpansionSet(),
		NewExpansionSet("1"),
		NewExpansionSet("2"),
		NewExpansionSet("1", "2"),
		NewExpansionSet("5"),
		ExpandAll(forest),
	}
	for _, expanded := range sets {
		visible := make(map[ID]bool)
		for _, r := range Flatten(forest, expanded) {
			visible[r.Node.ID] = true
			for _, a := range idx.Ancestors(r.Node.ID) {
				require.True(t, expanded.Has(a.ID))
			}
		}
		forest.Walk(func(n *Node, _ int) bool {
			require.Equal(t, visible[n.ID], ShouldShow(n, idx, expanded), "node %s", n.ID)
			return true
		})
	}
}

func TestFlatten_StableAcrossCalls(t *testing.T) {
	forest := menuForest()
	expanded := ExpandAll(forest)

	require.Equal(t, Flatten(forest, expanded), Flatten(forest, expanded))
}

func TestExpandToDepth(t *testing.T) {
	forest := menuForest()

	require.Empty(t, ExpandToDepth(forest, 0))
	require.Equal(t, []ID{"1", "5"}, ExpandToDepth(forest, 1).IDs())
	require.Equal(t, []ID{"1", "2", "5"}, ExpandToDepth(forest, 2).IDs())
	require.Equal(t, []ID{"1", "2", "5"}, ExpandAll(forest).IDs())
}

func TestExpandAncestors(t *testing.T) {
	forest := menuForest()

	expanded := ExpandAncestors(forest, []ID{"4", "6", "unknown"})
	require.Equal(t, []ID{"1", "2", "5"}, expanded.IDs())
}

func TestExpansionSet_Toggle(t *testing.T) {
	s := NewExpansionSet()
	require.True(t, s.Toggle("1"))
	require.True(t, s.Has("1"))
	require.False(t, s.Toggle("1"))
	require.False(t, s.Has("1"))
}
