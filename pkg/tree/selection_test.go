package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func permissionForest() Forest {
	// P
	// ├── A
	// │   ├── A1
	// │   └── A2
	// └── B
	return Build([]Record{
		rec("p", "", "P", 0),
		rec("a", "p", "A", 1),
		rec("b", "p", "B", 0),
		rec("a1", "a", "A1", 1),
		rec("a2", "a", "A2", 0),
	})
}

func TestToggle_CascadesToDescendants(t *testing.T) {
	forest := permissionForest()

	sel := Toggle(forest, Clear(), "a")
	require.Equal(t, []ID{"a", "a1", "a2"}, sel.IDs())

	sel = Toggle(forest, sel, "a")
	require.Empty(t, sel)
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	forest := permissionForest()
	in := NewSelectionSet("b")

	out := Toggle(forest, in, "a")
	require.Equal(t, []ID{"b"}, in.IDs())
	require.Equal(t, []ID{"a", "a1", "a2", "b"}, out.IDs())
}

func TestToggle_UnknownIDIsNoop(t *testing.T) {
	forest := permissionForest()
	in := NewSelectionSet("b")

	out := Toggle(forest, in, "stale")
	require.Equal(t, in, out)
	require.Equal(t, in, Check(forest, in, "stale"))
}

func TestCheck_UnknownIDKeepsUnnormalizedSelection(t *testing.T) {
	forest := permissionForest()
	// "a" is selected while "a2" is not; a reconcile would drop "a".
	in := NewSelectionSet("a", "a1")

	out := Check(forest, in, "999")
	require.Equal(t, []ID{"a", "a1"}, out.IDs())
	out["b"] = struct{}{}
	require.False(t, in.Has("b"))
}

func TestReconcileAncestors_ParentFollowsChildren(t *testing.T) {
	forest := permissionForest()

	sel := Check(forest, Clear(), "a1")
	require.Equal(t, []ID{"a1"}, sel.IDs())
	require.True(t, IsIndeterminate(forest[0], sel))

	sel = Check(forest, sel, "a2")
	require.Equal(t, []ID{"a", "a1", "a2"}, sel.IDs())

	sel = Check(forest, sel, "b")
	require.Equal(t, []ID{"a", "a1", "a2", "b", "p"}, sel.IDs())

	sel = Check(forest, sel, "a1")
	require.Equal(t, []ID{"a2", "b"}, sel.IDs())
	require.Equal(t, Indeterminate, State(forest[0], sel))
}

func TestReconcileAncestors_EitherOrder(t *testing.T) {
	forest := Build([]Record{
		rec("n", "", "N", 0),
		rec("x", "n", "X", 0),
		rec("y", "n", "Y", 0),
	})

	for _, order := range [][]ID{{"x", "y"}, {"y", "x"}} {
		sel := Clear()
		for _, id := range order {
			sel = Toggle(forest, sel, id)
			sel = ReconcileAncestors(forest, sel, true)
		}
		require.True(t, IsSelected(sel, "n"))

		sel = Toggle(forest, sel, order[0])
		sel = ReconcileAncestors(forest, sel, false)
		require.False(t, IsSelected(sel, "n"))
	}
}

func TestReconcileAncestors_SingleChildScenario(t *testing.T) {
	forest := Build([]Record{
		rec("1", "", "A", 0),
		rec("2", "1", "B", 0),
		rec("3", "99", "C", 0),
	})

	sel := Toggle(forest, Clear(), "2")
	sel = ReconcileAncestors(forest, sel, true)
	require.Equal(t, []ID{"1", "2"}, sel.IDs())
}

func TestReconcileAncestors_DirectionIsOneWay(t *testing.T) {
	forest := permissionForest()
	partial := NewSelectionSet("p", "a", "a1", "a2")

	require.Equal(t, partial, ReconcileAncestors(forest, partial, true))
	require.Equal(t, []ID{"a", "a1", "a2"}, ReconcileAncestors(forest, partial, false).IDs())
}

func TestCheckStates(t *testing.T) {
	forest := permissionForest()
	idx := forest.Index()
	sel := NewSelectionSet("a1")

	p, _ := idx.Node("p")
	a, _ := idx.Node("a")
	a1, _ := idx.Node("a1")
	b, _ := idx.Node("b")

	require.Equal(t, Indeterminate, State(p, sel))
	require.Equal(t, Indeterminate, State(a, sel))
	require.Equal(t, Checked, State(a1, sel))
	require.Equal(t, Unchecked, State(b, sel))
	require.False(t, IsIndeterminate(a1, sel))
	require.Equal(t, "indeterminate", Indeterminate.String())
}

func TestSelectionInvariant_HoldsAfterEveryCheck(t *testing.T) {
	forest := permissionForest()
	clicks := []ID{"a1", "b", "a2", "p", "a", "a2", "p", "b", "a1", "p"}

	sel := Clear()
	for _, id := range clicks {
		sel = Check(forest, sel, id)
		forest.Walk(func(n *Node, _ int) bool {
			if n.Children != nil {
				require.Equal(t, allChildrenSelected(n, sel), sel.Has(n.ID), "node %s after click %s", n.ID, id)
			}
			return true
		})
	}
}

func TestSelectAllAndClear(t *testing.T) {
	forest := permissionForest()

	require.Equal(t, []ID{"a", "a1", "a2", "b", "p"}, SelectAll(forest).IDs())
	require.Empty(t, Clear())
}

func TestNormalize_DropsStaleAndReconciles(t *testing.T) {
	forest := permissionForest()

	sel := Normalize(forest, NewSelectionSet("a1", "a2", "gone", "p"))
	require.Equal(t, []ID{"a", "a1", "a2"}, sel.IDs())
}

func TestChanges(t *testing.T) {
	before := NewSelectionSet("1", "2", "3")
	after := NewSelectionSet("2", "3", "4", "5")

	added, removed := Changes(before, after)
	require.Equal(t, []ID{"4", "5"}, added)
	require.Equal(t, []ID{"1"}, removed)

	added, removed = Changes(before, before)
	require.Empty(t, added)
	require.Empty(t, removed)
}
