package tree

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func rec(id, parent string, label string, order float64) Record {
	return Record{ID: ID(id), ParentID: ID(parent), Name: label, Order: order}
}

func ids(nodes []*Node) []ID {
	out := make([]ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestBuild_PromotesDanglingParentToRoot(t *testing.T) {
	records := []Record{
		rec("1", "", "A", 0),
		rec("2", "1", "B", 0),
		rec("3", "99", "C", 0),
	}

	var diags []Diagnostic
	forest := Build(records, WithDiagnostics(func(d Diagnostic) { diags = append(diags, d) }))

	require.Equal(t, []ID{"1", "3"}, ids(forest))
	require.Equal(t, []ID{"2"}, ids(forest[0].Children))
	require.Nil(t, forest[1].Children)
	require.Len(t, diags, 1)
	require.Equal(t, DiagnosticDanglingParent, diags[0].Kind)
	require.Equal(t, ID("3"), diags[0].ID)
	require.Equal(t, 2, diags[0].Index)
}

func TestBuild_SortsSiblingsByOrderDescending(t *testing.T) {
	records := []Record{
		rec("r", "0", "Root", 0),
		rec("a", "r", "A", 1),
		rec("b", "r", "B", 5),
		rec("c", "r", "C", 3),
		rec("c1", "c", "C1", 0),
		rec("c2", "c", "C2", 9),
		rec("other", "", "Other", 10),
	}

	forest := Build(records)

	require.Equal(t, []ID{"other", "r"}, ids(forest))
	require.Equal(t, []ID{"b", "c", "a"}, ids(forest[1].Children))
	require.Equal(t, []ID{"c2", "c1"}, ids(forest[1].Children[1].Children))
}

func TestBuild_StableOnEqualOrder(t *testing.T) {
	records := []Record{
		rec("1", "", "Root", 0),
		rec("x", "1", "X", 2),
		rec("y", "1", "Y", 2),
		rec("z", "1", "Z", 2),
	}

	forest := Build(records)
	require.Equal(t, []ID{"x", "y", "z"}, ids(forest[0].Children))
}

func TestBuild_IsIdempotent(t *testing.T) {
	records := []Record{
		rec("1", "", "A", 1),
		rec("2", "1", "B", 0),
		rec("3", "1", "C", 2),
		rec("4", "3", "D", 0),
		rec("5", "42", "E", 0),
	}

	first := Build(records)
	second := Build(records)

	require.Equal(t, first, second)
	require.Equal(t, 5, first.Len())
}

func TestBuild_SkipsMissingAndDuplicateIDs(t *testing.T) {
	records := []Record{
		rec("", "", "NoID", 0),
		rec("1", "", "First", 0),
		rec("1", "", "Second", 0),
		rec("0", "", "ZeroID", 0),
	}

	var kinds []DiagnosticKind
	forest := Build(records, WithDiagnostics(func(d Diagnostic) { kinds = append(kinds, d.Kind) }))

	require.Len(t, forest, 1)
	require.Equal(t, "First", forest[0].Label)
	require.Equal(t, []DiagnosticKind{DiagnosticMissingID, DiagnosticDuplicateID, DiagnosticMissingID}, kinds)
}

func TestBuild_BreaksParentLoops(t *testing.T) {
	records := []Record{
		rec("a", "b", "A", 0),
		rec("b", "a", "B", 0),
		rec("self", "self", "Self", 0),
		rec("root", "", "Root", 0),
	}

	var diags []Diagnostic
	forest := Build(records, WithDiagnostics(func(d Diagnostic) { diags = append(diags, d) }))

	require.ElementsMatch(t, []ID{"root", "a", "self"}, ids(forest))
	a, ok := forest.Find("a")
	require.True(t, ok)
	require.Equal(t, []ID{"b"}, ids(a.Children))
	self, ok := forest.Find("self")
	require.True(t, ok)
	require.Nil(t, self.Children)
	require.Equal(t, 4, forest.Len())

	require.Len(t, diags, 2)
	require.Equal(t, DiagnosticCycle, diags[0].Kind)
	require.Equal(t, ID("a"), diags[0].ID)
	require.Equal(t, ID("self"), diags[1].ID)
}

func TestBuild_LabelFallbackChain(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "name", Title: "title", Meta: Meta{Title: "meta"}},
		{ID: "2", Name: "name", Title: "title"},
		{ID: "3", Name: "name", Title: "  "},
	}

	forest := Build(records)
	require.Equal(t, []string{"meta", "title", "name"}, []string{forest[0].Label, forest[1].Label, forest[2].Label})
}

func TestBuild_LogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	Build([]Record{rec("7", "8", "Orphan", 0)}, WithLogger(logger))

	require.Contains(t, buf.String(), `"kind":"dangling_parent"`)
	require.Contains(t, buf.String(), `"parent_id":"8"`)
}

func TestBuild_Empty(t *testing.T) {
	forest := Build(nil)
	require.NotNil(t, forest)
	require.Empty(t, forest)
}
