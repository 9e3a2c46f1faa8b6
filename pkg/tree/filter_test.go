package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter_PreservesAncestorChain(t *testing.T) {
	forest := Build([]Record{
		rec("root", "", "Root", 0),
		rec("mid", "root", "Mid", 0),
		rec("leaf", "mid", "target", 0),
		rec("other", "mid", "noise", 0),
	})

	got := Filter(forest, "target")

	require.Len(t, got, 1)
	require.Equal(t, ID("root"), got[0].ID)
	require.Equal(t, []ID{"mid"}, ids(got[0].Children))
	require.Equal(t, []ID{"leaf"}, ids(got[0].Children[0].Children))
}

func TestFilter_KeepsSiblingMatches(t *testing.T) {
	forest := menuForest()

	got := Filter(forest, "e")
	// System / Menus / Edit, System / Roles, Reports
	require.Equal(t, []ID{"1", "5"}, ids(got))
	require.Equal(t, []ID{"2", "3"}, ids(got[0].Children))
	require.Equal(t, []ID{"4"}, ids(got[0].Children[0].Children))
	require.Nil(t, got[1].Children)
}

func TestFilter_CaseInsensitive(t *testing.T) {
	forest := menuForest()

	got := Filter(forest, "kyc")
	require.Equal(t, []ID{"5"}, ids(got))
	require.Equal(t, []ID{"6"}, ids(got[0].Children))

	got = Filter(Build([]Record{rec("1", "", "STRASSE", 0)}), "straße")
	require.Len(t, got, 1)
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	forest := menuForest()

	got := Filter(forest, "   ")
	require.Equal(t, forest, got)
	require.Same(t, forest[0], got[0])
}

func TestFilter_MatchesQueryWhitespace(t *testing.T) {
	forest := Build([]Record{
		rec("1", "", "ab", 0),
		rec("2", "", "a b", 0),
	})

	require.Equal(t, []ID{"2"}, ids(Filter(forest, "a ")))
	require.Empty(t, Filter(forest, " ab"))
}

func TestFilter_NoMatchReturnsEmptyForest(t *testing.T) {
	got := Filter(menuForest(), "zzz")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFilter_LeavesOriginalUntouched(t *testing.T) {
	forest := menuForest()
	before := forest.Len()

	Filter(forest, "Edit")

	require.Equal(t, before, forest.Len())
	require.Len(t, forest[0].Children, 2)
}

func TestFilter_MatchedSubtrees(t *testing.T) {
	forest := menuForest()

	got := Filter(forest, "system", WithMatchedSubtrees())
	require.Equal(t, []ID{"1"}, ids(got))
	require.Equal(t, 4, got.Len())

	got = Filter(forest, "system")
	require.Equal(t, 1, got.Len())
}

func TestFilter_FuzzyMatcher(t *testing.T) {
	forest := menuForest()

	got := Filter(forest, "rprt", WithMatcher(MatchFuzzy))
	require.Equal(t, []ID{"5"}, ids(got))

	require.Empty(t, Filter(forest, "rprt"))
}

func TestSearch_RanksClosestFirst(t *testing.T) {
	forest := menuForest()

	hits := Search(forest, "e", 0)
	require.NotEmpty(t, hits)
	for i := 1; i < len(hits); i++ {
		require.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}

	hits = Search(forest, "edit", 1)
	require.Len(t, hits, 1)
	require.Equal(t, ID("4"), hits[0].Node.ID)
	require.Equal(t, "System / Menus / Edit", hits[0].Path)

	require.Nil(t, Search(forest, "", 5))
}
