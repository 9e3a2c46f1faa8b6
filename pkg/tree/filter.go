package tree

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
)

// Matcher reports whether label matches a non-empty query.
type Matcher func(query, label string) bool

// MatchSubstring is a case-insensitive substring match using Unicode case folding.
func MatchSubstring(query, label string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(label), folder.String(query))
}

// MatchFuzzy matches when the query's characters appear in order in the label,
// ignoring case and diacritics.
func MatchFuzzy(query, label string) bool {
	return fuzzy.MatchNormalizedFold(query, label)
}

type filterConfig struct {
	match    Matcher
	subtrees bool
}

type FilterOption func(*filterConfig)

func WithMatcher(m Matcher) FilterOption {
	return func(c *filterConfig) {
		if m != nil {
			c.match = m
		}
	}
}

// WithMatchedSubtrees keeps the complete subtree under a node whose own label matches.
func WithMatchedSubtrees() FilterOption {
	return func(c *filterConfig) {
		c.subtrees = true
	}
}

// Filter returns a pruned copy of forest. A node survives when its label matches or a
// descendant survives; its children are filtered the same way. An empty query returns
// forest itself and no match returns an empty Forest.
func Filter(forest Forest, query string, opts ...FilterOption) Forest {
	if strings.TrimSpace(query) == "" {
		return forest
	}
	cfg := &filterConfig{match: MatchSubstring}
	for _, opt := range opts {
		opt(cfg)
	}

	var prune func(nodes []*Node) []*Node
	prune = func(nodes []*Node) []*Node {
		var out []*Node
		for _, n := range nodes {
			self := cfg.match(query, n.Label)
			if self && cfg.subtrees {
				out = append(out, n)
				continue
			}
			children := prune(n.Children)
			if !self && children == nil {
				continue
			}
			cp := *n
			cp.Children = children
			out = append(out, &cp)
		}
		return out
	}

	pruned := prune(forest)
	if pruned == nil {
		return Forest{}
	}
	return Forest(pruned)
}

type Match struct {
	Node     *Node
	Path     string
	Distance int
}

// Search ranks nodes by fuzzy distance between query and label, closest first.
// limit <= 0 returns every hit.
func Search(forest Forest, query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	options := PathOptions(forest, "")
	idx := forest.Index()
	labels := make([]string, len(options))
	for i, o := range options {
		n, _ := idx.Node(o.ID)
		labels[i] = n.Label
	}

	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	sort.Stable(ranks)

	out := make([]Match, 0, len(ranks))
	for _, r := range ranks {
		if limit > 0 && len(out) == limit {
			break
		}
		o := options[r.OriginalIndex]
		n, _ := idx.Node(o.ID)
		out = append(out, Match{Node: n, Path: o.Path, Distance: r.Distance})
	}
	return out
}
