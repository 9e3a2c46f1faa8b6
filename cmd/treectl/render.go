package main

import (
	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/iota-uz/treesync/pkg/tree"
)

var (
	enumeratorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16858E")).MarginRight(1)
	itemStyle       = lipgloss.NewStyle()
	collapsedStyle  = lipgloss.NewStyle().Faint(true)
)

// renderForest draws the visible part of forest. A nil selection omits checkboxes.
// Collapsed parents are marked with a trailing "+".
func renderForest(forest tree.Forest, expanded tree.ExpansionSet, sel tree.SelectionSet) string {
	root := ltree.New().
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle).
		ItemStyle(itemStyle)
	for _, n := range forest {
		root.Child(renderNode(n, expanded, sel))
	}
	return root.String()
}

func renderNode(n *tree.Node, expanded tree.ExpansionSet, sel tree.SelectionSet) any {
	label := n.Label
	if label == "" {
		label = "(" + n.ID.String() + ")"
	}
	if sel != nil {
		label = checkMark(tree.State(n, sel)) + " " + label
	}
	if n.IsLeaf() {
		return label
	}
	if !expanded.Has(n.ID) {
		return collapsedStyle.Render(label + " +")
	}
	sub := ltree.Root(label).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(enumeratorStyle)
	for _, c := range n.Children {
		sub.Child(renderNode(c, expanded, sel))
	}
	return sub
}

func checkMark(s tree.CheckState) string {
	switch s {
	case tree.Checked:
		return "[x]"
	case tree.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}
