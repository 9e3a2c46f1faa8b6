// Package tree turns flat parent-id addressed records into a forest and drives the
// views management screens build on it: expand/collapse tables, label-path parent
// selectors, cascading tri-state checkboxes and search.
//
// A Forest is built once per data load and never mutated afterwards, so it can be read
// from several goroutines. ExpansionSet and SelectionSet are caller-owned state kept
// apart from the forest and keyed by node id.
package tree
