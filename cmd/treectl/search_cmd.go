package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/pkg/tree"
)

type searchHit struct {
	ID       tree.ID `json:"id"`
	ParentID tree.ID `json:"parentId,omitempty"`
	Label    string  `json:"label"`
	Path     string  `json:"path"`
	Distance int     `json:"distance"`
}

func newSearchCmd(a *app) *cobra.Command {
	var query string
	var limit int
	var reveal bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank nodes by fuzzy match of their label",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Tree.SearchLimit
			}
			forest, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}
			matches := tree.Search(forest, query, limit)
			if reveal {
				ids := make([]tree.ID, len(matches))
				for i, m := range matches {
					ids[i] = m.Node.ID
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderForest(forest, tree.ExpandAncestors(forest, ids), nil))
				return err
			}

			idx := forest.Index()
			for _, m := range matches {
				hit := searchHit{ID: m.Node.ID, Label: m.Node.Label, Path: m.Path, Distance: m.Distance}
				if p, ok := idx.Parent(m.Node.ID); ok {
					hit.ParentID = p.ID
				}
				if err := writeJSONLine(cmd.OutOrStdout(), hit); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search text (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum hits (defaults to TREE_SEARCH_LIMIT)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the tree expanded just enough to show every hit")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
