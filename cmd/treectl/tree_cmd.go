package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/pkg/tree"
)

func newTreeCmd(a *app) *cobra.Command {
	var depth int
	var selected []string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the record tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			forest, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}
			expanded := tree.ExpandToDepth(forest, a.expandDepth(cmd, depth))

			var sel tree.SelectionSet
			if cmd.Flags().Changed("select") {
				sel = tree.Normalize(forest, tree.NewSelectionSet(toIDs(selected)...))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderForest(forest, expanded, sel))
			return err
		},
	}

	cmd.Flags().IntVar(&depth, "expand", 1, "Expand parents shallower than this depth; -1 expands everything")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "Selected ids; renders tri-state checkboxes")
	return cmd
}
