package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/pkg/tree"
)

func newPathsCmd(a *app) *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "List every node with its label path, one JSON object per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			forest, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range tree.PathOptions(forest, tree.ID(exclude)) {
				if err := writeJSONLine(cmd.OutOrStdout(), o); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "Leave out the subtree rooted at this id")
	return cmd
}
