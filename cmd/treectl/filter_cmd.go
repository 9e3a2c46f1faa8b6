package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/pkg/tree"
)

func newFilterCmd(a *app) *cobra.Command {
	var query string
	var fuzzy, subtrees, asJSON bool

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show the nodes whose label matches a query, with their ancestors",
		RunE: func(cmd *cobra.Command, args []string) error {
			forest, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}

			useFuzzy := a.cfg.Fuzzy()
			if cmd.Flags().Changed("fuzzy") {
				useFuzzy = fuzzy
			}
			var opts []tree.FilterOption
			if useFuzzy {
				opts = append(opts, tree.WithMatcher(tree.MatchFuzzy))
			}
			if subtrees {
				opts = append(opts, tree.WithMatchedSubtrees())
			}
			filtered := tree.Filter(forest, query, opts...)
			a.logger.WithField("query", query).WithField("roots", len(filtered)).Debug("treectl.filter")

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), flattenRows(filtered, tree.ExpandAll(filtered)))
			}
			if len(filtered) == 0 {
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "no matches for %q\n", query)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderForest(filtered, tree.ExpandAll(filtered), nil))
			return err
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search text; blank shows the whole tree")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Fuzzy matching (defaults to TREE_FILTER_MODE)")
	cmd.Flags().BoolVar(&subtrees, "subtrees", false, "Keep the full subtree below a matching node")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print flattened rows as JSON")
	return cmd
}
