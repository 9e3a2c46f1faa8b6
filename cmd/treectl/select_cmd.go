package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/modules/console/presentation/mappers"
	"github.com/iota-uz/treesync/modules/console/services"
	"github.com/iota-uz/treesync/pkg/tree"
)

type selectRow struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
	State string `json:"state"`
}

type selectResult struct {
	Rows     []selectRow     `json:"rows"`
	Selected []tree.ID       `json:"selected"`
	Added    []tree.ID       `json:"added"`
	Removed  []tree.ID       `json:"removed"`
	Patch    json.RawMessage `json:"patch"`
}

func newSelectCmd(a *app) *cobra.Command {
	var seed, toggles []string
	var depth int
	var all, clearAll, render bool

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Replay checkbox clicks on a selection dialog and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := services.NewDialogStore(a.trees, services.DialogStoreOptions{
				ExpandDepth: a.expandDepth(cmd, depth),
				Logger:      a.logger,
			})
			d, err := store.Open(cmd.Context(), inputKind, toIDs(seed))
			if err != nil {
				return loadError(err)
			}
			defer store.Close(d.ID)

			switch {
			case all:
				d.SelectAll()
			case clearAll:
				d.Clear()
			}
			for _, id := range toggles {
				state := d.Toggle(tree.ID(id))
				a.logger.WithField("id", id).WithField("state", state.String()).Debug("treectl.select.toggle")
			}

			rows, sel, expanded := d.Snapshot()
			if render {
				forest, err := a.forest(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderForest(forest, expanded, sel))
				return err
			}

			patch, err := d.Patch()
			if err != nil {
				return withCode(exitValidation, err)
			}
			added, removed := d.Changes()
			table := mappers.RowsToTable(rows, expanded, sel)
			out := selectResult{
				Rows:     make([]selectRow, 0, len(table.Rows)),
				Selected: d.Selected(),
				Added:    added,
				Removed:  removed,
				Patch:    patch,
			}
			for _, r := range table.Rows {
				state := tree.Unchecked
				switch {
				case r.Checked:
					state = tree.Checked
				case r.Indeterminate:
					state = tree.Indeterminate
				}
				out.Rows = append(out.Rows, selectRow{ID: r.ID, Label: r.Label, Depth: r.Depth, State: state.String()})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringSliceVar(&seed, "seed", nil, "Ids selected when the dialog opens")
	cmd.Flags().StringSliceVar(&toggles, "toggle", nil, "Ids to click, in order")
	cmd.Flags().IntVar(&depth, "expand", 1, "Expand parents shallower than this depth; -1 expands everything")
	cmd.Flags().BoolVar(&all, "all", false, "Select every node before toggling")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Clear the selection before toggling")
	cmd.Flags().BoolVar(&render, "render", false, "Render the tree with checkboxes instead of JSON")
	cmd.MarkFlagsMutuallyExclusive("all", "clear")
	return cmd
}
