package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/treesync/pkg/tree"
)

// nodeSnapshot is the placement of one node. Diffing snapshots keyed by id yields
// per-node operations instead of array index shuffles.
type nodeSnapshot struct {
	Label    string `json:"label"`
	ParentID string `json:"parentId"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

func snapshotForest(forest tree.Forest) map[string]nodeSnapshot {
	idx := forest.Index()
	out := make(map[string]nodeSnapshot, idx.Len())
	var walk func(nodes []*tree.Node, parent tree.ID)
	walk = func(nodes []*tree.Node, parent tree.ID) {
		for i, n := range nodes {
			path, _ := idx.PathOf(n.ID)
			out[n.ID.String()] = nodeSnapshot{
				Label:    n.Label,
				ParentID: parent.String(),
				Path:     path,
				Position: i,
			}
			walk(n.Children, n.ID)
		}
	}
	walk(forest, "")
	return out
}

func newDiffCmd(a *app) *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print an RFC 6902 patch from the input tree to another record file's tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}
			to, err := a.readForest(against)
			if err != nil {
				return err
			}
			patch, err := jsondiff.Compare(snapshotForest(from), snapshotForest(to))
			if err != nil {
				return withCode(exitValidation, errors.Wrap(err, "diff forests"))
			}
			if patch == nil {
				patch = jsondiff.Patch{}
			}
			return writeJSON(cmd.OutOrStdout(), patch)
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "Record file to compare with (required)")
	_ = cmd.MarkFlagRequired("against")
	return cmd
}
