package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/pkg/tree"
)

type resolveResult struct {
	Path     string  `json:"path"`
	ID       tree.ID `json:"id"`
	Resolved bool    `json:"resolved"`
}

func newResolveCmd(a *app) *cobra.Command {
	var path, fallback string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a label path back to a node id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, resolved, err := a.menus.ResolveParent(cmd.Context(), inputKind, path, tree.ID(fallback))
			if err != nil {
				return loadError(err)
			}
			if !resolved && fallback == "" {
				return withCode(exitNotFound, errors.Errorf("path %q does not resolve", path))
			}
			return writeJSONLine(cmd.OutOrStdout(), resolveResult{Path: path, ID: id, Resolved: resolved})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Label path, segments joined by \" / \" (required)")
	cmd.Flags().StringVar(&fallback, "fallback", "", "Id to report when the path does not resolve")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}
