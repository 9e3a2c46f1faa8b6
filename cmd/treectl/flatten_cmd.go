package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/treesync/modules/console/presentation/mappers"
	"github.com/iota-uz/treesync/pkg/tree"
)

type flattenOptions struct {
	Out  string `validate:"oneof=json csv xlsx"`
	File string `validate:"required_if=Out xlsx"`
}

// flatRow is one exported table line. Path is the label path of the node.
type flatRow struct {
	ID          string `json:"id"`
	ParentID    string `json:"parentId,omitempty"`
	Label       string `json:"label"`
	Path        string `json:"path"`
	Depth       int    `json:"depth"`
	HasChildren bool   `json:"hasChildren"`
	Expanded    bool   `json:"expanded"`
}

func newFlattenCmd(a *app) *cobra.Command {
	var opts flattenOptions
	var depth int
	var all bool

	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten the visible rows of the tree into a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptions(opts); err != nil {
				return withCode(exitValidation, err)
			}
			forest, err := a.forest(cmd.Context())
			if err != nil {
				return err
			}
			expanded := tree.ExpandToDepth(forest, a.expandDepth(cmd, depth))
			if all {
				expanded = tree.ExpandAll(forest)
			}
			rows := flattenRows(forest, expanded)

			if opts.Out == "xlsx" {
				if err := writeXLSX(opts.File, rows); err != nil {
					return err
				}
				return writeJSONLine(cmd.OutOrStdout(), map[string]any{"status": "written", "file": opts.File, "rows": len(rows)})
			}

			w := cmd.OutOrStdout()
			if opts.File != "" {
				f, err := os.Create(opts.File)
				if err != nil {
					return withCode(exitIO, errors.Wrapf(err, "create %s", opts.File))
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if opts.Out == "csv" {
				return writeCSV(w, rows)
			}
			return writeJSON(w, rows)
		},
	}

	cmd.Flags().IntVar(&depth, "expand", 1, "Expand parents shallower than this depth; -1 expands everything")
	cmd.Flags().BoolVar(&all, "all", false, "Expand every node")
	cmd.Flags().StringVar(&opts.Out, "out", "json", "Output format: json|csv|xlsx")
	cmd.Flags().StringVar(&opts.File, "file", "", "Output file (required for xlsx; stdout otherwise)")
	return cmd
}

func flattenRows(forest tree.Forest, expanded tree.ExpansionSet) []flatRow {
	idx := forest.Index()
	visible := tree.Flatten(forest, expanded)
	table := mappers.RowsToTable(visible, expanded, nil)

	out := make([]flatRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		id := tree.ID(r.ID)
		path, _ := idx.PathOf(id)
		out = append(out, flatRow{
			ID:          r.ID,
			ParentID:    r.ParentID,
			Label:       r.Label,
			Path:        path,
			Depth:       r.Depth,
			HasChildren: r.HasChildren,
			Expanded:    r.Expanded,
		})
	}
	return out
}

var flatHeader = []string{"id", "parentId", "label", "path", "depth", "hasChildren", "expanded"}

func (r flatRow) cells() []string {
	return []string{
		r.ID,
		r.ParentID,
		r.Label,
		r.Path,
		strconv.Itoa(r.Depth),
		strconv.FormatBool(r.HasChildren),
		strconv.FormatBool(r.Expanded),
	}
}

func writeCSV(w io.Writer, rows []flatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flatHeader); err != nil {
		return withCode(exitIO, err)
	}
	for _, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return withCode(exitIO, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return withCode(exitIO, errors.Wrap(err, "write csv"))
	}
	return nil
}
