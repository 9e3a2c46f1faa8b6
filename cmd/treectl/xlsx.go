package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Tree"

// writeXLSX exports rows to a single sheet. The label column is indented by depth so
// the hierarchy stays readable in a spreadsheet.
func writeXLSX(path string, rows []flatRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return withCode(exitIO, errors.Wrap(err, "rename sheet"))
	}

	header := make([]any, len(flatHeader))
	for i, h := range flatHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return withCode(exitIO, errors.Wrap(err, "write header"))
	}

	indentStyles := map[int]int{}
	for i, r := range rows {
		line := i + 2
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return withCode(exitIO, err)
		}
		values := []any{r.ID, r.ParentID, r.Label, r.Path, r.Depth, r.HasChildren, r.Expanded}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return withCode(exitIO, errors.Wrapf(err, "write row %d", line))
		}

		if r.Depth == 0 {
			continue
		}
		style, ok := indentStyles[r.Depth]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Indent: r.Depth}})
			if err != nil {
				return withCode(exitIO, errors.Wrap(err, "create indent style"))
			}
			indentStyles[r.Depth] = style
		}
		label, err := excelize.CoordinatesToCellName(3, line)
		if err != nil {
			return withCode(exitIO, err)
		}
		if err := f.SetCellStyle(xlsxSheet, label, label, style); err != nil {
			return withCode(exitIO, errors.Wrapf(err, "style row %d", line))
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return withCode(exitIO, errors.Wrapf(err, "mkdir %s", dir))
		}
	}
	if err := f.SaveAs(path); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "save %s", path))
	}
	return nil
}
