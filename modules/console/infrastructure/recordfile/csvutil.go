package recordfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/iota-uz/treesync/pkg/tree"
)

const (
	colID        = "id"
	colParentID  = "parentId"
	colName      = "name"
	colTitle     = "title"
	colMetaTitle = "metaTitle"
	colOrder     = "order"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newCSVReader(r io.Reader) *csv.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	return cr
}

// readHeader returns the trimmed header row and checks it names every required
// column exactly once.
func readHeader(cr *csv.Reader, required ...string) ([]string, error) {
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header")
	}
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if !utf8.ValidString(h) {
			return nil, errors.Errorf("header column %d is not valid utf-8", i+1)
		}
		if _, dup := seen[h]; dup {
			return nil, errors.Errorf("duplicate header column %q", h)
		}
		seen[h] = struct{}{}
		header[i] = h
	}
	for _, col := range required {
		if _, ok := seen[col]; !ok {
			return nil, errors.Errorf("missing required header column %q", col)
		}
	}
	return header, nil
}

// decodeCSV reads one record per row. Columns other than the core ones land in Extra
// as strings. A malformed order is a hard error; a blank id is left for Build to skip.
func decodeCSV(r io.Reader) ([]tree.Record, error) {
	cr := newCSVReader(r)
	header, err := readHeader(cr, colID, colParentID)
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}

	records := make([]tree.Record, 0, 64)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "csv line %d", line)
		}

		var rec tree.Record
		for i, col := range header {
			if i >= len(row) {
				break
			}
			v := strings.TrimSpace(row[i])
			switch col {
			case colID:
				rec.ID = tree.ID(v)
			case colParentID:
				rec.ParentID = tree.ID(v)
			case colName:
				rec.Name = v
			case colTitle:
				rec.Title = v
			case colMetaTitle:
				rec.Meta.Title = v
			case colOrder:
				if v == "" {
					continue
				}
				order, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "csv line %d: order", line)
				}
				rec.Order = order
			default:
				if rec.Extra == nil {
					rec.Extra = make(map[string]any)
				}
				rec.Extra[col] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
