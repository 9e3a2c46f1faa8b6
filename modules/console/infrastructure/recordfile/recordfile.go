package recordfile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/treesync/pkg/tree"
)

type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported record format")
	ErrUnknownKind       = errors.New("no record file configured for kind")
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatYAML, FormatTOML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", v)
	}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension of %s", path)
	}
}

// Decode reads a record document. JSON, YAML and TOML documents are either a list of
// records or an object holding the list under "records" or "data". When patch is not
// empty it is applied as an RFC 6902 JSON patch to the document before decoding.
func Decode(r io.Reader, format Format, patch []byte) ([]tree.Record, error) {
	if format == FormatCSV {
		if len(bytes.TrimSpace(patch)) > 0 {
			return nil, errors.Wrap(ErrUnsupportedFormat, "json patch on csv input")
		}
		return decodeCSV(r)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	doc, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(patch)) > 0 {
		p, err := jsonpatch.DecodePatch(patch)
		if err != nil {
			return nil, errors.Wrap(err, "decode json patch")
		}
		doc, err = p.Apply(doc)
		if err != nil {
			return nil, errors.Wrap(err, "apply json patch")
		}
	}

	return decodeDocument(doc)
}

func toJSON(raw []byte, format Format) ([]byte, error) {
	var v any
	switch format {
	case FormatJSON:
		return raw, nil
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrap(err, "decode yaml")
		}
	case FormatTOML:
		m := map[string]any{}
		if _, err := toml.Decode(string(raw), &m); err != nil {
			return nil, errors.Wrap(err, "decode toml")
		}
		v = m
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "convert %s to json", format)
	}
	return doc, nil
}

func decodeDocument(doc []byte) ([]tree.Record, error) {
	doc = bytes.TrimSpace(doc)
	if len(doc) > 0 && doc[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(doc, &wrapped); err != nil {
			return nil, errors.Wrap(err, "decode records")
		}
		list, ok := wrapped["records"]
		if !ok {
			list, ok = wrapped["data"]
		}
		if !ok {
			return nil, errors.New("decode records: expected a list or an object with \"records\"")
		}
		doc = list
	}

	var records []tree.Record
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	return records, nil
}

// ReadFile decodes path, detecting the format from the extension when format is auto.
// patchPath is optional.
func ReadFile(path string, format Format, patchPath string) ([]tree.Record, error) {
	if format == "" || format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	var patch []byte
	if patchPath != "" {
		b, err := os.ReadFile(patchPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read patch %s", patchPath)
		}
		patch = b
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	records, err := Decode(f, format, patch)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return records, nil
}

// Source serves record kinds ("menus", "departments", ...) from files.
type Source struct {
	Files     map[string]string
	Format    Format
	PatchPath string
}

func (s *Source) ListRecords(ctx context.Context, kind string) ([]tree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := s.Files[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return ReadFile(path, s.Format, s.PatchPath)
}
