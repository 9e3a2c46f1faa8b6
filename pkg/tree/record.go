package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a record. Backends send numeric or string ids; both are kept as text.
type ID string

// IsZero reports whether the id is absent. "0" is the conventional root marker for parentId.
func (id ID) IsZero() bool {
	s := strings.TrimSpace(string(id))
	return s == "" || s == "0"
}

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

// IDFromInt is a convenience for callers holding numeric ids.
func IDFromInt(v int64) ID {
	return ID(strconv.FormatInt(v, 10))
}

type Meta struct {
	Title string `json:"title,omitempty"`
}

// Record is one flat row from a list endpoint.
// Extra carries every field the engine does not read; it is passed through untouched.
type Record struct {
	ID       ID             `json:"id"`
	ParentID ID             `json:"parentId,omitempty"`
	Name     string         `json:"name,omitempty"`
	Title    string         `json:"title,omitempty"`
	Meta     Meta           `json:"meta,omitempty"`
	Order    float64        `json:"order,omitempty"`
	Extra    map[string]any `json:"-"`
}

// Label picks the human name: meta.title, then title, then name.
func (r Record) Label() string {
	for _, v := range []string{r.Meta.Title, r.Title, r.Name} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var recordKeys = map[string]struct{}{
	"id": {}, "parentId": {}, "name": {}, "title": {}, "meta": {}, "order": {},
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	type plain Record
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Record(p)

	for k, raw := range fields {
		if _, ok := recordKeys[k]; ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+6)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["id"] = r.ID
	if !r.ParentID.IsZero() {
		out["parentId"] = r.ParentID
	}
	if r.Name != "" {
		out["name"] = r.Name
	}
	if r.Title != "" {
		out["title"] = r.Title
	}
	if r.Meta.Title != "" {
		out["meta"] = r.Meta
	}
	if r.Order != 0 {
		out["order"] = r.Order
	}
	return json.Marshal(out)
}
