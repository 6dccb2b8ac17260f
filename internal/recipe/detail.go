// Package recipe holds the recipe detail payload and the reshaping applied
// to it before formatting.
package recipe

import (
	"errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Detail is an immutable recipe detail payload: a JSON object as returned by
// the recipe API. Derived values are produced as new Details.
type Detail struct {
	raw []byte
}

var (
	errInvalidJSON = errors.New("recipe detail is not valid JSON")
	errNotObject   = errors.New("recipe detail is not a JSON object")
)

// NewDetail validates raw and takes a private copy of it.
func NewDetail(raw []byte) (Detail, error) {
	if !gjson.ValidBytes(raw) {
		return Detail{}, errInvalidJSON
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return Detail{}, errNotObject
	}
	return Detail{raw: append([]byte(nil), raw...)}, nil
}

// Raw returns a copy of the payload.
func (d Detail) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Pretty returns the payload indented for display.
func (d Detail) Pretty() string {
	return string(pretty.Pretty(d.raw))
}

// Field returns the top-level field key.
func (d Detail) Field(key string) gjson.Result {
	return gjson.GetBytes(d.raw, gjson.Escape(key))
}

// Has reports whether the top-level field key is present.
func (d Detail) Has(key string) bool {
	return d.Field(key).Exists()
}

func (d Detail) Title() string { return d.Field("title").String() }
func (d Detail) Image() string { return d.Field("image").String() }

// Keys returns the top-level field names in source order.
func (d Detail) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	gjson.ParseBytes(d.raw).ForEach(func(k, _ gjson.Result) bool {
		if name := k.String(); !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
		return true
	})
	return keys
}

// Record flattens the top-level fields into template values. Strings are
// kept verbatim, null becomes "", anything else is its compact JSON text.
func (d Detail) Record() Record {
	rec := make(Record)
	gjson.ParseBytes(d.raw).ForEach(func(k, v gjson.Result) bool {
		switch v.Type {
		case gjson.String:
			rec[k.String()] = v.String()
		case gjson.Null:
			rec[k.String()] = ""
		default:
			rec[k.String()] = string(pretty.Ugly([]byte(v.Raw)))
		}
		return true
	})
	return rec
}
