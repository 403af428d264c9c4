package swarm

import (
	"encoding/json"
	"fmt"
	"strings"

	simplejson "github.com/bitly/go-simplejson"
)

// Record is a loosely typed document as returned by the orchestrator API.
// Fields are addressed with dotted paths ("Description.Resources.NanoCPUs") and
// every accessor falls back to a default when a level is missing or has the
// wrong type, so normalization never fails on malformed input.
type Record struct {
	doc *simplejson.Json
}

// ParseRecord decodes a JSON object into a Record
func ParseRecord(data []byte) (Record, error) {
	doc, err := simplejson.NewJson(data)
	if err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return Record{doc: doc}, nil
}

// NewRecord converts any JSON-serializable value (typically an API struct) into a Record
func NewRecord(v interface{}) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode record: %w", err)
	}
	return ParseRecord(data)
}

func (r Record) lookup(path string) *simplejson.Json {
	if r.doc == nil {
		return new(simplejson.Json)
	}
	if path == "" {
		return r.doc
	}
	return r.doc.GetPath(strings.Split(path, ".")...)
}

// Has reports whether the path holds a non-null value. An empty object counts as present.
func (r Record) Has(path string) bool {
	return r.lookup(path).Interface() != nil
}

// String returns the string at path or def
func (r Record) String(path, def string) string {
	v, err := r.lookup(path).String()
	if err != nil {
		return def
	}
	return v
}

// Float returns the number at path or 0
func (r Record) Float(path string) float64 {
	v, err := r.lookup(path).Float64()
	if err != nil {
		return 0
	}
	return v
}

// Int returns the integer at path or def
func (r Record) Int(path string, def int) int {
	v, err := r.lookup(path).Int64()
	if err != nil {
		return def
	}
	return int(v)
}

// Bool returns the boolean at path or false
func (r Record) Bool(path string) bool {
	v, err := r.lookup(path).Bool()
	if err != nil {
		return false
	}
	return v
}

// Object returns the nested object at path. ok is false when the path is
// missing, is not an object, or is an empty object.
func (r Record) Object(path string) (Record, bool) {
	sub := r.lookup(path)
	m, err := sub.Map()
	if err != nil || len(m) == 0 {
		return Record{}, false
	}
	return Record{doc: sub}, true
}

// MarshalJSON returns the underlying document
func (r Record) MarshalJSON() ([]byte, error) {
	if r.doc == nil {
		return []byte("null"), nil
	}
	return r.doc.MarshalJSON()
}
