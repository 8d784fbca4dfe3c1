// Package apt parses APT repository metadata (Release and Packages indices)
// and derives the URLs a previewer fetches them from.
package apt

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ReleaseField represents a standard field in a Debian Release file.
type ReleaseField string

const (
	RelOrigin        ReleaseField = "Origin"
	RelLabel         ReleaseField = "Label"
	RelSuite         ReleaseField = "Suite"
	RelVersion       ReleaseField = "Version"
	RelCodename      ReleaseField = "Codename"
	RelDate          ReleaseField = "Date"
	RelArchitectures ReleaseField = "Architectures"
	RelComponents    ReleaseField = "Components"
	RelDescription   ReleaseField = "Description"
)

// ControlField represents a field of a Packages stanza.
type ControlField string

const (
	FieldPackage  ControlField = "Package"
	FieldVersion  ControlField = "Version"
	FieldFilename ControlField = "Filename"
)

// ValueKind tells how a field value was produced.
type ValueKind int

const (
	// Scalar is a field with exactly one contributing line.
	Scalar ValueKind = iota
	// Multi is a field with continuation lines, one item per line.
	Multi
	// List is a space-separated field split into tokens (Architectures, Components).
	List
)

// String returns the string representation of ValueKind
func (k ValueKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Multi:
		return "multi"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a field value of a control stanza.
type Value struct {
	Kind  ValueKind
	Items []string
}

// ScalarValue returns a single-line value.
func ScalarValue(s string) Value {
	return Value{Kind: Scalar, Items: []string{s}}
}

// String returns the scalar text, or the items joined the way they were written:
// lines by newline for Multi and tokens by a space for List.
func (v Value) String() string {
	switch v.Kind {
	case Scalar:
		if len(v.Items) == 0 {
			return ""
		}
		return v.Items[0]
	case List:
		return strings.Join(v.Items, " ")
	default:
		return strings.Join(v.Items, "\n")
	}
}

// FieldMap maps field names to values and remembers the order in which
// fields first appeared.
type FieldMap struct {
	keys   []string
	values map[string]Value
}

// NewFieldMap creates an empty FieldMap
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]Value)}
}

// Set stores v under key. A key keeps the position of its first appearance.
func (m *FieldMap) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value of key and whether it is present
func (m *FieldMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present
func (m *FieldMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns field names in order of first appearance
func (m *FieldMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of fields
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// String serializes the map back into control-file text. Multi values are
// written as continuation lines indented by one space.
func (m *FieldMap) String() string {
	var b strings.Builder
	for _, key := range m.keys {
		v := m.values[key]
		switch v.Kind {
		case Multi:
			b.WriteString(key + ": ")
			for i, item := range v.Items {
				if i > 0 {
					b.WriteString(" ")
				}
				b.WriteString(item + "\n")
			}
		default:
			b.WriteString(key + ": " + v.String() + "\n")
		}
	}
	return b.String()
}

// MarshalJSON encodes the map as a JSON object in field order. Scalar values
// become strings, Multi and List values become arrays.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v := m.values[key]
		var data []byte
		if v.Kind == Scalar {
			data, err = json.Marshal(v.String())
		} else {
			items := v.Items
			if items == nil {
				items = []string{}
			}
			data, err = json.Marshal(items)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
