// Package flatten reduces the nested field values returned by gene
// annotation services to scalars suitable for tabular display.
package flatten

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind identifies the shape held by a Value.
type Kind uint8

const (
	Absent Kind = iota
	Scalar
	List
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Mapping:
		return "mapping"
	}
	return "absent"
}

// Value is a single annotation field value.
type Value struct {
	Kind    Kind
	Text    string           // Scalar text
	Items   []Value          // List elements, in source order
	Entries map[string]Value // Mapping entries
	Raw     string           // source JSON for List and Mapping, if decoded
}

// None returns the absent value.
func None() Value { return Value{} }

// Str returns a scalar value.
func Str(s string) Value { return Value{Kind: Scalar, Text: s} }

// ListOf returns a list value holding items.
func ListOf(items ...Value) Value { return Value{Kind: List, Items: items} }

// MappingOf returns a mapping value holding entries.
func MappingOf(entries map[string]Value) Value { return Value{Kind: Mapping, Entries: entries} }

// IsAbsent reports whether v holds no value.
func (v Value) IsAbsent() bool { return v.Kind == Absent }

// Get returns the mapping entry for key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Mapping {
		return Value{}, false
	}
	e, ok := v.Entries[key]
	return e, ok
}

// String renders v as text. Absent renders as "", containers as JSON.
func (v Value) String() string {
	switch v.Kind {
	case Scalar:
		return v.Text
	case List, Mapping:
		if v.Raw != "" {
			return v.Raw
		}
		var sb strings.Builder
		v.writeJSON(&sb)
		return sb.String()
	}
	return ""
}

// writeJSON renders a Value built in code. Mapping keys are sorted so the
// output is stable.
func (v Value) writeJSON(sb *strings.Builder) {
	switch v.Kind {
	case Scalar:
		sb.WriteString(strconv.Quote(v.Text))
	case List:
		sb.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeJSON(sb)
		}
		sb.WriteByte(']')
	case Mapping:
		keys := make([]string, 0, len(v.Entries))
		for k := range v.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.Entries[k].writeJSON(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}

// FromJSON converts a decoded JSON node to a Value. Missing and null
// nodes are Absent; numbers and booleans become scalars holding their
// JSON text.
func FromJSON(r gjson.Result) Value {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return None()
	case r.IsArray():
		var items []Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, FromJSON(item))
			return true
		})
		return Value{Kind: List, Items: items, Raw: r.Raw}
	case r.IsObject():
		entries := make(map[string]Value)
		r.ForEach(func(key, item gjson.Result) bool {
			entries[key.String()] = FromJSON(item)
			return true
		})
		return Value{Kind: Mapping, Entries: entries, Raw: r.Raw}
	}
	return Str(r.String())
}
