package flatten

import (
	"sort"
	"strings"
)

// Separator joins the elements of a flattened list.
const Separator = ";"

// GeneKey is the mapping entry that Flatten unwraps.
const GeneKey = "gene"

// Flatten reduces v to a scalar where its shape allows:
//
//   - a List becomes the sorted, de-duplicated, ";"-joined string forms
//     of its elements (each element flattened first, absent ones dropped);
//   - a Mapping with a "gene" entry becomes that entry;
//   - anything else is returned unchanged.
func Flatten(v Value) Value {
	switch v.Kind {
	case List:
		seen := make(map[string]struct{}, len(v.Items))
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			f := Flatten(item)
			if f.IsAbsent() {
				continue
			}
			s := f.String()
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			parts = append(parts, s)
		}
		sort.Strings(parts)
		return Str(strings.Join(parts, Separator))
	case Mapping:
		if gene, ok := v.Entries[GeneKey]; ok {
			return gene
		}
	}
	return v
}

// Map applies Flatten to each value and returns a new slice.
func Map(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Flatten(v)
	}
	return out
}
