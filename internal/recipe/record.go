package recipe

import "slices"

// Record maps field names to the text substituted into a prompt.
type Record map[string]string

// SortedFields returns the record's field names in ordinal (byte-wise)
// order. The result depends only on the key set.
func SortedFields(r Record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Project returns the subset of r named by fields. Names absent from r are
// absent from the result.
func (r Record) Project(fields []string) Record {
	out := make(Record, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}
