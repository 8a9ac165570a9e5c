package vsi

import "strings"

// Filter returns the records matching the given name and state criteria,
// preserving input order.
//
// An empty nameFilter matches every record; a non-empty one is a
// case-insensitive substring match against the record name. An empty
// stateFilter matches every record; a non-empty one must equal the record's
// state after [NormalizeState] - exact comparison, not substring.
//
// Records with an empty name or state never match the corresponding
// non-empty filter. The input slice is not modified.
func Filter(records []Record, nameFilter, stateFilter string) []Record {
	if nameFilter == "" && stateFilter == "" {
		return records
	}

	name := strings.ToLower(nameFilter)
	state := strings.ToLower(stateFilter)

	var out []Record
	for _, r := range records {
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if state != "" && NormalizeState(r.State) != state {
			continue
		}
		out = append(out, r)
	}
	return out
}
