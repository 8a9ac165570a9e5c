package vsi

import (
	"reflect"
	"testing"
)

func testRecords() []Record {
	return []Record{
		{ID: "1", Name: "CORE-SW1", State: "up*"},
		{ID: "2", Name: "edge-sw2", State: "down"},
		{ID: "3", Name: "CORE-SW3", State: "Up"},
		{ID: "4", Name: "", State: ""},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name        string
		nameFilter  string
		stateFilter string
		wantIDs     []string
	}{
		{"EmptyFiltersReturnAll", "", "", []string{"1", "2", "3", "4"}},
		{"NameSubstringCaseInsensitive", "core", "", []string{"1", "3"}},
		{"NameUppercaseFilter", "EDGE", "", []string{"2"}},
		{"StateExactAfterNormalization", "", "up", []string{"1", "3"}},
		{"StateDown", "", "down", []string{"2"}},
		{"StateIsNotSubstring", "", "u", nil},
		{"NameAndStateCombined", "core", "up", []string{"1", "3"}},
		{"EmptyFieldsNeverMatch", "", "unknown", nil},
		{"NoMatches", "nonexistent", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(testRecords(), tt.nameFilter, tt.stateFilter)

			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.nameFilter, tt.stateFilter, ids, tt.wantIDs)
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := testRecords()
	snapshot := make([]Record, len(records))
	copy(snapshot, records)

	Filter(records, "core", "up")

	if !reflect.DeepEqual(records, snapshot) {
		t.Error("Filter mutated the input slice")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	records := []Record{
		{ID: "9", Name: "b-vsi", State: "up"},
		{ID: "1", Name: "a-vsi", State: "up"},
		{ID: "5", Name: "c-vsi", State: "up"},
	}

	got := Filter(records, "vsi", "up")
	if len(got) != 3 {
		t.Fatalf("filtered = %d records, want 3", len(got))
	}
	for i, want := range []string{"9", "1", "5"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, want)
		}
	}
}
