package vsi

import "testing"

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		name  string
		state string
		want  string
	}{
		{"Empty", "", ""},
		{"Plain", "up", "up"},
		{"FoldsCase", "UP", "up"},
		{"StripsMarker", "up*", "up"},
		{"StripsMarkerAndFoldsCase", "Down*", "down"},
		{"StripsOnlyOneMarker", "up**", "up*"},
		{"MarkerOnly", "*", ""},
		{"KeepsTrailingDigit", "lag1", "lag1"},
		{"AdminDown", "admin-down", "admin-down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeState(tt.state); got != tt.want {
				t.Errorf("NormalizeState(%q) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestRecordValidate(t *testing.T) {
	r := Record{ID: "1", Name: "VSI-A"}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	missing := Record{Name: "VSI-B"}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for record without id")
	}
}
