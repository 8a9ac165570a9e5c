package vsi

import (
	"fmt"
	"strings"
	"unicode"
)

// Record is one virtual switching instance as reported by the controller.
//
// ID is the only required field. Everything else may be absent in degraded
// controller responses and is handled gracefully downstream: records with an
// empty Name or State simply never match a non-empty filter, and peer links
// without an address are skipped during synthesis.
type Record struct {
	ID            string     `json:"id"`
	Name          string     `json:"name,omitempty"`
	State         string     `json:"state,omitempty"` // may carry one trailing marker character, e.g. "up*"
	MTU           int        `json:"mtu,omitempty"`
	Type          string     `json:"type,omitempty"`
	VLANID        int        `json:"vlan_id,omitempty"`
	Encapsulation string     `json:"encapsulation,omitempty"`
	MACLearning   string     `json:"mac_learning,omitempty"`
	Peers         []PeerLink `json:"peers,omitempty"`
}

// PeerLink is one pseudowire from a VSI to a remote peer. PeerAddress is the
// identity key for peer deduplication; a link without it cannot be placed in
// the graph. The pseudowire carries its own operational state independent of
// the VSI's state.
type PeerLink struct {
	ID          string `json:"id"`
	PeerAddress string `json:"peer_address,omitempty"`
	PWID        string `json:"pw_id,omitempty"`
	PWState     string `json:"pw_state,omitempty"`
	InLabel     int    `json:"in_label,omitempty"`
	OutLabel    int    `json:"out_label,omitempty"`
	PeerName    string `json:"peer_name,omitempty"` // resolved device name, if known
}

// Validate checks the caller contract for a record.
// A record without an ID indicates a bug in the data source and is reported
// as a hard failure rather than skipped.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record %q: missing id", r.Name)
	}
	return nil
}

// NormalizeState canonicalizes an operational state for comparison: the
// state is lower-cased and a single trailing marker character, if present,
// is stripped. The controller suffixes one non-alphanumeric marker on some
// states (e.g. "up*"); the marker has no meaning here beyond being removed.
func NormalizeState(state string) string {
	s := strings.ToLower(state)
	if s == "" {
		return s
	}
	runes := []rune(s)
	if last := runes[len(runes)-1]; !unicode.IsLetter(last) && !unicode.IsDigit(last) {
		s = string(runes[:len(runes)-1])
	}
	return s
}
