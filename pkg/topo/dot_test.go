package topo

import (
	"strings"
	"testing"

	"github.com/mfriedel/vsimap/pkg/vsi"
)

func TestToDOT(t *testing.T) {
	g, err := Synthesize([]vsi.Record{
		{ID: "1", Name: "VSI-A", Peers: []vsi.PeerLink{
			{ID: "10", PeerAddress: "10.0.0.1", PWID: "100", PWState: "up", PeerName: "pe1"},
			{ID: "11", PeerAddress: "10.0.0.2", PWID: "101", PWState: "down"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g)

	for _, want := range []string{
		`"vsi-1"`,
		`"peer-10.0.0.1"`,
		`"peer-10.0.0.2"`,
		`"vsi-1" -> "peer-10.0.0.1"`,
		"label=\"VSI-A\"",
		"pe1",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %s:\n%s", want, dot)
		}
	}

	// The down pseudowire is the only dashed edge.
	if got := strings.Count(dot, "style=dashed"); got != 1 {
		t.Errorf("dashed edges = %d, want 1", got)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	records := twoVSIsSharedPeer()

	a, _ := Synthesize(records)
	b, _ := Synthesize(records)
	if ToDOT(a) != ToDOT(b) {
		t.Error("DOT output differs across identical passes")
	}
}
