package topo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mfriedel/vsimap/pkg/vsi"
)

func twoVSIsSharedPeer() []vsi.Record {
	return []vsi.Record{
		{
			ID: "1", Name: "VSI-A", State: "up*",
			Peers: []vsi.PeerLink{{ID: "10", PeerAddress: "10.0.0.1", PWState: "up"}},
		},
		{
			ID: "2", Name: "VSI-B", State: "down",
			Peers: []vsi.PeerLink{{ID: "11", PeerAddress: "10.0.0.1", PWState: "down"}},
		},
	}
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name      string
		records   []vsi.Record
		wantNodes int
		wantEdges int
		wantDiags int
		check     func(t *testing.T, g *Graph)
	}{
		{
			name:      "Empty",
			records:   nil,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:      "SharedPeerIsDeduplicated",
			records:   twoVSIsSharedPeer(),
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *Graph) {
				if _, ok := g.Node("peer-10.0.0.1"); !ok {
					t.Error("peer node peer-10.0.0.1 not found")
				}
				if g.Edges[0].Target != "peer-10.0.0.1" || g.Edges[1].Target != "peer-10.0.0.1" {
					t.Errorf("edges do not share the peer node: %+v", g.Edges)
				}
				if !g.Edges[0].IsUp {
					t.Error("edge for pw state \"up\" should be up")
				}
				if g.Edges[1].IsUp {
					t.Error("edge for pw state \"down\" should not be up")
				}
			},
		},
		{
			name: "DistinctPeersGetDistinctNodes",
			records: []vsi.Record{
				{ID: "1", Peers: []vsi.PeerLink{
					{ID: "10", PeerAddress: "10.0.0.1", PWState: "up"},
					{ID: "11", PeerAddress: "10.0.0.2", PWState: "up"},
				}},
			},
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *Graph) {
				if g.Edges[0].Target == g.Edges[1].Target {
					t.Error("distinct addresses must not share a peer node")
				}
			},
		},
		{
			name: "MissingAddressIsSkippedWithDiagnostic",
			records: []vsi.Record{
				{ID: "1", Peers: []vsi.PeerLink{
					{ID: "10", PWState: "up"},
					{ID: "11", PeerAddress: "10.0.0.2", PWState: "up"},
				}},
			},
			wantNodes: 2,
			wantEdges: 1,
			wantDiags: 1,
			check: func(t *testing.T, g *Graph) {
				d := g.Diagnostics[0]
				if d.RecordID != "1" || d.LinkID != "10" {
					t.Errorf("diagnostic = %+v, want record 1 link 10", d)
				}
			},
		},
		{
			name: "IsUpIsCaseInsensitive",
			records: []vsi.Record{
				{ID: "1", Peers: []vsi.PeerLink{{ID: "10", PeerAddress: "10.0.0.1", PWState: "Up"}}},
			},
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, g *Graph) {
				if !g.Edges[0].IsUp {
					t.Error("pw state \"Up\" should derive is_up=true")
				}
			},
		},
		{
			name: "PeerSummaryCountsLinks",
			records: []vsi.Record{
				{ID: "1", Peers: []vsi.PeerLink{{ID: "10", PeerAddress: "10.0.0.1", PeerName: "pe1"}}},
				{ID: "2", Peers: []vsi.PeerLink{{ID: "11", PeerAddress: "10.0.0.1"}}},
			},
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g *Graph) {
				n, _ := g.Node("peer-10.0.0.1")
				if n.Peer.Links != 2 {
					t.Errorf("peer links = %d, want 2", n.Peer.Links)
				}
				if n.Peer.Name != "pe1" {
					t.Errorf("peer name = %q, want pe1", n.Peer.Name)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Synthesize(tt.records)
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}

			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if got := len(g.Diagnostics); got != tt.wantDiags {
				t.Errorf("diagnostics = %d, want %d", got, tt.wantDiags)
			}

			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestSynthesizeOneVSINodePerRecord(t *testing.T) {
	records := []vsi.Record{
		{ID: "1"}, {ID: "2"}, {ID: "3"},
	}

	g, err := Synthesize(records)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	var vsiNodes int
	for _, n := range g.Nodes {
		if n.Kind == KindVSI {
			vsiNodes++
		}
	}
	if vsiNodes != len(records) {
		t.Errorf("vsi nodes = %d, want %d", vsiNodes, len(records))
	}
}

func TestSynthesizeMissingRecordID(t *testing.T) {
	_, err := Synthesize([]vsi.Record{{Name: "no-id"}})
	if !errors.Is(err, ErrMissingRecordID) {
		t.Errorf("err = %v, want ErrMissingRecordID", err)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a, err := Synthesize(twoVSIsSharedPeer())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthesize(twoVSIsSharedPeer())
	if err != nil {
		t.Fatal(err)
	}

	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Error("two passes over identical input produced different graphs")
	}
}

func TestSynthesizePositions(t *testing.T) {
	g, err := Synthesize(twoVSIsSharedPeer())
	if err != nil {
		t.Fatal(err)
	}

	first, _ := g.Node("vsi-1")
	second, _ := g.Node("vsi-2")
	if first.Y != second.Y {
		t.Error("vsi nodes must share a row")
	}
	if second.X <= first.X {
		t.Errorf("vsi x positions must increase: %v then %v", first.X, second.X)
	}

	peer, _ := g.Node("peer-10.0.0.1")
	if peer.Y == first.Y {
		t.Error("peer row must differ from vsi row")
	}
}
