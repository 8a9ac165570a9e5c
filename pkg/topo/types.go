package topo

import "github.com/mfriedel/vsimap/pkg/vsi"

// Node kinds.
const (
	KindVSI  = "vsi"
	KindPeer = "peer"
)

// Graph is the synthesized topology published to the visualization sink.
// It is an immutable snapshot: every synthesis pass builds a fresh Graph and
// the previous one is discarded wholesale.
type Graph struct {
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Node is a vertex in the topology graph.
//
// Exactly one of VSI or Peer is set, matching Kind: vsi nodes carry the
// originating record, peer nodes a summary of the deduplicated peer.
type Node struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	VSI  *vsi.Record  `json:"vsi,omitempty"`
	Peer *PeerSummary `json:"peer,omitempty"`
}

// PeerSummary describes one remote peer address shared by every VSI that
// links to it.
type PeerSummary struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"` // first resolved device name seen for this address
	Links   int    `json:"links"`          // number of pseudowires terminating here
}

// Edge is one pseudowire between a VSI node and a peer node.
type Edge struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	PWID    string `json:"pw_id,omitempty"`
	PWState string `json:"pw_state,omitempty"`
	IsUp    bool   `json:"is_up"`
}

// Diagnostic reports a malformed peer link that was skipped during
// synthesis. Diagnostics are informational; synthesis always continues.
type Diagnostic struct {
	RecordID string `json:"record_id"`
	LinkID   string `json:"link_id,omitempty"`
	Message  string `json:"message"`
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
