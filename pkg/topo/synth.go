package topo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mfriedel/vsimap/pkg/vsi"
)

// ErrMissingRecordID is returned by [Synthesize] when a record has no ID.
// This is a contract violation by the data source, not a runtime condition
// to recover from.
var ErrMissingRecordID = errors.New("record missing id")

// Placeholder two-row layout. VSI nodes occupy the top row, peer nodes the
// bottom row, each with its own running horizontal offset.
const (
	baseX    = 60.0
	spacingX = 140.0
	vsiRowY  = 80.0
	peerRowY = 320.0
)

// Synthesize maps a filtered record set to a topology graph.
//
// The address→peer lookup is scoped to this one call and discarded with it,
// so peer identities can never leak between passes. Iteration follows the
// input order, which makes the output deterministic: same records, same
// order, byte-identical graph.
//
// Peer links without an address degrade gracefully - they are skipped and
// recorded in Graph.Diagnostics. A record without an ID fails the whole pass
// with [ErrMissingRecordID].
func Synthesize(records []vsi.Record) (*Graph, error) {
	g := &Graph{
		Nodes: []Node{},
		Edges: []Edge{},
	}

	peers := make(map[string]int) // address -> index into g.Nodes
	peerCol := 0

	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrMissingRecordID)
		}

		vsiID := "vsi-" + r.ID
		g.Nodes = append(g.Nodes, Node{
			ID:   vsiID,
			Kind: KindVSI,
			X:    baseX + float64(i)*spacingX,
			Y:    vsiRowY,
			VSI:  r,
		})

		for _, link := range r.Peers {
			if link.PeerAddress == "" {
				g.Diagnostics = append(g.Diagnostics, Diagnostic{
					RecordID: r.ID,
					LinkID:   link.ID,
					Message:  "peer link has no address",
				})
				continue
			}

			idx, ok := peers[link.PeerAddress]
			if !ok {
				idx = len(g.Nodes)
				peers[link.PeerAddress] = idx
				g.Nodes = append(g.Nodes, Node{
					ID:   "peer-" + link.PeerAddress,
					Kind: KindPeer,
					X:    baseX + float64(peerCol)*spacingX,
					Y:    peerRowY,
					Peer: &PeerSummary{Address: link.PeerAddress, Name: link.PeerName},
				})
				peerCol++
			}

			peer := g.Nodes[idx].Peer
			peer.Links++
			if peer.Name == "" && link.PeerName != "" {
				peer.Name = link.PeerName
			}

			g.Edges = append(g.Edges, Edge{
				ID:      fmt.Sprintf("edge-%s-%s", r.ID, link.ID),
				Source:  vsiID,
				Target:  g.Nodes[idx].ID,
				PWID:    link.PWID,
				PWState: link.PWState,
				IsUp:    strings.EqualFold(link.PWState, "up"),
			})
		}
	}

	return g, nil
}
