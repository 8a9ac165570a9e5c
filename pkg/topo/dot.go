package topo

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a topology graph to Graphviz DOT format.
//
// VSI nodes are rendered as rounded boxes on the top rank, peer nodes as
// ellipses below them. Edges for pseudowires that are not up are drawn
// dashed and red. The output is deterministic - it follows the graph's node
// and edge order.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph vsimap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("label=%q", e.PWID)}
		if !e.IsUp {
			attrs = append(attrs, "style=dashed", "color=red")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n Node) []string {
	switch n.Kind {
	case KindPeer:
		label := n.Peer.Address
		if n.Peer.Name != "" {
			label = n.Peer.Name + "\n" + n.Peer.Address
		}
		return []string{
			fmt.Sprintf("label=%q", label),
			"shape=ellipse",
			"style=filled",
			"fillcolor=lightyellow",
		}
	default:
		label := n.ID
		if n.VSI != nil && n.VSI.Name != "" {
			label = n.VSI.Name
		}
		return []string{
			fmt.Sprintf("label=%q", label),
			"shape=box",
			"style=\"rounded,filled\"",
			"fillcolor=white",
		}
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
