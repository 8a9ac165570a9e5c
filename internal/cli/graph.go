package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfriedel/vsimap/pkg/cache"
	"github.com/mfriedel/vsimap/pkg/source"
	"github.com/mfriedel/vsimap/pkg/topo"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	name    string // case-insensitive substring filter on VSI names
	state   string // exact-match filter on normalized VSI state
	format  string // output format: json, dot, or svg
	output  string // output file path (stdout if empty)
	refresh bool   // bypass the response cache for URL sources
}

// newGraphCmd creates the graph command for one-shot topology synthesis.
// It reads a record collection from a local JSON file or a controller URL,
// applies the name/state filters, and writes the synthesized graph.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "graph <records.json|url>",
		Short: "Synthesize a topology graph from a VSI record collection",
		Long: `Synthesize a topology graph from a VSI record collection.

The argument is either a local JSON file or the controller's records URL.
Records can be narrowed with --name (substring, case-insensitive) and
--state (exact match, trailing markers like "up*" ignored).

Examples:
  vsimap graph records.json
  vsimap graph records.json --name core --state up
  vsimap graph https://controller.example.com/api/vsi --format svg -o topo.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGraph(c.Context(), &opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "filter VSIs by name substring")
	cmd.Flags().StringVar(&opts.state, "state", "", "filter VSIs by state")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format (json|dot|svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache for URL sources")

	return cmd
}

// runGraph fetches records, filters them, and writes the synthesized graph.
func runGraph(ctx context.Context, opts *graphOpts, arg string) error {
	logger := loggerFromContext(ctx)

	src, err := newSource(ctx, arg, opts.refresh)
	if err != nil {
		return err
	}
	logger.Infof("Loading records from %s", src.Name())

	prog := newProgress(logger)
	records, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	filtered := vsi.Filter(records, opts.name, opts.state)
	g, err := topo.Synthesize(filtered)
	if err != nil {
		return err
	}
	for _, d := range g.Diagnostics {
		logger.Warnf("Skipped link %s on record %s: %s", d.LinkID, d.RecordID, d.Message)
	}
	prog.done(fmt.Sprintf("Synthesized %d nodes with %d edges", g.NodeCount(), g.EdgeCount()))

	if err := writeGraph(g, opts.format, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printStats(g.NodeCount(), g.EdgeCount(), len(g.Diagnostics))
	}
	return nil
}

// newSource builds a record source from a file path or URL argument.
// URL sources get a file-backed response cache unless refresh is set.
func newSource(ctx context.Context, arg string, refresh bool) (source.Source, error) {
	if !looksLikeURL(arg) {
		return source.NewFileSource(arg), nil
	}

	httpOpts := []source.HTTPOption{source.WithRefresh(refresh)}
	if c, err := cache.NewFileCache(defaultCacheDir()); err == nil {
		httpOpts = append(httpOpts, source.WithCache(c, source.DefaultCacheTTL))
	} else {
		printWarning("Response cache disabled: %v", err)
	}
	return source.NewHTTPSource(arg, httpOpts...), nil
}

// looksLikeURL returns true if arg is an HTTP(S) URL rather than a file path.
func looksLikeURL(arg string) bool {
	lower := strings.ToLower(arg)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// defaultCacheDir returns the per-user response cache directory.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "vsimap")
}

// writeGraph serializes g in the requested format to path (or stdout if empty).
func writeGraph(g *topo.Graph, format, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return err
		}
	case "dot":
		if _, err := io.WriteString(out, topo.ToDOT(g)); err != nil {
			return err
		}
	case "svg":
		svg, err := topo.RenderSVG(topo.ToDOT(g))
		if err != nil {
			return err
		}
		if _, err := out.Write(svg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s (available: json, dot, svg)", format)
	}

	if path != "" {
		printFile(path)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
