package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfriedel/vsimap/internal/api"
	"github.com/mfriedel/vsimap/pkg/cache"
	"github.com/mfriedel/vsimap/pkg/config"
	"github.com/mfriedel/vsimap/pkg/errors"
	"github.com/mfriedel/vsimap/pkg/pipeline"
	"github.com/mfriedel/vsimap/pkg/source"
)

// serveOpts holds the command-line flags for the serve command.
// Flags override the corresponding config file fields when set.
type serveOpts struct {
	configPath string
	listen     string
	sourceURL  string
	poll       time.Duration
}

// newServeCmd creates the serve command that runs the HTTP API.
// The server fetches the record collection from the controller, publishes
// the synthesized graph on /api/graph, and optionally re-fetches on a
// poll interval.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the visualization frontend",
		Long: `Run the HTTP API for the visualization frontend.

Configuration is read from a TOML file (--config) with flag overrides.

Endpoints:
  GET  /health        liveness probe
  GET  /api/graph     topology graph, filterable with ?name= and ?state=
  GET  /api/records   raw record collection
  POST /api/refresh   re-fetch from the controller

Examples:
  vsimap serve --source-url https://controller.example.com/api/vsi
  vsimap serve --config /etc/vsimap.toml --listen :9090`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), c, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.sourceURL, "source-url", "", "controller records URL (overrides config)")
	cmd.Flags().DurationVar(&opts.poll, "poll", 0, "background poll interval, 0 disables (overrides config)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.sourceURL != "" {
		cfg.Source.URL = opts.sourceURL
	}
	if cmd.Flags().Changed("poll") {
		cfg.Source.PollInterval.Duration = opts.poll
	}
	if cfg.Source.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no source URL (set source.url or --source-url)")
	}
	logger.Debugf("Effective config: %s", cfg.String())

	c, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer c.Close()

	src := source.NewHTTPSource(cfg.Source.URL,
		source.WithCache(c, cfg.Cache.TTL.Duration))
	orch := pipeline.New(src, pipeline.WithLogger(logger))

	// The server comes up even when the controller is down; the first
	// successful fetch or /api/refresh populates the graph.
	if err := orch.Refresh(ctx); err != nil {
		logger.Warnf("Initial fetch failed, serving empty graph: %v", err)
	}

	if interval := cfg.Source.PollInterval.Duration; interval > 0 {
		go poll(ctx, orch, interval)
	}

	return api.New(orch, logger).ListenAndServe(ctx, cfg.Listen)
}

// poll re-fetches the record collection until ctx is cancelled.
// Failed fetches keep the last-known-good graph published.
func poll(ctx context.Context, orch *pipeline.Orchestrator, interval time.Duration) {
	logger := loggerFromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := orch.Refresh(ctx); err != nil {
				logger.Warnf("Poll fetch failed: %v", err)
			}
		}
	}
}

// buildCache constructs the response cache backend from config.
func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "file":
		dir := cfg.Dir
		if dir == "" {
			dir = defaultCacheDir()
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	default:
		return cache.NewNullCache(), nil
	}
}
