// Package pipeline provides the recompute orchestrator at the heart of
// vsimap.
//
// The [Orchestrator] holds the authoritative unfiltered dataset and the
// current filter values. Whenever either changes it synchronously reruns the
// two pure stages - filter ([vsi.Filter]) then synthesize
// ([topo.Synthesize]) - and publishes the resulting graph as one atomic
// replacement. Consumers can never observe nodes from one pass paired with
// edges from another: the published value is a single immutable graph
// swapped under a lock.
//
// # Refresh ordering
//
// Upstream fetches may overlap and complete out of order. Each refresh is
// issued a monotonically increasing sequence number via [Orchestrator.BeginRefresh];
// [Orchestrator.CompleteRefresh] applies a completion only if no newer
// refresh has been issued since (last-issued-wins). A failed refresh
// surfaces through [Orchestrator.LastError] while the last-known-good graph
// stays published.
//
// # Usage
//
//	orch := pipeline.New(src, pipeline.WithLogger(logger))
//	if err := orch.Refresh(ctx); err != nil {
//	    log.Error("refresh failed", "err", err)
//	}
//	orch.SetFilters("core", "up")
//	g := orch.Graph()
package pipeline

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mfriedel/vsimap/pkg/source"
	"github.com/mfriedel/vsimap/pkg/topo"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

// Refresh is a token for one issued upstream fetch. Seq orders refreshes;
// ID correlates log lines for a single refresh across goroutines.
type Refresh struct {
	Seq uint64
	ID  string
}

// Orchestrator owns the dataset, the filter values, and the published
// graph. All methods are safe for concurrent use; synthesis passes are
// serialized by construction - no pass ever interleaves with another.
type Orchestrator struct {
	logger *log.Logger
	src    source.Source

	mu          sync.RWMutex
	records     []vsi.Record
	nameFilter  string
	stateFilter string
	published   *topo.Graph
	fetchErr    error
	issuedSeq   uint64
	appliedSeq  uint64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator reading from src. The source may be nil if
// data is only ever supplied through [Orchestrator.SetData].
// The orchestrator starts with an empty dataset and an empty published
// graph - a valid terminal state, not an error.
func New(src source.Source, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		src:       src,
		published: &topo.Graph{Nodes: []topo.Node{}, Edges: []topo.Edge{}},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Graph returns the currently published graph. The returned value is an
// immutable snapshot from one synthesis pass; callers must not modify it.
func (o *Orchestrator) Graph() *topo.Graph {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.published
}

// Records returns the authoritative unfiltered dataset.
func (o *Orchestrator) Records() []vsi.Record {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.records
}

// Filters returns the current name and state filter values.
func (o *Orchestrator) Filters() (name, state string) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.nameFilter, o.stateFilter
}

// LastError returns the error state of the most recent refresh, or nil.
// A non-nil error means the last fetch failed and the published graph is
// the last-known-good one.
func (o *Orchestrator) LastError() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fetchErr
}

// SetData replaces the dataset wholesale and resynthesizes.
// On synthesis failure (a record without an ID) neither the dataset nor the
// published graph changes and the error is returned.
func (o *Orchestrator) SetData(records []vsi.Record) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.apply(records)
}

// SetNameFilter updates the name filter and resynthesizes.
func (o *Orchestrator) SetNameFilter(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nameFilter = name
	return o.apply(o.records)
}

// SetStateFilter updates the state filter and resynthesizes.
func (o *Orchestrator) SetStateFilter(state string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stateFilter = state
	return o.apply(o.records)
}

// SetFilters updates both filters in one synthesis pass.
func (o *Orchestrator) SetFilters(name, state string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nameFilter = name
	o.stateFilter = state
	return o.apply(o.records)
}

// apply runs one synthesis pass and publishes the result atomically.
// Callers must hold o.mu.
func (o *Orchestrator) apply(records []vsi.Record) error {
	start := time.Now()

	filtered := vsi.Filter(records, o.nameFilter, o.stateFilter)
	g, err := topo.Synthesize(filtered)
	if err != nil {
		return err
	}

	o.records = records
	o.published = g

	o.logger.Debug("synthesis pass",
		"records", len(records),
		"filtered", len(filtered),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"skipped", len(g.Diagnostics),
		"took", time.Since(start).Round(time.Microsecond))
	for _, d := range g.Diagnostics {
		o.logger.Warn("skipped peer link", "record", d.RecordID, "link", d.LinkID, "reason", d.Message)
	}
	return nil
}

// BeginRefresh issues a new refresh token. Tokens are ordered; completing
// an old token after a newer one has been issued is a no-op.
func (o *Orchestrator) BeginRefresh() Refresh {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issuedSeq++
	return Refresh{Seq: o.issuedSeq, ID: uuid.NewString()}
}

// CompleteRefresh applies the outcome of a fetch issued via [Orchestrator.BeginRefresh].
// It reports whether the result was applied.
//
// A completion is discarded when a newer refresh has been issued since,
// even if that newer refresh has not completed yet - last-issued-wins. A
// failed refresh records the error state but retains the last-known-good
// graph.
func (o *Orchestrator) CompleteRefresh(r Refresh, records []vsi.Record, fetchErr error) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if r.Seq < o.issuedSeq || r.Seq <= o.appliedSeq {
		o.logger.Debug("dropping superseded refresh", "refresh", r.ID, "seq", r.Seq, "issued", o.issuedSeq)
		return false, nil
	}

	o.appliedSeq = r.Seq
	if fetchErr != nil {
		o.fetchErr = fetchErr
		o.logger.Error("refresh failed, keeping last-known-good graph", "refresh", r.ID, "err", fetchErr)
		return false, nil
	}

	if err := o.apply(records); err != nil {
		o.fetchErr = err
		return false, err
	}
	o.fetchErr = nil
	o.logger.Info("dataset replaced", "refresh", r.ID, "records", len(records))
	return true, nil
}

// Refresh fetches from the source and applies the result, honoring
// last-issued-wins if other refreshes were issued concurrently.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	if o.src == nil {
		return nil
	}

	r := o.BeginRefresh()
	o.logger.Debug("refresh issued", "refresh", r.ID, "source", o.src.Name())

	records, err := o.src.Fetch(ctx)
	if _, applyErr := o.CompleteRefresh(r, records, err); applyErr != nil {
		return applyErr
	}
	return err
}
