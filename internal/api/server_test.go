package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfriedel/vsimap/pkg/pipeline"
	"github.com/mfriedel/vsimap/pkg/topo"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

func testOrchestrator(t *testing.T) *pipeline.Orchestrator {
	t.Helper()
	o := pipeline.New(nil)
	err := o.SetData([]vsi.Record{
		{
			ID: "1", Name: "CORE-SW1", State: "up*",
			Peers: []vsi.PeerLink{{ID: "10", PeerAddress: "10.0.0.1", PWState: "up"}},
		},
		{
			ID: "2", Name: "EDGE-SW2", State: "down",
			Peers: []vsi.PeerLink{{ID: "11", PeerAddress: "10.0.0.1", PWState: "down"}},
		},
	})
	require.NoError(t, err)
	return o
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testOrchestrator(t), log.NewWithOptions(io.Discard, log.Options{}))
}

type graphBody struct {
	Nodes      []topo.Node `json:"nodes"`
	Edges      []topo.Edge `json:"edges"`
	FetchError string      `json:"fetch_error"`
}

func getGraph(t *testing.T, s *Server, query string) graphBody {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/graph"+query, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body graphBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGraphUnfiltered(t *testing.T) {
	body := getGraph(t, testServer(t), "")

	assert.Len(t, body.Nodes, 3)
	assert.Len(t, body.Edges, 2)
}

func TestGraphWithFilters(t *testing.T) {
	s := testServer(t)

	body := getGraph(t, s, "?name=core&state=up")
	require.Len(t, body.Nodes, 2)
	assert.Equal(t, "vsi-1", body.Nodes[0].ID)
	assert.Equal(t, "peer-10.0.0.1", body.Nodes[1].ID)
	require.Len(t, body.Edges, 1)
	assert.True(t, body.Edges[0].IsUp)

	// Filters are sticky on the orchestrator until changed.
	name, state := s.orch.Filters()
	assert.Equal(t, "core", name)
	assert.Equal(t, "up", state)
}

func TestGraphEmptyResult(t *testing.T) {
	body := getGraph(t, testServer(t), "?name=nonexistent")
	assert.Empty(t, body.Nodes)
	assert.Empty(t, body.Edges)
}

func TestRecords(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var records []vsi.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

type flakySource struct {
	records []vsi.Record
	err     error
}

func (s *flakySource) Fetch(ctx context.Context) ([]vsi.Record, error) { return s.records, s.err }
func (s *flakySource) Name() string                                    { return "flaky" }

func TestRefreshFailureKeepsGraph(t *testing.T) {
	src := &flakySource{err: errors.New("controller unreachable")}
	orch := pipeline.New(src)
	require.NoError(t, orch.SetData([]vsi.Record{{ID: "1", Name: "VSI-A", State: "up"}}))

	s := New(orch, log.NewWithOptions(io.Discard, log.Options{}))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The graph endpoint still serves the last-known-good data and carries
	// the error state.
	body := getGraph(t, s, "")
	assert.Len(t, body.Nodes, 1)
	assert.NotEmpty(t, body.FetchError)
}

func TestRefreshSuccess(t *testing.T) {
	src := &flakySource{records: []vsi.Record{{ID: "7", Name: "NEW", State: "up"}}}
	orch := pipeline.New(src)
	s := New(orch, log.NewWithOptions(io.Discard, log.Options{}))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := getGraph(t, s, "")
	require.Len(t, body.Nodes, 1)
	assert.Equal(t, "vsi-7", body.Nodes[0].ID)
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/graph", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
