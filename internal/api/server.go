// Package api implements the vsimap HTTP API.
//
// The API is a thin layer over the recompute orchestrator: filter
// parameters on /api/graph update the orchestrator's filter state and
// return the freshly published graph, and /api/refresh triggers an upstream
// fetch. The visualization frontend is the only intended consumer, so CORS
// is permissive.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/mfriedel/vsimap/pkg/errors"
	"github.com/mfriedel/vsimap/pkg/pipeline"
)

// Server serves the vsimap HTTP API.
type Server struct {
	orch   *pipeline.Orchestrator
	logger *log.Logger
	router chi.Router
}

// New creates a server around the given orchestrator.
func New(orch *pipeline.Orchestrator, logger *log.Logger) *Server {
	s := &Server{
		orch:   orch,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/records", s.handleRecords)
		r.Post("/refresh", s.handleRefresh)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// cors allows the separately served visualization frontend to call the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// graphResponse pairs the published graph with the orchestrator's error
// state so the frontend can show "stale data" after a failed refresh
// without losing the last-known-good topology.
type graphResponse struct {
	Nodes       any    `json:"nodes"`
	Edges       any    `json:"edges"`
	Diagnostics any    `json:"diagnostics,omitempty"`
	FetchError  string `json:"fetch_error,omitempty"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	state := r.URL.Query().Get("state")

	if err := s.orch.SetFilters(name, state); err != nil {
		writeError(w, err)
		return
	}

	g := s.orch.Graph()
	resp := graphResponse{
		Nodes:       g.Nodes,
		Edges:       g.Edges,
		Diagnostics: g.Diagnostics,
	}
	if err := s.orch.LastError(); err != nil {
		resp.FetchError = apperrors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Records())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.Refresh(r.Context()); err != nil {
		// The last-known-good graph stays published; report the failure.
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": len(s.orch.Records()),
	})
}

// errorEnvelope is the JSON error shape shared by all endpoints.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidRecord, apperrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeFetchFailed, apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorEnvelope{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the API server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
