package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/internal/apperror"
	"github.com/katalvlaran/streetroute/internal/graphio"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/logger"
	"github.com/katalvlaran/streetroute/internal/service"
	"github.com/katalvlaran/streetroute/router"
)

type errorResponse struct {
	Error *apperror.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("response not written", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperror.FromDomain(err)
	if ae.HTTPStatus() >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request error", "code", ae.Code, "error", err)
	}
	writeJSON(w, ae.HTTPStatus(), errorResponse{Error: ae})
}

// decode reads a JSON body, rejecting unknown fields and oversized bodies.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.Wrap(err, apperror.CodeInvalidInput,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}

		return apperror.Wrap(err, apperror.CodeInvalidInput, "malformed request body: "+err.Error())
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.runs != nil {
		if err := s.runs.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "error": err.Error()})

			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func (s *Server) handleSolvers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"solvers": router.DescribeAll()})
}

func (s *Server) handleEdgeCoverage(w http.ResponseWriter, r *http.Request) {
	s.solve(w, r, router.ModeEdgeCoverage)
}

func (s *Server) handleNodeVisit(w http.ResponseWriter, r *http.Request) {
	s.solve(w, r, router.ModeNodeVisit)
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request, mode router.Mode) {
	var req SolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)

		return
	}
	g, err := buildGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)

		return
	}
	start := req.Start
	if start == "" {
		start = req.Graph.Start
	}
	if start == "" {
		writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "start", "start node is required"))

		return
	}
	nodes := req.Nodes
	if len(nodes) == 0 {
		nodes = req.Graph.Visit
	}

	out, err := s.svc.Solve(r.Context(), service.Request{
		Mode:   mode,
		Graph:  g,
		Start:  start,
		Nodes:  nodes,
		Params: req.Options,
		Expand: req.Expand,
	})
	if err != nil {
		writeError(w, r, err)

		return
	}
	w.Header().Set("X-Run-ID", out.RunID)
	writeJSON(w, http.StatusOK, NewRouteResponse(out))
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)

		return
	}
	g, err := buildGraph(req.Graph)
	if err != nil {
		writeError(w, r, err)

		return
	}
	if len(req.Stops) == 0 {
		writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "stops", "at least one stop is required"))

		return
	}
	t, err := core.ParseTraversal(req.Traversal)
	if err != nil {
		writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "traversal", err.Error()))

		return
	}

	x, err := s.svc.ExpandStops(r.Context(), service.ExpandRequest{Graph: g, Stops: req.Stops, Traversal: t})
	if err != nil {
		writeError(w, r, err)

		return
	}
	writeJSON(w, http.StatusOK, NewExpansionView(x))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, r, apperror.New(apperror.CodeNotFound, "run history is disabled"))

		return
	}
	q := r.URL.Query()
	opts := history.ListOptions{Mode: q.Get("mode")}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "limit", err.Error()))

		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "offset", err.Error()))

		return
	}
	if opts.Mode != "" {
		m, perr := router.ParseMode(opts.Mode)
		if perr != nil {
			writeError(w, r, apperror.NewWithField(apperror.CodeInvalidInput, "mode", perr.Error()))

			return
		}
		opts.Mode = m.String()
	}

	runs, total, err := s.runs.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)

		return
	}
	if runs == nil {
		runs = []*history.Run{}
	}
	writeJSON(w, http.StatusOK, RunList{Runs: runs, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, r, apperror.New(apperror.CodeNotFound, "run history is disabled"))

		return
	}
	id := chi.URLParam(r, "id")
	run, err := s.runs.Get(r.Context(), id)
	if errors.Is(err, history.ErrRunNotFound) {
		writeError(w, r, apperror.Wrap(err, apperror.CodeNotFound, fmt.Sprintf("run %q not found", id)))

		return
	}
	if err != nil {
		writeError(w, r, err)

		return
	}
	writeJSON(w, http.StatusOK, run)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a non-negative integer, got %q", s)
	}

	return n, nil
}

func buildGraph(doc *graphio.Document) (*core.Graph, error) {
	if doc == nil {
		return nil, apperror.NewWithField(apperror.CodeInvalidInput, "graph", "graph is required")
	}
	g, err := doc.Build()
	if err != nil {
		e := apperror.NewWithField(apperror.CodeInvalidInput, "graph", err.Error())
		e.Cause = err

		return nil, e
	}

	return g, nil
}
