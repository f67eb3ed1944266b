package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/internal/config"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/metrics"
	"github.com/katalvlaran/streetroute/internal/service"
)

const squareGraph = `{"edges":[
	{"from":"A","to":"B","weight":1},
	{"from":"B","to":"C","weight":1},
	{"from":"C","to":"D","weight":1},
	{"from":"D","to":"A","weight":1},
	{"from":"A","to":"C","weight":1.4}]}`

type fakeRuns struct {
	runs    map[string]*history.Run
	listed  history.ListOptions
	pingErr error
}

func (f *fakeRuns) Get(_ context.Context, id string) (*history.Run, error) {
	if r, ok := f.runs[id]; ok {
		return r, nil
	}

	return nil, history.ErrRunNotFound
}

func (f *fakeRuns) List(_ context.Context, opts history.ListOptions) ([]*history.Run, int64, error) {
	f.listed = opts
	out := make([]*history.Run, 0, len(f.runs))
	for _, r := range f.runs {
		out = append(out, r)
	}

	return out, int64(len(out)), nil
}

func (f *fakeRuns) Ping(context.Context) error { return f.pingErr }

func newTestServer(t *testing.T, opts ...Option) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", prometheus.NewRegistry())
	svc := service.New(nil, service.WithMetrics(m))
	cfg := config.HTTPConfig{MaxBodyBytes: 1 << 20}

	return New(cfg, svc, append([]Option{WithMetrics(m, "/metrics")}, opts...)...), m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)

	return body.Error
}

func TestHealthAndSolvers(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/solvers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Solvers []struct {
			Mode string `json:"mode"`
		} `json:"solvers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Solvers, 2)
	assert.Equal(t, "edge_coverage", body.Solvers[0].Mode)
	assert.Equal(t, "node_visit", body.Solvers[1].Mode)
}

func TestEdgeCoverage(t *testing.T) {
	s, m := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/routes/edge-coverage", `{"graph":`+squareGraph+`,"start":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "edge_coverage", resp.Mode)
	assert.InDelta(t, 6.8, resp.Weight, 1e-9)
	assert.Equal(t, "A", resp.Route[0])
	assert.Equal(t, "A", resp.Route[len(resp.Route)-1])
	assert.Len(t, resp.Edges, 6)
	require.Len(t, resp.Duplications, 1)
	assert.InDelta(t, 1.4, resp.Duplications[0].Weight, 1e-9)
	assert.Nil(t, resp.Tour)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("/v1/routes/edge-coverage", "200")))
}

func TestNodeVisitUsesDocumentDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"graph":{"start":"A","visit":["C"],"edges":[
		{"from":"A","to":"B","weight":1},{"from":"B","to":"C","weight":1},
		{"from":"C","to":"D","weight":1},{"from":"D","to":"A","weight":1}]},"expand":true}`

	rec := do(t, s.Handler(), http.MethodPost, "/v1/routes/node-visit", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "C", "A"}, resp.Route)
	assert.Equal(t, 4.0, resp.Weight)
	require.NotNil(t, resp.Tour)
	assert.Equal(t, "christofides", resp.Tour.Algorithm)
	require.NotNil(t, resp.Expanded)
	assert.Len(t, resp.Expanded.Route, 5)
	assert.Equal(t, []int{0, 2, 4}, resp.Expanded.Waypoints)
}

func TestSolveErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
		field  string
	}{
		{
			name:   "malformed json",
			path:   "/v1/routes/edge-coverage",
			body:   `{"graph":`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "unknown field",
			path:   "/v1/routes/edge-coverage",
			body:   `{"graph":` + squareGraph + `,"start":"A","colour":"red"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "missing graph",
			path:   "/v1/routes/node-visit",
			body:   `{"start":"A"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
			field:  "graph",
		},
		{
			name:   "missing start",
			path:   "/v1/routes/edge-coverage",
			body:   `{"graph":` + squareGraph + `}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
			field:  "start",
		},
		{
			name:   "edge without weight or coordinates",
			path:   "/v1/routes/edge-coverage",
			body:   `{"graph":{"edges":[{"from":"A","to":"B"}]},"start":"A"}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
			field:  "graph",
		},
		{
			name:   "negative weight",
			path:   "/v1/routes/edge-coverage",
			body:   `{"graph":{"edges":[{"from":"A","to":"B","weight":-1}]},"start":"A"}`,
			status: http.StatusBadRequest,
			code:   "NEGATIVE_WEIGHT",
		},
		{
			name:   "bad option",
			path:   "/v1/routes/node-visit",
			body:   `{"graph":` + squareGraph + `,"start":"A","options":{"tour":"genetic"}}`,
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
			field:  "options.tour",
		},
		{
			name:   "stop in another component",
			path:   "/v1/routes/node-visit",
			body:   `{"graph":{"edges":[{"from":"A","to":"B","weight":1},{"from":"C","to":"D","weight":1}]},"start":"A","nodes":["D"]}`,
			status: http.StatusUnprocessableEntity,
			code:   "DISCONNECTED_NODE_SET",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			e := decodeError(t, rec)
			assert.Equal(t, tt.code, e["code"])
			if tt.field != "" {
				assert.Equal(t, tt.field, e["field"])
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())
	s := New(config.HTTPConfig{MaxBodyBytes: 32}, service.New(nil), WithMetrics(m, ""))

	rec := do(t, s.Handler(), http.MethodPost, "/v1/routes/edge-coverage", `{"graph":`+squareGraph+`,"start":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec)["message"], "exceeds 32 bytes")
}

func TestExpand(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/routes/expand", `{"graph":`+squareGraph+`,"stops":["B","D"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var x ExpansionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &x))
	assert.Equal(t, 2.0, x.Weight)
	assert.Equal(t, "B", x.Route[0])
	assert.Equal(t, "D", x.Route[len(x.Route)-1])
	assert.Equal(t, []int{0, 2}, x.Waypoints)

	rec = do(t, h, http.MethodPost, "/v1/routes/expand", `{"graph":`+squareGraph+`,"stops":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "stops", decodeError(t, rec)["field"])

	rec = do(t, h, http.MethodPost, "/v1/routes/expand", `{"graph":`+squareGraph+`,"stops":["A","Q"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/routes/expand", `{"graph":`+squareGraph+`,"stops":["A"],"traversal":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuns(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s, _ := newTestServer(t)
		rec := do(t, s.Handler(), http.MethodGet, "/v1/runs", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	store := &fakeRuns{runs: map[string]*history.Run{
		"r1": {ID: "r1", Mode: "edge_coverage", Status: history.StatusSucceeded, Weight: 4},
	}}
	s, _ := newTestServer(t, WithRuns(store))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/v1/runs?mode=cpp&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, history.ListOptions{Mode: "edge_coverage", Limit: 5, Offset: 10}, store.listed)
	var list RunList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "r1", list.Runs[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/runs?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/v1/runs?mode=walk", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/runs/r1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"succeeded"`)

	rec = do(t, h, http.MethodGet, "/v1/runs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec)["code"])
}

func TestReady(t *testing.T) {
	store := &fakeRuns{pingErr: errors.New("connection refused")}
	s, _ := newTestServer(t, WithRuns(store))

	rec := do(t, s.Handler(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	store.pingErr = nil
	rec = do(t, s.Handler(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodGet, "/healthz", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{route="/healthz",status="200"} 1`)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.ShutdownTimeout = time.Second
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
