package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stepwise/pkg/algo/dp"
	"github.com/matzehuels/stepwise/pkg/algo/kmeans"
	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	mgr := session.NewManager(session.NewMemoryStore(), session.WithLogger(logger))
	srv := New(mgr, nil, WithLogger(logger), WithCleanupInterval(0))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[struct {
		Status string `json:"status"`
		Build  struct {
			Version string `json:"version"`
		} `json:"build"`
	}](t, resp)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("healthz body = %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/healthz", nil)

	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "stepwise_http_requests_total") {
		t.Error("metrics output should include stepwise_http_requests_total")
	}
}

func TestAlgorithms(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/algorithms", nil)
	infos := decode[[]demo.Info](t, resp)
	if len(infos) != len(demo.Names()) {
		t.Fatalf("got %d algorithms, want %d", len(infos), len(demo.Names()))
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1/sessions"

	resp := do(t, http.MethodPost, api, map[string]any{
		"algorithm": demo.NameBuildHeap,
		"input":     []int{4, 10, 3, 5, 1},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	v := decode[session.View](t, resp)
	id := v.Session.ID
	if resp.Header.Get("Location") != "/api/v1/sessions/"+id {
		t.Errorf("Location = %q", resp.Header.Get("Location"))
	}

	for range 2 {
		resp = do(t, http.MethodPost, api+"/"+id+"/next", nil)
		v = decode[session.View](t, resp)
	}
	if !v.Frame.Done {
		t.Error("build-heap on 5 values should be done after 2 steps")
	}
	want := []int{10, 5, 3, 4, 1}
	for i := range want {
		if v.Frame.Values[i] != want[i] {
			t.Fatalf("values = %v, want %v", v.Frame.Values, want)
		}
	}

	resp = do(t, http.MethodPost, api+"/"+id+"/prev", nil)
	v = decode[session.View](t, resp)
	if v.Session.Depth != 1 {
		t.Errorf("depth after prev = %d, want 1", v.Session.Depth)
	}

	resp = do(t, http.MethodPost, api+"/"+id+"/reset", nil)
	v = decode[session.View](t, resp)
	if v.Session.Depth != 0 || v.Frame.Values[0] != 4 {
		t.Errorf("reset: depth %d values %v", v.Session.Depth, v.Frame.Values)
	}

	resp = do(t, http.MethodGet, api+"/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, api+"/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, api+"/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateSessionUsesSample(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{"algorithm": demo.NamePartition})
	v := decode[session.View](t, resp)
	info, _ := demo.Lookup(demo.NamePartition)
	if len(v.Frame.Values) != len(info.Sample) {
		t.Errorf("values = %v, want sample %v", v.Frame.Values, info.Sample)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	api := ts.URL + "/api/v1"

	tests := []struct {
		name   string
		method string
		url    string
		body   any
		status int
		code   errors.Code
	}{
		{"unknown algorithm", http.MethodPost, api + "/sessions", map[string]any{"algorithm": "bogosort"}, 404, errors.ErrCodeUnknownAlgorithm},
		{"unknown field", http.MethodPost, api + "/sessions", map[string]any{"algo": "quicksort"}, 400, errors.ErrCodeInvalidInput},
		{"bad id", http.MethodGet, api + "/sessions/not-a-uuid", nil, 404, errors.ErrCodeSessionNotFound},
		{"missing session", http.MethodPost, api + "/sessions/6f1c1b9e-8d1e-4c57-9f0e-3c1d2a4b5c6d/next", nil, 404, errors.ErrCodeSessionNotFound},
		{"empty kmeans", http.MethodPost, api + "/kmeans", map[string]any{}, 400, errors.ErrCodeInvalidInput},
		{"negative tolerance", http.MethodPost, api + "/kmeans",
			map[string]any{"random": map[string]int{"count": 100, "dimension": 1}, "tolerance": -1}, 400, errors.ErrCodeInvalidInput},
		{"too many iterations", http.MethodPost, api + "/kmeans",
			map[string]any{"random": map[string]int{"count": 100, "dimension": 1}, "max_iterations": maxKMeansIterations + 1}, 400, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, tt.url, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			e := decode[errorResponse](t, resp)
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if e.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/sessions", map[string]any{
		"algorithm": demo.NameQuicksort,
		"input":     []int{3, 1, 2},
	})
	v := decode[session.View](t, resp)
	url := ts.URL + "/api/v1/sessions/" + v.Session.ID + "/render"

	resp = do(t, http.MethodGet, url+"?format=svg", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != render.ContentType(render.FormatSVG) {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("<svg")) {
		t.Errorf("body should start with <svg, got %.40q", body)
	}

	resp = do(t, http.MethodGet, url+"?format=json", nil)
	scene := decode[render.Scene](t, resp)
	if scene.Algorithm != demo.NameQuicksort || len(scene.Labels) != 3 {
		t.Errorf("scene = %+v", scene)
	}

	resp = do(t, http.MethodGet, url+"?format=gif", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, url+"?view=spiral", nil)
	if e := decode[errorResponse](t, resp); e.Code != errors.ErrCodeInvalidView {
		t.Errorf("code = %q, want INVALID_VIEW", e.Code)
	}
}

func TestEditDistance(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/edit-distance?table=true", editDistanceRequest{
		Source: "thou shalt not",
		Target: "you should not",
	})
	got := decode[editDistanceResponse](t, resp)
	if got.Distance != 5 {
		t.Errorf("distance = %d, want 5", got.Distance)
	}
	var target strings.Builder
	changes := 0
	for _, op := range got.Ops {
		target.WriteString(op.To)
		if op.Op != dp.Match {
			changes++
		}
	}
	if target.String() != "you should not" {
		t.Errorf("ops rebuild %q", target.String())
	}
	if changes != got.Distance {
		t.Errorf("ops cost %d, want %d", changes, got.Distance)
	}
	if len(got.Table) != len("thou shalt not")+1 {
		t.Errorf("table has %d rows", len(got.Table))
	}
}

func TestKMeans(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/kmeans", kmeans.Config{
		Points:    [][]float64{{1, 1}, {1.5, 2}, {3, 4}, {5, 7}, {3.5, 5}, {4.5, 5}, {3.5, 4.5}},
		Centroids: [][]float64{{1, 1}, {5, 7}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	res := decode[kmeans.Result](t, resp)
	if !res.Converged || res.Iterations != 3 {
		t.Errorf("converged=%v iterations=%d", res.Converged, res.Iterations)
	}
}
