package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"survival-dashboard/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFigures returns a fixed payload for the ids it knows.
type fakeFigures struct {
	mu       sync.Mutex
	payloads map[string]string
	calls    []string
}

func (f *fakeFigures) RenderID(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	p, ok := f.payloads[id]
	return p, ok
}

func newTestServer(t *testing.T, figures Figures, cfg Config) (*Server, *metrics.Collector) {
	t.Helper()
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
		cfg.RateBurst = 1000
	}
	collector := metrics.NewCollector("survival")
	srv, err := New(cfg, figures, collector)
	require.NoError(t, err)
	return srv, collector
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec, string(body)
}

func TestIndexListsEveryFigure(t *testing.T) {
	srv, _ := newTestServer(t, &fakeFigures{}, Config{})

	rec, body := get(t, srv.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	for i := 1; i <= 7; i++ {
		assert.Contains(t, body, fmt.Sprintf(`href="/figure/figure%d"`, i))
	}
	assert.Contains(t, body, "Survival Probability by Passenger Class")
}

func TestFigurePageEmbedsImage(t *testing.T) {
	figures := &fakeFigures{payloads: map[string]string{"figure3": "iVBORw0KGgoAAAA/w=="}}
	srv, _ := newTestServer(t, figures, Config{})

	rec, body := get(t, srv.Handler(), "/figure/figure3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `src="data:image/png;base64,iVBORw0KGgoAAAA/w=="`)
	assert.Contains(t, body, "Survival Probability by Sex")
}

func TestFigurePageWithoutImage(t *testing.T) {
	srv, _ := newTestServer(t, &fakeFigures{}, Config{})

	rec, body := get(t, srv.Handler(), "/figure/figure6")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "No figure available")
}

func TestUnknownFigureIsNotRendered(t *testing.T) {
	figures := &fakeFigures{}
	srv, _ := newTestServer(t, figures, Config{})

	rec, body := get(t, srv.Handler(), "/figure/figure9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "figure9")
	assert.Empty(t, figures.calls)
}

func TestFigureIDIsEscaped(t *testing.T) {
	srv, _ := newTestServer(t, &fakeFigures{}, Config{})

	_, body := get(t, srv.Handler(), "/figure/%3Cscript%3E")
	assert.NotContains(t, body, "<script>")
}

func TestHealthAndMetrics(t *testing.T) {
	figures := &fakeFigures{payloads: map[string]string{"figure1": "AAAA"}}
	srv, collector := newTestServer(t, figures, Config{})
	h := srv.Handler()

	rec, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body)

	get(t, h, "/figure/figure1")
	get(t, h, "/figure/figure1")
	assert.Equal(t, 2.0, testutil.ToFloat64(
		collector.HTTPRequests.WithLabelValues(http.MethodGet, "/figure/{figureType}", "200")))

	rec, body = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "survival_http_requests_total")
}

func TestUnmatchedRoute(t *testing.T) {
	srv, _ := newTestServer(t, &fakeFigures{}, Config{})

	rec, _ := get(t, srv.Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, &fakeFigures{}, Config{RateLimit: 0.5, RateBurst: 2})
	h := srv.Handler()

	for i := 0; i < 2; i++ {
		rec, _ := get(t, h, "/")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := get(t, h, "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	// health checks are not limited
	rec, _ = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartAndGracefulShutdown(t *testing.T) {
	figures := &fakeFigures{payloads: map[string]string{"figure2": "AAAA"}}
	srv, _ := newTestServer(t, figures, Config{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))

	resp, err := http.Get("http://" + srv.Addr() + "/figure/figure2")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "base64,AAAA"))

	cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartFailsWhenPortTaken(t *testing.T) {
	first, _ := newTestServer(t, &fakeFigures{}, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, first.Start(ctx))

	second, _ := newTestServer(t, &fakeFigures{}, Config{Addr: first.Addr()})
	assert.Error(t, second.Start(ctx))
}
