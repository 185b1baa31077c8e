package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("survival")
	b := NewCollector("survival")

	a.ObserveRender("figure1", "ok", 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FigureRenders.WithLabelValues("figure1", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FigureRenders.WithLabelValues("figure1", "ok")))
}

func TestObserveRequest(t *testing.T) {
	c := NewCollector("survival")
	c.ObserveRequest(http.MethodGet, "/figure/{figureType}", http.StatusOK, 5*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/figure/{figureType}", http.StatusOK, 7*time.Millisecond)
	c.ObserveRequest(http.MethodGet, "/figure/{figureType}", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/figure/{figureType}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/figure/{figureType}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.HTTPDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("survival")
	c.ObserveRender("figure7", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `survival_figure_renders_total{figure="figure7",outcome="ok"} 1`)
	assert.Contains(t, string(body), "survival_figure_render_duration_seconds_bucket")
}
