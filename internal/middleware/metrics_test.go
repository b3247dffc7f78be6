package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-feed-api/internal/metrics"
)

func newMetricsRouter(t *testing.T) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), nil)
	r := gin.New()
	r.Use(Metrics(m))
	return r, m
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	metric := &dto.Metric{}
	require.NoError(t, counter.Write(metric))
	return metric.Counter.GetValue()
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	r, m := newMetricsRouter(t)
	r.GET("/api/feed/posts/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/feed/posts/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The route pattern is recorded, not the concrete path, and the
	// status is bucketed by class
	got := counterValue(t, m.HTTPRequestsTotal, "GET", "/api/feed/posts/:id", "2xx")
	assert.Equal(t, float64(1), got)

	r.ServeHTTP(httptest.NewRecorder(), req)
	got = counterValue(t, m.HTTPRequestsTotal, "GET", "/api/feed/posts/:id", "2xx")
	assert.Equal(t, float64(2), got)
}

func TestMetricsMiddleware_RecordsErrorStatus(t *testing.T) {
	r, m := newMetricsRouter(t)
	r.GET("/api/feed/posts", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/feed/posts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := counterValue(t, m.HTTPRequestsTotal, "GET", "/api/feed/posts", "5xx")
	assert.Equal(t, float64(1), got)
}

func TestMetricsMiddleware_SkipsObservabilityEndpoints(t *testing.T) {
	r, m := newMetricsRouter(t)
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/metrics", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		got := counterValue(t, m.HTTPRequestsTotal, "GET", path, "2xx")
		assert.Zero(t, got, "%s should not be measured", path)
	}
}
