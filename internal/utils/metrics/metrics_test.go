package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMetrics creates metrics on a private registry.
func createTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry("test", reg, reg)
}

func TestRecordHTTPRequest(t *testing.T) {
	m := createTestMetrics()

	m.RecordHTTPRequest("POST", "/api/image-to-code/convert", 200, 150*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/image-to-code/convert", 201, 50*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/image-to-code/convert", 413, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/image-to-code/convert", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/image-to-code/convert", "4xx")))
}

func TestRecordAI(t *testing.T) {
	m := createTestMetrics()

	m.RecordAIRequest("openai", "gpt-4o", "success", time.Second)
	m.RecordAITokens("openai", "gpt-4o", 100, 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AIRequestsTotal.WithLabelValues("openai", "gpt-4o", "success")))
	assert.Equal(t, float64(100), testutil.ToFloat64(m.AITokensTotal.WithLabelValues("openai", "gpt-4o", "input")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.AITokensTotal))

	m.SetBreakerState("openai", 2)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AIBreakerState.WithLabelValues("openai")))
}

func TestRecordNormalize(t *testing.T) {
	m := createTestMetrics()

	m.RecordNormalize("ok", 1000, 400, 10*time.Millisecond)
	m.RecordNormalize("PayloadTooLarge", 0, 0, time.Microsecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ImageNormalizeTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1000), testutil.ToFloat64(m.ImageBytesTotal.WithLabelValues("in")))
	assert.Equal(t, float64(400), testutil.ToFloat64(m.ImageBytesTotal.WithLabelValues("out")))
}

func TestCacheAndExport(t *testing.T) {
	m := createTestMetrics()

	m.RecordCacheHit("codegen")
	m.RecordCacheMiss("codegen")
	m.RecordCacheMiss("codegen")
	m.RecordExport("react", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("codegen")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("codegen")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportArchivesTotal.WithLabelValues("react", "false")))
}

func TestHandler(t *testing.T) {
	m := createTestMetrics()
	m.RecordCacheHit("codegen")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_cache_hits_total{cache="codegen"} 1`)
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{302, "3xx"},
		{422, "4xx"},
		{502, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCodeToString(tt.code))
		})
	}
}
