package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Метрики регистрируются в глобальном реестре, поэтому экземпляр один на пакет
var testMetrics = New(zap.NewNop())

func TestMetrics_RecordProcessing(t *testing.T) {
	testMetrics.RecordProcessing("excited", "high", "model", 0.92, 0.015)
	testMetrics.RecordProcessing("neutral", "low", "basic", 0.3, 0.002)
	testMetrics.RecordProcessing("neutral", "low", "default", 0, 0.001)

	body := scrapeMetrics(t)

	assert.Contains(t, body, `emotion_requests_total{label="excited",tier="high"} 1`)
	assert.Contains(t, body, `classifier_fallbacks_total{source="basic"} 1`)
	assert.Contains(t, body, `classifier_fallbacks_total{source="default"} 1`)
	assert.Contains(t, body, "last_classification_confidence 0")
}

func TestMetrics_RecordClamp(t *testing.T) {
	testMetrics.RecordClamp("volume")
	testMetrics.RecordClamp("volume")
	testMetrics.RecordClamp("rate")

	body := scrapeMetrics(t)

	assert.Contains(t, body, `clamp_events_total{parameter="volume"} 2`)
	assert.Contains(t, body, `clamp_events_total{parameter="rate"} 1`)
}

func TestMetrics_RecordSynthesis(t *testing.T) {
	testMetrics.RecordSynthesis("festival", true, 1.2)
	testMetrics.RecordSynthesis("elevenlabs", false, 0.4)

	body := scrapeMetrics(t)

	assert.Contains(t, body, `synthesis_requests_total{engine="festival",status="success"} 1`)
	assert.Contains(t, body, `synthesis_requests_total{engine="elevenlabs",status="failed"} 1`)
}

func TestMetrics_UnknownNames(t *testing.T) {
	// Неизвестные имена логируются и не приводят к панике
	testMetrics.IncrementCounter("no_such_metric")
	testMetrics.SetGauge("no_such_gauge", 1)
	testMetrics.ObserveHistogram("no_such_histogram", 1)
}

func TestHealthHandler(t *testing.T) {
	handler := NewHandler(testMetrics, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

// scrapeMetrics снимает текущее состояние метрик через HTTP handler
func scrapeMetrics(t *testing.T) string {
	t.Helper()

	rec := httptest.NewRecorder()
	testMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	return rec.Body.String()
}
