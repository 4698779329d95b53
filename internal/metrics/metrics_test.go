package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServerExposesCounters(t *testing.T) {
	ExtractionsTotal.WithLabelValues(Present(true), Present(false)).Inc()

	srv := NewMetricsServer(":0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `improve_extractions_total{code="found",explanation="missing"}`)
}

func TestPresent(t *testing.T) {
	assert.Equal(t, "found", Present(true))
	assert.Equal(t, "missing", Present(false))
}

func TestCounterIncrements(t *testing.T) {
	c := LLMRequestsTotal.WithLabelValues("test", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
