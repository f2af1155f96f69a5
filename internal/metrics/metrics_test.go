package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/QuantFlow/internal/models"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.AdvisorRequest("market", true)
		r.Toggle(false)
		r.LogEntry(models.LogEntry{Category: models.LogInfo})
		r.ConfigUpdate("leverage")
		r.Aggregates(1, decimal.Zero, models.BrokerConnected)
	})
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.AdvisorRequest("market", false)
	r.AdvisorRequest("market", true)
	r.AdvisorRequest("market", true)
	r.Toggle(true)
	r.Toggle(false)
	r.LogEntry(models.LogEntry{Category: models.LogError})
	r.Aggregates(3, decimal.RequireFromString("38.2"), models.BrokerConnecting)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.AdvisorRequests.WithLabelValues("market", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.AdvisorRequests.WithLabelValues("market", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AlgorithmToggles.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LogEntries.WithLabelValues("ERROR")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.ActiveAlgorithms))
	assert.InDelta(t, 38.2, testutil.ToFloat64(r.TotalProfit), 1e-9)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.BrokerConnected))
}

func TestHandlerServesRegistry(t *testing.T) {
	r := NewRecorder()
	r.Toggle(true)

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `quantflow_algorithm_toggles_total{result="applied"} 1`)
}
