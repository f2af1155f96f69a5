// Package metrics exposes dashboard activity as Prometheus series. A nil
// *Recorder is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/dyike/QuantFlow/internal/models"
)

type Recorder struct {
	registry *prometheus.Registry

	AdvisorRequests  *prometheus.CounterVec
	AlgorithmToggles *prometheus.CounterVec
	LogEntries       *prometheus.CounterVec
	ConfigUpdates    *prometheus.CounterVec

	ActiveAlgorithms prometheus.Gauge
	TotalProfit      prometheus.Gauge
	BrokerConnected  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		AdvisorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantflow_advisor_requests_total",
				Help: "Text-generation requests by kind and outcome (ok, fallback)",
			},
			[]string{"kind", "outcome"},
		),

		AlgorithmToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantflow_algorithm_toggles_total",
				Help: "Algorithm status toggles by result (applied, rejected)",
			},
			[]string{"result"},
		),

		LogEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantflow_log_entries_total",
				Help: "Entries appended to the activity feed by category",
			},
			[]string{"category"},
		),

		ConfigUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantflow_config_updates_total",
				Help: "Strategy config updates by field",
			},
			[]string{"field"},
		),

		ActiveAlgorithms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quantflow_active_algorithms",
			Help: "Number of algorithms in RUNNING state",
		}),

		TotalProfit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quantflow_total_profit",
			Help: "Sum of algorithm profit figures",
		}),

		BrokerConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quantflow_broker_connected",
			Help: "1 when the simulated broker session is CONNECTED",
		}),
	}

	r.registry.MustRegister(
		r.AdvisorRequests,
		r.AlgorithmToggles,
		r.LogEntries,
		r.ConfigUpdates,
		r.ActiveAlgorithms,
		r.TotalProfit,
		r.BrokerConnected,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) AdvisorRequest(kind string, fellBack bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if fellBack {
		outcome = "fallback"
	}
	r.AdvisorRequests.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) Toggle(applied bool) {
	if r == nil {
		return
	}
	result := "rejected"
	if applied {
		result = "applied"
	}
	r.AlgorithmToggles.WithLabelValues(result).Inc()
}

func (r *Recorder) LogEntry(e models.LogEntry) {
	if r == nil {
		return
	}
	r.LogEntries.WithLabelValues(e.Category.String()).Inc()
}

func (r *Recorder) ConfigUpdate(field string) {
	if r == nil {
		return
	}
	r.ConfigUpdates.WithLabelValues(field).Inc()
}

// Aggregates mirrors the derived dashboard values into gauges.
func (r *Recorder) Aggregates(active int, totalProfit decimal.Decimal, broker models.BrokerStatus) {
	if r == nil {
		return
	}
	r.ActiveAlgorithms.Set(float64(active))
	f, _ := totalProfit.Float64()
	r.TotalProfit.Set(f)
	if broker == models.BrokerConnected {
		r.BrokerConnected.Set(1)
	} else {
		r.BrokerConnected.Set(0)
	}
}
