package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lipi_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lipi_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route", "method"})

	WorkersBusy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lipi_http_workers_busy",
		Help: "Conversions currently holding a server worker slot",
	})
)

// Conversion metrics.
var (
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lipi_conversions_total",
		Help: "Completed conversions by source and target script",
	}, []string{"source", "target"})

	ConvertedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lipi_converted_bytes_total",
		Help: "Input bytes converted by source script",
	}, []string{"source"})

	LossyUnitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lipi_lossy_units_total",
		Help: "Units lost or passed through during conversion, by kind (dropped, unknown)",
	}, []string{"source", "target", "kind"})
)

// ObserveConversion records one finished conversion.
func ObserveConversion(source, target string, inputBytes, dropped, unknown int) {
	ConversionsTotal.WithLabelValues(source, target).Inc()
	ConvertedBytes.WithLabelValues(source).Add(float64(inputBytes))
	if dropped > 0 {
		LossyUnitsTotal.WithLabelValues(source, target, "dropped").Add(float64(dropped))
	}
	if unknown > 0 {
		LossyUnitsTotal.WithLabelValues(source, target, "unknown").Add(float64(unknown))
	}
}
