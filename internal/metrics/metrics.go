// Package metrics exposes Prometheus instrumentation for lifecycle operations.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	tuxerrors "github.com/ksyq12/dottux/internal/errors"
)

var (
	// operationsTotal tracks add/remove/reconcile calls by outcome
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottux_operations_total",
			Help: "Total lifecycle operations by operation, backend and result",
		},
		[]string{"operation", "backend", "result"},
	)

	// reloadsTotal tracks reload outcomes by classification
	reloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottux_reloads_total",
			Help: "Total reload executions by classification",
		},
		[]string{"classification"},
	)

	// reloadDuration tracks how long the reload executable ran
	reloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dottux_reload_duration_seconds",
			Help:    "Reload executable run time",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// managedDomains tracks the size of the last listing per backend
	managedDomains = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dottux_managed_domains",
			Help: "Number of managed domains seen in the last listing",
		},
		[]string{"backend"},
	)

	// watcherEvents tracks artifacts-directory events seen by the watcher
	watcherEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dottux_watcher_events_total",
			Help: "Total artifacts-directory events by event type",
		},
		[]string{"event_type"},
	)
)

// ResultOf maps an operation error to a result label: "ok", an error code in
// lower case, or "error" for errors outside the taxonomy.
func ResultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code := tuxerrors.CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}

// RecordOperation increments the operation counter
func RecordOperation(operation, backend string, err error) {
	operationsTotal.WithLabelValues(operation, backend, ResultOf(err)).Inc()
}

// RecordReload records one reload outcome
func RecordReload(classification string, d time.Duration) {
	reloadsTotal.WithLabelValues(classification).Inc()
	reloadDuration.Observe(d.Seconds())
}

// SetManagedDomains records the size of a listing
func SetManagedDomains(backend string, n int) {
	managedDomains.WithLabelValues(backend).Set(float64(n))
}

// RecordWatchEvent increments the watcher event counter
func RecordWatchEvent(eventType string) {
	watcherEvents.WithLabelValues(eventType).Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
