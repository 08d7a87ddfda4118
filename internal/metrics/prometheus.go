// Package metrics exposes the Prometheus collectors of the harness and the
// benchmark reporter, and runtime memory snapshots.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Spawn outcomes recorded by ObserveSpawn.
const (
	SpawnOK        = "ok"
	SpawnRetry     = "retry"
	SpawnExhausted = "exhausted"
)

// Item statuses recorded by ObserveItem.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	itemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fermatbench_items_total",
			Help: "The total number of work items processed by the harness",
		},
		[]string{"model", "variant", "status"},
	)
	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fermatbench_run_duration_seconds",
			Help:    "Wall-clock duration of harness runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		},
		[]string{"model", "variant"},
	)
	workerSpawns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fermatbench_worker_spawns_total",
			Help: "Isolated worker start attempts by outcome",
		},
		[]string{"result"},
	)
	bestSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fermatbench_config_best_seconds",
			Help: "Best-of-k elapsed time per benchmark configuration",
		},
		[]string{"config"},
	)
)

// ObserveItem counts one processed item.
func ObserveItem(model, variant string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	itemsTotal.WithLabelValues(model, variant, status).Inc()
}

// ObserveRun records the elapsed time of one harness run.
func ObserveRun(model, variant string, elapsed time.Duration) {
	runDuration.WithLabelValues(model, variant).Observe(elapsed.Seconds())
}

// ObserveSpawn counts one worker start attempt.
func ObserveSpawn(result string) {
	workerSpawns.WithLabelValues(result).Inc()
}

// ObserveBest publishes the best time of a benchmark configuration.
func ObserveBest(label string, best time.Duration) {
	bestSeconds.WithLabelValues(label).Set(best.Seconds())
}

// WriteTextfile writes every registered metric to path in the text format
// read by the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
