// Package observability exposes Prometheus collectors for the workout map.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "log",
		Name:      "workouts_logged_total",
		Help:      "Number of workouts appended to the log, labeled by kind.",
	}, []string{"kind"})

	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "log",
		Name:      "validation_failures_total",
		Help:      "Number of form submissions rejected by input validation.",
	})

	persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "persistence",
		Name:      "save_failures_total",
		Help:      "Number of failed writes of the workout log to the store.",
	})

	logPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "persistence",
		Name:      "last_log_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout log write.",
	})

	mapPans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "map",
		Name:      "pans_total",
		Help:      "Number of times the map was panned to a listed workout.",
	})

	positionResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "map",
		Name:      "position_results_total",
		Help:      "Outcomes of position lookups, labeled by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(workoutsLogged, validationFailures, persistFailures, logPersistGauge, mapPans, positionResults)
}

// RecordWorkoutLogged counts an appended workout.
func RecordWorkoutLogged(kind string) {
	workoutsLogged.WithLabelValues(kind).Inc()
}

// RecordValidationFailure counts a rejected submission.
func RecordValidationFailure() {
	validationFailures.Inc()
}

// RecordPersistFailure counts a failed log write.
func RecordPersistFailure() {
	persistFailures.Inc()
}

// RecordLogPersisted updates the persistence watermark gauge.
func RecordLogPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	logPersistGauge.Set(float64(ts.Unix()))
}

// RecordMapPan counts a pan triggered from the list.
func RecordMapPan() {
	mapPans.Inc()
}

// RecordPosition counts a position lookup outcome.
func RecordPosition(ok bool) {
	result := "resolved"
	if !ok {
		result = "failed"
	}
	positionResults.WithLabelValues(result).Inc()
}
