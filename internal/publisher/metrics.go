package publisher

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "publisher",
		Name:      "events_published_total",
		Help:      "Number of workout events written to Kafka, labeled by event type.",
	}, []string{"event_type"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "publisher",
		Name:      "events_failed_total",
		Help:      "Number of workout events that could not be written to Kafka.",
	}, []string{"event_type"})

	publishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workoutmap",
		Subsystem: "publisher",
		Name:      "publish_duration_seconds",
		Help:      "Time spent writing a workout event to Kafka.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, failedCounter, publishDuration)
}
