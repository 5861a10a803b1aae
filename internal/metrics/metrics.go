package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RunsTotal counts finished analysis runs by outcome (success, empty, error, cancelled).
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordcards",
		Subsystem: "batch",
		Name:      "runs_total",
		Help:      "Total number of analysis runs, labeled by outcome.",
	}, []string{"outcome"})

	// ImagesTotal counts processed images by result (ok, no_content, failed).
	ImagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordcards",
		Subsystem: "batch",
		Name:      "images_total",
		Help:      "Total number of images sent through the pipeline, labeled by result.",
	}, []string{"result"})

	WordsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wordcards",
		Subsystem: "batch",
		Name:      "words_accepted_total",
		Help:      "Total number of unique word entries accepted into run results.",
	})

	// InferenceDurationSeconds is the time spent in one provider call.
	InferenceDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wordcards",
		Subsystem: "inference",
		Name:      "duration_seconds",
		Help:      "Time spent waiting for the inference service, per image.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"provider"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			ImagesTotal,
			WordsAccepted,
			InferenceDurationSeconds,
		)
	})
}
