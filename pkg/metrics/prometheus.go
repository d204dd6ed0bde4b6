package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SamplesGenerated prometheus.Counter
	SamplesIncorrect prometheus.Counter
	StatusOutcomes   *prometheus.CounterVec
	SampleTime       prometheus.Histogram
	DialogueTurns    prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SamplesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_generated_total",
			Help:      "The total number of generated samples",
		}),
		SamplesIncorrect: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_incorrect_total",
			Help:      "Simulated dialogues whose final action missed the expected one",
		}),
		StatusOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_outcomes_total",
			Help:      "Expected-action statuses of generated samples",
		}, []string{"status"}),
		SampleTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_generation_time_seconds",
			Help:      "Time taken to generate one sample",
			Buckets:   prometheus.DefBuckets,
		}),
		DialogueTurns: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dialogue_turns",
			Help:      "Utterance count per simulated dialogue",
			Buckets:   []float64{4, 8, 12, 16, 20, 24, 32},
		}),
	}
}
