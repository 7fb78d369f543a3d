// Package metrics holds the Prometheus collectors for the query pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes recorded by ObserveQuery.
const (
	OutcomeOK         = "ok"
	OutcomeUnparsable = "unparsable"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
)

// Collectors is the pipeline's metric set. A nil *Collectors records nothing.
type Collectors struct {
	queries       *prometheus.CounterVec
	parseDuration prometheus.Histogram
	candidates    prometheus.Counter
	rejected      prometheus.Counter
}

// New registers the collectors on reg. A nil reg leaves them unregistered,
// which is what tests that inspect values directly want.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strsift",
			Name:      "queries_total",
			Help:      "Natural-language queries by outcome",
		}, []string{"outcome"}),
		parseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strsift",
			Name:      "parse_duration_seconds",
			Help:      "Time spent normalizing and parsing a query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.25},
		}),
		candidates: f.NewCounter(prometheus.CounterOpts{
			Namespace: "strsift",
			Subsystem: "postfilter",
			Name:      "candidates_total",
			Help:      "Rows handed to the positional post-filter",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "strsift",
			Subsystem: "postfilter",
			Name:      "rejected_total",
			Help:      "Rows the positional post-filter removed",
		}),
	}
}

func (c *Collectors) ObserveQuery(outcome string) {
	if c == nil {
		return
	}
	c.queries.WithLabelValues(outcome).Inc()
}

func (c *Collectors) ObserveParse(d time.Duration) {
	if c == nil {
		return
	}
	c.parseDuration.Observe(d.Seconds())
}

// ObservePostFilter records one post-filter pass.
func (c *Collectors) ObservePostFilter(candidates, rejected int) {
	if c == nil {
		return
	}
	c.candidates.Add(float64(candidates))
	c.rejected.Add(float64(rejected))
}
