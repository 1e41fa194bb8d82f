package canon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mDeepIterations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rdfcanonize_deep_iterations_total",
		Help: "Number of NDegreeHasher recursive entries across all canonicalizations.",
	})
	mDeepIterationsExceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rdfcanonize_deep_iterations_exceeded_total",
		Help: "Number of canonicalizations aborted for exceeding MaxDeepIterations.",
	})
	mDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "rdfcanonize_duration_seconds",
		Help: "Time to canonicalize a dataset, one observation per Canonicalize call.",
	})
)

// recordDeepIterationsExceeded increments the exceeded counter. It is
// invoked only when the MaxDeepIterations cap trips; the per-entry
// rdfcanonize_deep_iterations_total counter is bumped in
// hashNDegreeQuads itself.
func (c *Canonicalizer) recordDeepIterationsExceeded() {
	mDeepIterationsExceeded.Inc()
}
