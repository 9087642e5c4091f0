package resolver

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsOnce ensures metrics are only initialized once.
var metricsOnce sync.Once

// metricsInstance is the singleton instance of resolver metrics.
var metricsInstance *Metrics

// Metrics holds Prometheus counters for resolution outcomes.
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec // dealdocs_resolver_resolutions_total{strategy,confidence}
	MissesTotal      prometheus.Counter     // dealdocs_resolver_misses_total
}

// InitMetrics initializes resolver metrics.
// Metrics are only registered once; subsequent calls return the same instance.
// Resolution attempts record through the singleton; before InitMetrics is
// called, recording is a no-op.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	metricsOnce.Do(func() {
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		metricsInstance = &Metrics{
			ResolutionsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
				Name: "dealdocs_resolver_resolutions_total",
				Help: "Successful path resolutions by strategy and confidence",
			}, []string{"strategy", "confidence"}),

			MissesTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "dealdocs_resolver_misses_total",
				Help: "Resolution attempts that exhausted every strategy",
			}),
		}
	})

	return metricsInstance
}

func recordResolution(s Strategy, c Confidence) {
	if metricsInstance == nil {
		return
	}
	metricsInstance.ResolutionsTotal.WithLabelValues(string(s), string(c)).Inc()
}

func recordMiss() {
	if metricsInstance == nil {
		return
	}
	metricsInstance.MissesTotal.Inc()
}
