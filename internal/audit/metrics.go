package audit

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsOnce ensures metrics are only initialized once.
var metricsOnce sync.Once

// metricsInstance is the singleton instance of audit metrics.
var metricsInstance *Metrics

// Metrics holds Prometheus counters for audit pass outcomes.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec // dealdocs_audit_runs_total{pass}
	PromotionsTotal  prometheus.Counter     // dealdocs_audit_promotions_total
	PathRepairsTotal prometheus.Counter     // dealdocs_audit_path_repairs_total
}

// InitMetrics initializes audit metrics.
// Metrics are only registered once; subsequent calls return the same instance.
// Before InitMetrics is called, recording is a no-op.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	metricsOnce.Do(func() {
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		metricsInstance = &Metrics{
			RunsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
				Name: "dealdocs_audit_runs_total",
				Help: "Completed audit passes by kind",
			}, []string{"pass"}),

			PromotionsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "dealdocs_audit_promotions_total",
				Help: "File-backed records promoted to blob storage",
			}),

			PathRepairsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "dealdocs_audit_path_repairs_total",
				Help: "Stale file paths rewritten to a resolved location",
			}),
		}
	})

	return metricsInstance
}

func recordRun(pass string) {
	if metricsInstance == nil {
		return
	}
	metricsInstance.RunsTotal.WithLabelValues(pass).Inc()
}

func recordPromotion() {
	if metricsInstance == nil {
		return
	}
	metricsInstance.PromotionsTotal.Inc()
}

func recordPathRepair() {
	if metricsInstance == nil {
		return
	}
	metricsInstance.PathRepairsTotal.Inc()
}
