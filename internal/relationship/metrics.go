// internal/relationship/metrics.go
package relationship

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relationship_operations_total",
		Help: "Relationship operations by operation and outcome",
	}, []string{"op", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relationship_operation_duration_seconds",
		Help:    "Relationship operation latency including conflict retries",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	conflictRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relationship_conflict_retries_total",
		Help: "Operations restarted after a version conflict",
	}, []string{"op"})

	repairsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relationship_repairs_total",
		Help: "Records that needed consistency repair when read",
	})
)

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
