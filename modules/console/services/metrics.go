package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iota-uz/treesync/pkg/tree"
)

var (
	treeBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "treesync",
		Subsystem: "build",
		Name:      "total",
		Help:      "Total number of forest builds broken down by record kind.",
	}, []string{"kind"})

	treeBuildDiagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "treesync",
		Subsystem: "build",
		Name:      "diagnostics_total",
		Help:      "Records that could not be placed as declared, broken down by kind and diagnostic.",
	}, []string{"kind", "diagnostic"})

	treeBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "treesync",
		Subsystem: "build",
		Name:      "duration_seconds",
		Help:      "Time spent loading records and building the forest.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	treeCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "treesync",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of forest cache lookups broken down by hit/miss.",
	}, []string{"kind", "result"})

	treeCacheInvalidate = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "treesync",
		Subsystem: "cache",
		Name:      "invalidate_total",
		Help:      "Total number of forest cache invalidations broken down by reason.",
	}, []string{"reason"})

	dialogsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "treesync",
		Subsystem: "dialog",
		Name:      "open",
		Help:      "Selection dialogs currently open.",
	})
)

func recordCacheRequest(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	treeCacheRequests.WithLabelValues(kind, result).Inc()
}

func recordCacheInvalidate(reason string) {
	if reason == "" {
		reason = "manual"
	}
	treeCacheInvalidate.WithLabelValues(reason).Inc()
}

func recordDiagnostic(kind string, d tree.Diagnostic) {
	treeBuildDiagnostics.WithLabelValues(kind, string(d.Kind)).Inc()
}
