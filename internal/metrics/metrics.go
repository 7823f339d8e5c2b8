package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	snapshotLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomboard",
			Name:      "snapshot_loads_total",
			Help:      "Count of roster snapshot loads by outcome.",
		},
		[]string{"status"},
	)

	teacherFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomboard",
			Name:      "teacher_fetch_failures_total",
			Help:      "Count of per-teacher schedule fetches substituted with an empty schedule.",
		},
	)

	gridBuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomboard",
			Name:      "grid_builds_total",
			Help:      "Count of schedule grid builds.",
		},
	)

	gridBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "roomboard",
			Name:      "grid_build_duration_seconds",
			Help:      "Time spent building a schedule grid.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomboard",
			Name:      "http_requests_total",
			Help:      "Count of API requests by path and status code.",
		},
		[]string{"path", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			snapshotLoads,
			teacherFetchFailures,
			gridBuilds,
			gridBuildDuration,
			httpRequests,
		)
	})
}

func IncSnapshotLoad(status string) {
	snapshotLoads.WithLabelValues(status).Inc()
}

func IncTeacherFetchFailure() {
	teacherFetchFailures.Inc()
}

func ObserveGridBuild(d time.Duration) {
	gridBuilds.Inc()
	gridBuildDuration.Observe(d.Seconds())
}

func IncHTTPRequest(path, code string) {
	httpRequests.WithLabelValues(path, code).Inc()
}
