package providers

import (
	"coursetrack/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ProgressAdvanced  = "advanced"
	ProgressUnchanged = "unchanged"
	ProgressNotFound  = "not_found"
)

// CourseCounter is the read side the metrics gauges poll.
type CourseCounter interface {
	CourseCount() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncProgressUpdates(outcome string)
	IncCompletions()
	IncBackups(success bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	progressUpdates     *prometheus.CounterVec
	completions         prometheus.Counter
	backups             *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncProgressUpdates(outcome string) {
	m.progressUpdates.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncCompletions() {
	m.completions.Inc()
}

func (m *MetricsProvider) IncBackups(success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	m.backups.WithLabelValues(result).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coursetrack_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursetrack_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coursetrack_cache_hits_total",
			Help: "Total number of dashboard cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coursetrack_cache_misses_total",
			Help: "Total number of dashboard cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coursetrack_persistence_duration_seconds",
			Help:    "Duration of course document saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		progressUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coursetrack_progress_updates_total",
			Help: "Progress reports by outcome",
		}, []string{"outcome"}),

		completions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coursetrack_video_completions_total",
			Help: "Videos that transitioned to completed",
		}),

		backups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coursetrack_backups_total",
			Help: "Backup snapshots written by result",
		}, []string{"result"}),
	}

	return m
}

// CourseGauge exports the number of tracked courses. It is built after the
// course service, which itself reports into MetricsProviderInterface.
type CourseGauge struct {
	registered bool
}

func NewCourseGauge(conf *structures.Config, courses CourseCounter) *CourseGauge {
	if !conf.Metrics.Enabled {
		return &CourseGauge{}
	}
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "coursetrack_courses_total",
		Help: "Number of tracked courses",
	}, func() float64 {
		return float64(courses.CourseCount())
	})
	return &CourseGauge{registered: true}
}

func (g *CourseGauge) Registered() bool {
	return g.registered
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncProgressUpdates(_ string)                      {}
func (n *noopMetrics) IncCompletions()                                  {}
func (n *noopMetrics) IncBackups(_ bool)                                {}
