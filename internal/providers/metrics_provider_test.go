package providers

import (
	"coursetrack/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCourseCounter int

func (f fixedCourseCounter) CourseCount() int { return int(f) }

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prevReg, prevGat := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGat
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncProgressUpdates(ProgressAdvanced)
	m.IncCompletions()
	m.IncBackups(true)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

// gatheredValue sums every sample of the named family whose labels include label=value.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			matched := label == ""
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					matched = true
				}
			}
			if !matched {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			}
		}
	}
	return total
}

func TestMetricsProvider_Counters(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	m.IncProgressUpdates(ProgressAdvanced)
	m.IncProgressUpdates(ProgressAdvanced)
	m.IncProgressUpdates(ProgressNotFound)
	m.IncCompletions()
	m.IncBackups(false)
	m.IncRequestsTotal("/progress", 204)

	assert.Equal(t, float64(2), gatheredValue(t, reg, "coursetrack_progress_updates_total", "outcome", ProgressAdvanced))
	assert.Equal(t, float64(1), gatheredValue(t, reg, "coursetrack_progress_updates_total", "outcome", ProgressNotFound))
	assert.Equal(t, float64(1), gatheredValue(t, reg, "coursetrack_video_completions_total", "", ""))
	assert.Equal(t, float64(1), gatheredValue(t, reg, "coursetrack_backups_total", "result", "error"))
	assert.Equal(t, float64(1), gatheredValue(t, reg, "coursetrack_requests_total", "status", "2xx"))
}

func TestCourseGauge(t *testing.T) {
	reg := useTestRegistry(t)

	g := NewCourseGauge(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}, fixedCourseCounter(3))

	assert.True(t, g.Registered())
	assert.Equal(t, float64(3), gatheredValue(t, reg, "coursetrack_courses_total", "", ""))
}

func TestCourseGauge_Disabled(t *testing.T) {
	g := NewCourseGauge(&structures.Config{}, fixedCourseCounter(3))
	assert.False(t, g.Registered())
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
