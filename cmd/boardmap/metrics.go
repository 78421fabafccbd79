package main

import (
	"strconv"
	"time"

	"github.com/hupe1980/boardmap"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "boardmap"

// promCollector exports pipeline and explorer metrics to Prometheus.
type promCollector struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	packageBytes  prometheus.Gauge
	packageRoutes prometheus.Gauge
	threshold     prometheus.Gauge
	loads         *prometheus.CounterVec
	filters       prometheus.Counter
	selects       *prometheus.CounterVec
}

var _ boardmap.MetricsCollector = (*promCollector)(nil)

func newPromCollector() *promCollector {
	c := &promCollector{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_stage_duration_seconds",
			Help:      "Duration of each build stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_stage_errors_total",
			Help:      "Failed build stages.",
		}, []string{"stage"}),
		packageBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "package_bytes",
			Help:      "Size of the last written package.",
		}),
		packageRoutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "package_routes",
			Help:      "Routes in the last written package.",
		}),
		threshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "package_effective_threshold",
			Help:      "Effective difficulty threshold of the last written package.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "package_loads_total",
			Help:      "Package loads by memo outcome.",
		}, []string{"cached", "result"}),
		filters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_evaluations_total",
			Help:      "Filter evaluations.",
		}),
		selects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Click resolutions by outcome.",
		}, []string{"hit"}),
	}
	c.registry.MustRegister(
		c.stageDuration, c.stageErrors,
		c.packageBytes, c.packageRoutes, c.threshold,
		c.loads, c.filters, c.selects,
	)
	return c
}

func (c *promCollector) RecordStage(stage boardmap.Stage, d time.Duration, err error) {
	c.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
	if err != nil {
		c.stageErrors.WithLabelValues(string(stage)).Inc()
	}
}

func (c *promCollector) RecordPackage(routes int, bytes int64, effectiveThreshold float64) {
	c.packageRoutes.Set(float64(routes))
	c.packageBytes.Set(float64(bytes))
	c.threshold.Set(effectiveThreshold)
}

func (c *promCollector) OnLoad(_ int, cached bool, _ time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.loads.WithLabelValues(strconv.FormatBool(cached), result).Inc()
}

func (c *promCollector) OnFilter(int, int, time.Duration) {
	c.filters.Inc()
}

func (c *promCollector) OnSelect(hit bool) {
	c.selects.WithLabelValues(strconv.FormatBool(hit)).Inc()
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (c *promCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
