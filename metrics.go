package boardmap

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/boardmap/explorer"
)

// Stage is one step of the build pipeline.
type Stage string

const (
	StageSource  Stage = "source"
	StageExtract Stage = "extract"
	StageEncode  Stage = "encode"
	StageStore   Stage = "store"
)

// Stages lists the build stages in execution order.
var Stages = [...]Stage{StageSource, StageExtract, StageEncode, StageStore}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// It also receives the explorer's load, filter and selection events.
type MetricsCollector interface {
	explorer.MetricsObserver

	// RecordStage is called after each build stage.
	// duration is the time taken, err is nil if successful.
	RecordStage(stage Stage, duration time.Duration, err error)

	// RecordPackage is called once per written package.
	RecordPackage(routes int, bytes int64, effectiveThreshold float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct {
	explorer.NoopMetricsObserver
}

func (NoopMetricsCollector) RecordStage(Stage, time.Duration, error) {}
func (NoopMetricsCollector) RecordPackage(int, int64, float64)      {}

// BasicMetricsCollector is a simple in-memory metrics collector.
// It uses atomic counters for thread-safe operation.
type BasicMetricsCollector struct {
	StageCount      [len(Stages)]atomic.Int64
	StageErrors     [len(Stages)]atomic.Int64
	StageTotalNanos [len(Stages)]atomic.Int64
	PackageCount    atomic.Int64
	PackageBytes    atomic.Int64
	LoadCount       atomic.Int64
	LoadCached      atomic.Int64
	LoadErrors      atomic.Int64
	FilterCount     atomic.Int64
	SelectCount     atomic.Int64
	SelectHits      atomic.Int64
}

func stageIndex(s Stage) int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage Stage, duration time.Duration, err error) {
	i := stageIndex(stage)
	if i < 0 {
		return
	}
	b.StageCount[i].Add(1)
	b.StageTotalNanos[i].Add(duration.Nanoseconds())
	if err != nil {
		b.StageErrors[i].Add(1)
	}
}

// RecordPackage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPackage(_ int, bytes int64, _ float64) {
	b.PackageCount.Add(1)
	b.PackageBytes.Add(bytes)
}

// OnLoad implements explorer.MetricsObserver.
func (b *BasicMetricsCollector) OnLoad(_ int, cached bool, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if cached {
		b.LoadCached.Add(1)
	}
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// OnFilter implements explorer.MetricsObserver.
func (b *BasicMetricsCollector) OnFilter(int, int, time.Duration) {
	b.FilterCount.Add(1)
}

// OnSelect implements explorer.MetricsObserver.
func (b *BasicMetricsCollector) OnSelect(hit bool) {
	b.SelectCount.Add(1)
	if hit {
		b.SelectHits.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		Stages:       make(map[Stage]StageStats, len(Stages)),
		PackageCount: b.PackageCount.Load(),
		PackageBytes: b.PackageBytes.Load(),
		LoadCount:    b.LoadCount.Load(),
		LoadCached:   b.LoadCached.Load(),
		LoadErrors:   b.LoadErrors.Load(),
		FilterCount:  b.FilterCount.Load(),
		SelectCount:  b.SelectCount.Load(),
		SelectHits:   b.SelectHits.Load(),
	}
	for i, s := range Stages {
		st := StageStats{Count: b.StageCount[i].Load(), Errors: b.StageErrors[i].Load()}
		if st.Count > 0 {
			st.AvgNanos = b.StageTotalNanos[i].Load() / st.Count
		}
		stats.Stages[s] = st
	}
	return stats
}

// StageStats is a snapshot of one build stage.
type StageStats struct {
	Count    int64
	Errors   int64
	AvgNanos int64
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Stages       map[Stage]StageStats
	PackageCount int64
	PackageBytes int64
	LoadCount    int64
	LoadCached   int64
	LoadErrors   int64
	FilterCount  int64
	SelectCount  int64
	SelectHits   int64
}
