package explorer

import "time"

// MetricsObserver receives explorer events.
type MetricsObserver interface {
	// OnLoad is called after a Load. cached reports a memo hit.
	OnLoad(bytes int, cached bool, d time.Duration, err error)
	// OnFilter is called after ApplyFilter.
	OnFilter(visible, total int, d time.Duration)
	// OnSelect is called after ResolveSelection through a Session.
	OnSelect(hit bool)
}

// NoopMetricsObserver ignores every event.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnLoad(int, bool, time.Duration, error) {}
func (NoopMetricsObserver) OnFilter(int, int, time.Duration)     {}
func (NoopMetricsObserver) OnSelect(bool)                          {}
