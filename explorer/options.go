package explorer

import (
	"log/slog"

	"github.com/hupe1980/boardmap/internal/resource"
	"github.com/hupe1980/boardmap/pack"
)

// DefaultCacheSize is the default byte capacity of the Loader memo.
const DefaultCacheSize = 256 << 20

type options struct {
	cacheSize int64
	rc        *resource.Controller
	packOpts  []pack.Option
	metrics   MetricsObserver
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		cacheSize: DefaultCacheSize,
		metrics:   NoopMetricsObserver{},
		logger:    slog.New(slog.DiscardHandler),
	}
}

// Option configures a Loader and the Sessions it creates.
type Option func(*options)

// WithCacheSize sets how many package bytes the Loader memoizes.
// If 0, nothing is memoized.
func WithCacheSize(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.cacheSize = bytes
		}
	}
}

// WithResourceController accounts memoized packages against rc's memory limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithPackOptions sets the options packages are decoded with.
func WithPackOptions(opts ...pack.Option) Option {
	return func(o *options) {
		o.packOpts = opts
	}
}

// WithMetricsObserver sets the metrics observer.
func WithMetricsObserver(m MetricsObserver) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
