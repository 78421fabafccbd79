package boardmap

import (
	"log/slog"
	"time"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/explorer"
	"github.com/hupe1980/boardmap/extract"
	"github.com/hupe1980/boardmap/internal/resource"
	"github.com/hupe1980/boardmap/pack"
	"github.com/hupe1980/boardmap/projection"
)

type options struct {
	codec            codec.Codec
	compression      pack.Compression
	sizeBudget       int64
	projector        extract.Projector
	projectionOpts   []projection.Option
	cacheSize        int64
	rc               *resource.Controller
	clock            func() time.Time
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Pipeline.
type Option func(*options)

// WithCodec configures the codec used for the info section and the
// embeddings lines of the results archive.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression sets the section compression of written packages.
func WithCompression(c pack.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithSizeBudget sets the default maximum package size in bytes. A
// BuildRequest with its own budget overrides it. If 0, no budget applies.
func WithSizeBudget(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.sizeBudget = bytes
		}
	}
}

// WithProjector replaces the projector. Projection options are ignored
// when a projector is set.
func WithProjector(p extract.Projector) Option {
	return func(o *options) {
		o.projector = p
	}
}

// WithProjectionOptions configures the default projector.
func WithProjectionOptions(opts ...projection.Option) Option {
	return func(o *options) {
		o.projectionOpts = append(o.projectionOpts, opts...)
	}
}

// WithCacheSize sets how many package bytes Open memoizes.
func WithCacheSize(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.cacheSize = bytes
		}
	}
}

// WithResourceController bounds projection workers and memoized package
// memory, and throttles package writes.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithClock sets the clock stamping package info.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithMetricsCollector configures a metrics collector for observability.
//
// If nil is passed, metrics collection is disabled (NoopMetricsCollector).
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
//
// If nil is passed, logging is disabled (NoopLogger).
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel is a convenience for a text logger at level.
func WithLogLevel(level slog.Level) Option {
	return WithLogger(NewTextLogger(level))
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      pack.CompressionZSTD,
		cacheSize:        explorer.DefaultCacheSize,
		clock:            time.Now,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
