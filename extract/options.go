package extract

import (
	"log/slog"
	"time"

	"github.com/hupe1980/boardmap/model"
	"github.com/hupe1980/boardmap/pack"
)

// SizeFunc measures the encoded size of a candidate package. It must not
// depend on projected coordinates, which are unset while the budget is checked.
type SizeFunc func(p *model.Package) (int64, error)

type options struct {
	sizeBudget int64
	sizeFunc   SizeFunc
	packOpts   []pack.Option
	clock      func() time.Time
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		clock:  time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures an Extractor.
type Option func(*options)

// WithSizeBudget sets the maximum encoded package size in bytes.
// If 0, no budget applies.
func WithSizeBudget(bytes int64) Option {
	return func(o *options) {
		if bytes >= 0 {
			o.sizeBudget = bytes
		}
	}
}

// WithPackOptions sets the container options the package will be written
// with. The default size function measures with them.
func WithPackOptions(opts ...pack.Option) Option {
	return func(o *options) {
		o.packOpts = opts
	}
}

// WithSizeFunc replaces the size function used for the budget.
func WithSizeFunc(fn SizeFunc) Option {
	return func(o *options) {
		o.sizeFunc = fn
	}
}

// WithClock sets the clock stamping PackageInfo.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
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
