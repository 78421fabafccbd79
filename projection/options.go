package projection

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/boardmap/distance"
	"github.com/hupe1980/boardmap/internal/resource"
)

const (
	DefaultNeighbors          = 15
	DefaultMinDist            = 0.1
	DefaultSpread             = 1.0
	DefaultNegativeSampleRate = 5
	DefaultLearningRate       = 1.0
	DefaultSeed               = 42
)

type options struct {
	neighbors          int
	minDist            float64
	spread             float64
	epochs             int
	negativeSampleRate int
	learningRate       float64
	repulsion          float64
	seed               int64
	metric             distance.Metric
	workers            int
	rc                 *resource.Controller
	logger             *slog.Logger
}

func defaultOptions() options {
	return options{
		neighbors:          DefaultNeighbors,
		minDist:            DefaultMinDist,
		spread:             DefaultSpread,
		negativeSampleRate: DefaultNegativeSampleRate,
		learningRate:       DefaultLearningRate,
		repulsion:          1.0,
		seed:               DefaultSeed,
		metric:             distance.MetricEuclidean,
		workers:            runtime.GOMAXPROCS(0),
		logger:             slog.New(slog.DiscardHandler),
	}
}

// Option configures a Projector.
type Option func(*options)

// WithNeighbors sets the neighborhood size. It is capped at N-1 per call.
func WithNeighbors(k int) Option {
	return func(o *options) {
		if k > 0 {
			o.neighbors = k
		}
	}
}

// WithMinDist sets the minimum distance between embedded points.
func WithMinDist(d float64) Option {
	return func(o *options) {
		if d >= 0 {
			o.minDist = d
		}
	}
}

// WithSpread sets the effective scale of embedded points.
func WithSpread(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.spread = s
		}
	}
}

// WithEpochs sets the number of optimization epochs.
// If 0, 500 epochs are used for up to 10000 points and 200 above.
func WithEpochs(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.epochs = n
		}
	}
}

// WithNegativeSampleRate sets the number of negative samples per positive sample.
func WithNegativeSampleRate(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.negativeSampleRate = n
		}
	}
}

// WithLearningRate sets the initial SGD learning rate.
func WithLearningRate(lr float64) Option {
	return func(o *options) {
		if lr > 0 {
			o.learningRate = lr
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMetric sets the embedding distance metric.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers sets the number of neighbor-search goroutines.
// The result does not depend on it.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithResourceController bounds neighbor-table memory and concurrent workers.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
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
