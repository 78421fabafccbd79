package projection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hupe1980/boardmap/distance"
	"github.com/hupe1980/boardmap/model"
)

// ErrInvalidInput is returned for ragged, empty or non-finite input vectors.
var ErrInvalidInput = errors.New("invalid projection input")

// Projector reduces N×D embedding matrices to N×2 coordinates.
// A Projector is immutable and safe for concurrent use.
type Projector struct {
	opts options
}

// New creates a Projector.
func New(optFns ...Option) *Projector {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return &Projector{opts: o}
}

// Params returns the configured parameters, as recorded in package info.
func (p *Projector) Params() model.ProjectionParams {
	return model.ProjectionParams{
		NNeighbors: p.opts.neighbors,
		MinDist:    p.opts.minDist,
		Spread:     p.opts.spread,
		Epochs:     p.opts.epochs,
		Seed:       p.opts.seed,
		Metric:     p.opts.metric.String(),
	}
}

// EffectiveNeighbors returns the neighborhood size used for n points.
func (p *Projector) EffectiveNeighbors(n int) int {
	return min(p.opts.neighbors, n-1)
}

// EffectiveEpochs returns the number of epochs used for n points.
func (p *Projector) EffectiveEpochs(n int) int {
	if p.opts.epochs > 0 {
		return p.opts.epochs
	}
	if n <= 10000 {
		return 500
	}
	return 200
}

// Project computes one 2D point per input vector, in input order.
func (p *Projector) Project(ctx context.Context, vectors [][]float32) ([]model.Point, error) {
	start := time.Now()
	n := len(vectors)
	if n < 2 {
		return nil, &model.InsufficientDataError{N: n}
	}
	if err := validateVectors(vectors); err != nil {
		return nil, err
	}

	distFn, err := distance.Provider(p.opts.metric)
	if err != nil {
		return nil, err
	}

	k := p.EffectiveNeighbors(n)
	epochs := p.EffectiveEpochs(n)
	log := p.opts.logger.With("n", n, "dimension", len(vectors[0]), "k", k, "epochs", epochs)
	if k < p.opts.neighbors {
		log.DebugContext(ctx, "neighborhood capped to dataset size", "requested", p.opts.neighbors)
	}

	knn, err := exactKNN(ctx, vectors, k, distFn, p.opts.workers, p.opts.rc)
	if err != nil {
		return nil, err
	}
	defer knn.release()

	g := fuzzyGraph(knn)
	g.prune(epochs)

	a, b := fitCurve(p.opts.spread, p.opts.minDist)

	rng := rand.New(rand.NewSource(p.opts.seed)) // nolint gosec
	emb := initialLayout(vectors, rng)

	opt := optimizer{
		a:            a,
		b:            b,
		gamma:        p.opts.repulsion,
		learningRate: p.opts.learningRate,
		negRate:      p.opts.negativeSampleRate,
		epochs:       epochs,
		rng:          rng,
	}
	if err := opt.run(ctx, emb, g); err != nil {
		return nil, err
	}

	out := make([]model.Point, n)
	for i := range out {
		out[i] = model.Point{X: emb[2*i], Y: emb[2*i+1]}
	}

	log.DebugContext(ctx, "projection completed", "edges", len(g.head), "a", a, "b", b, "duration", time.Since(start))
	return out, nil
}

func validateVectors(vectors [][]float32) error {
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("%w: zero-dimensional vectors", ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has dimension %d, expected %d", ErrInvalidInput, i, len(v), dim)
		}
		for _, x := range v {
			f := float64(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: row %d contains a non-finite value", ErrInvalidInput, i)
			}
		}
	}
	return nil
}
