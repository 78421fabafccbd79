package boardmap

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/boardmap/blobstore"
	"github.com/hupe1980/boardmap/explorer"
	"github.com/hupe1980/boardmap/extract"
	"github.com/hupe1980/boardmap/internal/hash"
	"github.com/hupe1980/boardmap/model"
	"github.com/hupe1980/boardmap/pack"
	"github.com/hupe1980/boardmap/projection"
	"github.com/hupe1980/boardmap/source"
)

// Pipeline builds packages into a blob store and opens them for exploration.
// It is safe for concurrent use.
type Pipeline struct {
	store  blobstore.BlobStore
	opts   options
	loader *explorer.Loader
}

// New creates a Pipeline writing to and reading from store.
func New(store blobstore.BlobStore, optFns ...Option) *Pipeline {
	o := applyOptions(optFns)
	if o.projector == nil {
		popts := append([]projection.Option{
			projection.WithResourceController(o.rc),
			projection.WithLogger(o.logger.Logger),
		}, o.projectionOpts...)
		o.projector = projection.New(popts...)
	}
	if o.rc != nil {
		store = blobstore.NewRateLimitedStore(store, o.rc)
	}

	return &Pipeline{
		store: store,
		opts:  o,
		loader: explorer.NewLoader(
			explorer.WithCacheSize(o.cacheSize),
			explorer.WithResourceController(o.rc),
			explorer.WithPackOptions(pack.WithCodec(o.codec)),
			explorer.WithMetricsObserver(o.metricsCollector),
			explorer.WithLogger(o.logger.Logger),
		),
	}
}

// BuildRequest describes one package build.
type BuildRequest struct {
	// DatasetPath is the SQLite source dataset.
	DatasetPath string
	// ArchivePath is the results archive holding the embeddings.
	ArchivePath string
	// Name is the blob name the package is written under.
	Name string
	// Threshold is the minimum route difficulty.
	Threshold float64
	// SizeBudget overrides the pipeline's size budget when positive.
	SizeBudget int64
}

// BuildResult describes a written package.
type BuildResult struct {
	Name               string
	Key                hash.Key
	Bytes              int64
	RequestedThreshold float64
	EffectiveThreshold float64
	Routes             int
	Holds              int
	Layouts            int
	// Source is nil for BuildDataset.
	Source *source.Stats
}

// Build reads the source files, extracts and projects the qualifying routes
// and writes the package to the store. Nothing is written on failure.
func (p *Pipeline) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if req.Name == "" {
		return nil, ErrInvalidName
	}
	log := p.opts.logger.WithPackage(req.Name).WithThreshold(req.Threshold)

	start := time.Now()
	ds, stats, err := source.Load(ctx, req.DatasetPath, req.ArchivePath,
		source.WithCodec(p.opts.codec),
		source.WithLogger(log.Logger),
	)
	p.opts.metricsCollector.RecordStage(StageSource, time.Since(start), err)
	if err != nil {
		log.LogSource(ctx, 0, 0, 0, err)
		return nil, err
	}
	log.LogSource(ctx, stats.Routes, stats.Skipped, stats.Unmatched, nil)

	res, err := p.build(ctx, log, ds, req)
	if err != nil {
		return nil, err
	}
	res.Source = stats
	return res, nil
}

// BuildDataset is Build for a dataset already in memory.
func (p *Pipeline) BuildDataset(ctx context.Context, ds *model.Dataset, req BuildRequest) (*BuildResult, error) {
	if req.Name == "" {
		return nil, ErrInvalidName
	}
	return p.build(ctx, p.opts.logger.WithPackage(req.Name).WithThreshold(req.Threshold), ds, req)
}

func (p *Pipeline) build(ctx context.Context, log *Logger, ds *model.Dataset, req BuildRequest) (*BuildResult, error) {
	packOpts := []pack.Option{pack.WithCompression(p.opts.compression), pack.WithCodec(p.opts.codec)}

	budget := p.opts.sizeBudget
	if req.SizeBudget > 0 {
		budget = req.SizeBudget
	}

	start := time.Now()
	ex := extract.New(p.opts.projector,
		extract.WithSizeBudget(budget),
		extract.WithPackOptions(packOpts...),
		extract.WithClock(p.opts.clock),
		extract.WithLogger(log.Logger),
	)
	res, err := ex.Extract(ctx, ds, req.Threshold)
	p.opts.metricsCollector.RecordStage(StageExtract, time.Since(start), err)
	if err != nil {
		log.LogExtract(ctx, 0, 0, err)
		return nil, err
	}
	log.LogExtract(ctx, res.EffectiveThreshold, len(res.Package.Routes), nil)

	start = time.Now()
	data, err := pack.Marshal(res.Package, packOpts...)
	p.opts.metricsCollector.RecordStage(StageEncode, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("encode package: %w", err)
	}

	start = time.Now()
	err = p.store.Put(ctx, req.Name, data)
	p.opts.metricsCollector.RecordStage(StageStore, time.Since(start), err)
	log.LogStore(ctx, len(data), err)
	if err != nil {
		return nil, fmt.Errorf("write package %q: %w", req.Name, err)
	}
	p.opts.metricsCollector.RecordPackage(len(res.Package.Routes), int64(len(data)), res.EffectiveThreshold)

	return &BuildResult{
		Name:               req.Name,
		Key:                hash.ContentKey(data),
		Bytes:              int64(len(data)),
		RequestedThreshold: res.RequestedThreshold,
		EffectiveThreshold: res.EffectiveThreshold,
		Routes:             len(res.Package.Routes),
		Holds:              len(res.Package.Holds),
		Layouts:            len(res.Package.Layouts),
	}, nil
}

// Open loads the named package into a Session. Opening the same bytes again
// returns the memoized Session.
func (p *Pipeline) Open(ctx context.Context, name string) (*explorer.Session, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	log := p.opts.logger.WithPackage(name)

	var sess *explorer.Session
	err := blobstore.View(ctx, p.store, name, func(data []byte) error {
		s, err := p.loader.Load(ctx, data)
		sess = s
		return err
	})
	err = translateStoreError(name, err)
	if err != nil {
		log.LogOpen(ctx, 0, err)
		return nil, err
	}
	log.LogOpen(ctx, sess.Len(), nil)
	return sess, nil
}

// List returns the names of the stored packages with the given prefix.
func (p *Pipeline) List(ctx context.Context, prefix string) ([]string, error) {
	return p.store.List(ctx, prefix)
}

// Delete removes a stored package.
func (p *Pipeline) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrInvalidName
	}
	return p.store.Delete(ctx, name)
}
