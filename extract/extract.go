package extract

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/boardmap/model"
	"github.com/hupe1980/boardmap/pack"
)

// Projector computes one 2D point per embedding.
type Projector interface {
	Project(ctx context.Context, vectors [][]float32) ([]model.Point, error)
	Params() model.ProjectionParams
}

// Result is a reduced package plus the thresholds that produced it.
type Result struct {
	Package            *model.Package
	RequestedThreshold float64
	EffectiveThreshold float64
	// Size is the encoded size bound of Package under the configured pack options.
	Size int64
}

// Extractor builds packages from datasets. It is safe for concurrent use.
type Extractor struct {
	projector Projector
	opts      options
}

// New creates an Extractor that projects with p.
func New(p Projector, optFns ...Option) *Extractor {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	if o.sizeFunc == nil {
		packOpts := o.packOpts
		o.sizeFunc = func(p *model.Package) (int64, error) {
			return pack.EncodedSize(p, packOpts...)
		}
	}
	return &Extractor{projector: p, opts: o}
}

// Extract selects every route with difficulty >= threshold and builds a
// referentially consistent package from it. ds is not modified.
//
// It fails with *model.InvalidDatasetError for inconsistent input,
// *model.EmptyResultError when no route qualifies and
// *model.SizeBudgetExceededError when no raised threshold fits the budget.
func (e *Extractor) Extract(ctx context.Context, ds *model.Dataset, threshold float64) (*Result, error) {
	start := time.Now()
	log := e.opts.logger.With("threshold", threshold)

	if err := validateDataset(ds); err != nil {
		return nil, err
	}

	ix := newIndex(ds)
	candidates := ix.candidates(threshold)
	if len(candidates) == 0 {
		return nil, &model.EmptyResultError{Threshold: threshold, Routes: len(ds.Routes)}
	}

	info := &model.PackageInfo{
		RequestedThreshold: threshold,
		SizeBudget:         e.opts.sizeBudget,
		SourceRoutes:       len(ds.Routes),
		SourceHolds:        len(ds.Holds),
		SourceLayouts:      len(ds.Layouts),
		Projection:         e.projector.Params(),
		CreatedAt:          e.opts.clock().UTC(),
	}

	build := func(t float64) (*model.Package, int64, error) {
		inf := *info
		inf.EffectiveThreshold = t
		p := ix.subset(t, &inf)
		size, err := e.opts.sizeFunc(p)
		if err != nil {
			return nil, 0, fmt.Errorf("measure package at threshold %g: %w", t, err)
		}
		return p, size, nil
	}

	p, size, err := build(threshold)
	if err != nil {
		return nil, err
	}
	effective := threshold

	if budget := e.opts.sizeBudget; budget > 0 && size > budget {
		log.DebugContext(ctx, "package exceeds size budget, raising threshold", "size", size, "budget", budget)

		// Encoded size is non-increasing along candidates, so the smallest
		// fitting candidate is found by binary search over candidates[1:].
		lo, hi := 1, len(candidates)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			_, s, err := build(candidates[mid])
			if err != nil {
				return nil, err
			}
			log.DebugContext(ctx, "size budget probe", "candidate", candidates[mid], "size", s)
			if s <= budget {
				hi = mid
			} else {
				lo = mid + 1
			}
		}

		if lo == len(candidates) {
			last := candidates[len(candidates)-1]
			_, smallest, err := build(last)
			if err != nil {
				return nil, err
			}
			return nil, &model.SizeBudgetExceededError{
				Threshold:     threshold,
				LastThreshold: last,
				Budget:        budget,
				SmallestSize:  smallest,
			}
		}

		effective = candidates[lo]
		if p, size, err = build(effective); err != nil {
			return nil, err
		}
	}

	vectors := make([][]float32, len(p.Routes))
	for i := range p.Routes {
		vectors[i] = p.Routes[i].Embedding
	}
	points, err := e.projector.Project(ctx, vectors)
	if err != nil {
		return nil, fmt.Errorf("project %d routes: %w", len(vectors), err)
	}
	if len(points) != len(p.Routes) {
		return nil, fmt.Errorf("projector returned %d points for %d routes", len(points), len(p.Routes))
	}
	for i := range p.Routes {
		p.Routes[i].Projected = points[i]
	}

	log.InfoContext(ctx, "extraction completed",
		"effective_threshold", effective,
		"routes", len(p.Routes),
		"holds", len(p.Holds),
		"layouts", len(p.Layouts),
		"size", size,
		"duration", time.Since(start),
	)

	return &Result{
		Package:            p,
		RequestedThreshold: threshold,
		EffectiveThreshold: effective,
		Size:               size,
	}, nil
}

// index is the canonical ordering of a dataset.
type index struct {
	routes  []*model.Route          // by ID
	holds   map[string][]model.Hold // by route, input order
	layouts map[int64]*model.BoardLayout
}

func newIndex(ds *model.Dataset) *index {
	ix := &index{
		routes:  make([]*model.Route, len(ds.Routes)),
		holds:   make(map[string][]model.Hold),
		layouts: make(map[int64]*model.BoardLayout, len(ds.Layouts)),
	}
	for i := range ds.Routes {
		ix.routes[i] = &ds.Routes[i]
	}
	slices.SortFunc(ix.routes, func(a, b *model.Route) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for _, h := range ds.Holds {
		ix.holds[h.RouteID] = append(ix.holds[h.RouteID], h)
	}
	for i := range ds.Layouts {
		ix.layouts[ds.Layouts[i].ID] = &ds.Layouts[i]
	}
	return ix
}

// candidates returns threshold followed by every distinct difficulty above
// it, ascending. It is empty when no route reaches threshold.
func (ix *index) candidates(threshold float64) []float64 {
	var above []float64
	qualifies := false
	for _, r := range ix.routes {
		if r.Difficulty >= threshold {
			qualifies = true
			if r.Difficulty > threshold {
				above = append(above, r.Difficulty)
			}
		}
	}
	if !qualifies {
		return nil
	}
	slices.Sort(above)
	return append([]float64{threshold}, slices.Compact(above)...)
}

// subset builds the package for one threshold with unset coordinates.
func (ix *index) subset(threshold float64, info *model.PackageInfo) *model.Package {
	p := &model.Package{SchemaVersion: model.SchemaVersion, Info: info}
	for _, r := range ix.routes {
		if r.Difficulty < threshold {
			continue
		}
		route := r.Clone()
		route.Projected = model.Point{}
		p.Routes = append(p.Routes, route)
		p.Holds = append(p.Holds, ix.holds[r.ID]...)
	}
	for _, id := range model.LayoutIDs(p.Routes) {
		p.Layouts = append(p.Layouts, ix.layouts[id].Clone())
	}
	return p
}

func validateDataset(ds *model.Dataset) error {
	if ds == nil {
		return &model.InvalidDatasetError{Reason: "nil dataset"}
	}

	layouts := make(map[int64]struct{}, len(ds.Layouts))
	for i := range ds.Layouts {
		id := ds.Layouts[i].ID
		if _, dup := layouts[id]; dup {
			return &model.InvalidDatasetError{Reason: fmt.Sprintf("duplicate layout id %d", id)}
		}
		layouts[id] = struct{}{}
	}

	ids := make(map[string]struct{}, len(ds.Routes))
	dim := -1
	for i := range ds.Routes {
		r := &ds.Routes[i]
		if r.ID == "" {
			return &model.InvalidDatasetError{Reason: fmt.Sprintf("route at row %d has empty id", i)}
		}
		if _, dup := ids[r.ID]; dup {
			return &model.InvalidDatasetError{Reason: "duplicate route id", RouteID: r.ID}
		}
		ids[r.ID] = struct{}{}

		if _, ok := layouts[r.LayoutID]; !ok {
			return &model.InvalidDatasetError{Reason: fmt.Sprintf("unknown layout %d", r.LayoutID), RouteID: r.ID}
		}
		if len(r.Embedding) == 0 {
			return &model.InvalidDatasetError{Reason: "missing embedding", RouteID: r.ID}
		}
		if dim < 0 {
			dim = len(r.Embedding)
		} else if len(r.Embedding) != dim {
			return &model.InvalidDatasetError{
				Reason:  fmt.Sprintf("embedding dimension %d, expected %d", len(r.Embedding), dim),
				RouteID: r.ID,
			}
		}
	}

	for i := range ds.Holds {
		if !ds.Holds[i].Role.Valid() {
			return &model.InvalidDatasetError{
				Reason:  fmt.Sprintf("hold at row %d has invalid role %d", i, uint8(ds.Holds[i].Role)),
				RouteID: ds.Holds[i].RouteID,
			}
		}
	}
	return nil
}
