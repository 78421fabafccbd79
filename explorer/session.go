package explorer

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/boardmap/internal/hash"
	"github.com/hupe1980/boardmap/model"
)

// Bounds is an axis-aligned rectangle in projection space.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Session holds the immutable tables of one package.
type Session struct {
	key     hash.Key
	info    *model.PackageInfo
	routes  []model.Route // ascending by ID
	byID    map[string]int
	holds   map[string][]model.Hold
	layouts map[int64]model.BoardLayout
	bounds  Bounds
	idx     *index
	metrics MetricsObserver
}

// NewSession builds a Session from a decoded package. The package must
// satisfy model.Package.Validate; it is not retained or modified.
func NewSession(p *model.Package, optFns ...Option) (*Session, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return newSession(p, hash.Key{}, o)
}

func newSession(p *model.Package, key hash.Key, o options) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, model.NewCorruptPackageError(err, "referential integrity")
	}

	routes := make([]model.Route, len(p.Routes))
	for i := range p.Routes {
		routes[i] = p.Routes[i].Clone()
	}
	slices.SortFunc(routes, func(a, b model.Route) int { return cmp.Compare(a.ID, b.ID) })

	s := &Session{
		key:     key,
		routes:  routes,
		byID:    make(map[string]int, len(routes)),
		holds:   make(map[string][]model.Hold, len(routes)),
		layouts: make(map[int64]model.BoardLayout, len(p.Layouts)),
		metrics: o.metrics,
	}
	if p.Info != nil {
		info := *p.Info
		s.info = &info
	}
	for i := range routes {
		s.byID[routes[i].ID] = i
	}
	for _, h := range p.Holds {
		s.holds[h.RouteID] = append(s.holds[h.RouteID], h)
	}
	for _, l := range p.Layouts {
		s.layouts[l.ID] = l.Clone()
	}

	s.bounds = dataBounds(routes)
	idx, err := newIndex(routes)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	s.idx = idx
	return s, nil
}

// dataBounds returns the extent of the projected points. A degenerate axis
// is widened to one unit around its center.
func dataBounds(routes []model.Route) Bounds {
	if len(routes) == 0 {
		return Bounds{MinX: -0.5, MinY: -0.5, MaxX: 0.5, MaxY: 0.5}
	}
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for i := range routes {
		p := routes[i].Projected
		b.MinX = min(b.MinX, p.X)
		b.MaxX = max(b.MaxX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxY = max(b.MaxY, p.Y)
	}
	if b.Width() == 0 {
		b.MinX, b.MaxX = b.MinX-0.5, b.MaxX+0.5
	}
	if b.Height() == 0 {
		b.MinY, b.MaxY = b.MinY-0.5, b.MaxY+0.5
	}
	return b
}

// Key returns the content key of the bytes the session was loaded from.
// It is zero for sessions built with NewSession.
func (s *Session) Key() hash.Key { return s.key }

// Info returns the package info, or nil if the package carried none.
func (s *Session) Info() *model.PackageInfo { return s.info }

// Len returns the number of routes in the package.
func (s *Session) Len() int { return len(s.routes) }

// Bounds returns the extent of all projected points in the package.
func (s *Session) Bounds() Bounds { return s.bounds }

// Grades returns the distinct grades in the package, sorted.
func (s *Session) Grades() []string {
	out := make([]string, 0, len(s.idx.grades))
	for g := range s.idx.grades {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Angles returns the distinct board angles in the package, ascending.
func (s *Session) Angles() []int {
	out := make([]int, 0, len(s.idx.angles))
	for a := range s.idx.angles {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// ApplyFilter returns the routes matching f, ordered by route ID.
func (s *Session) ApplyFilter(f Filter) []VisibleRoute {
	start := time.Now()
	bm := s.idx.eval(f.Predicates())

	out := make([]VisibleRoute, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, s.visible(int(it.Next())))
	}
	s.metrics.OnFilter(len(out), len(s.routes), time.Since(start))
	return out
}

func (s *Session) visible(row int) VisibleRoute {
	r := &s.routes[row]
	return VisibleRoute{
		ID:         r.ID,
		Name:       r.Name,
		Grade:      r.Grade,
		Difficulty: r.Difficulty,
		Angle:      r.Angle,
		Quality:    r.Quality,
		Ascents:    r.Ascents,
		Point:      r.Projected,
	}
}

// VisibleRoute is the per-route data the scatter view needs.
type VisibleRoute struct {
	ID         string
	Name       string
	Grade      string
	Difficulty float64
	Angle      int
	Quality    float64
	Ascents    int
	Point      model.Point
}
