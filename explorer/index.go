package explorer

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/boardmap/model"
)

// index stores postings keyed by row, where a row is a route's position in
// ID order. Iterating a result bitmap therefore yields routes by ID.
type index struct {
	all    *roaring.Bitmap
	grades map[string]*roaring.Bitmap
	angles map[int]*roaring.Bitmap

	difficulty column
	angle      column
	ascents    column
}

// column is a numeric attribute sorted by value.
type column struct {
	values []float64
	rows   []uint32
}

func newColumn(n int, value func(row int) float64) column {
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	slices.SortStableFunc(order, func(a, b uint32) int {
		return cmp.Compare(value(int(a)), value(int(b)))
	})
	c := column{values: make([]float64, n), rows: order}
	for i, row := range order {
		c.values[i] = value(int(row))
	}
	return c
}

// between returns the rows with lo <= value <= hi.
func (c column) between(lo, hi float64) *roaring.Bitmap {
	bm := roaring.New()
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return bm
	}
	i := sort.SearchFloat64s(c.values, lo)
	j := sort.Search(len(c.values), func(k int) bool { return c.values[k] > hi })
	if i < j {
		bm.AddMany(c.rows[i:j])
	}
	return bm
}

func newIndex(routes []model.Route) (*index, error) {
	if uint64(len(routes)) > math.MaxUint32 {
		return nil, errTooManyRoutes
	}
	ix := &index{
		all:    roaring.New(),
		grades: make(map[string]*roaring.Bitmap),
		angles: make(map[int]*roaring.Bitmap),
	}
	ix.all.AddRange(0, uint64(len(routes)))

	for i := range routes {
		r := &routes[i]
		posting(ix.grades, r.Grade).Add(uint32(i))
		posting(ix.angles, r.Angle).Add(uint32(i))
	}
	for _, bm := range ix.grades {
		bm.RunOptimize()
	}
	for _, bm := range ix.angles {
		bm.RunOptimize()
	}

	ix.difficulty = newColumn(len(routes), func(row int) float64 { return routes[row].Difficulty })
	ix.angle = newColumn(len(routes), func(row int) float64 { return float64(routes[row].Angle) })
	ix.ascents = newColumn(len(routes), func(row int) float64 { return float64(routes[row].Ascents) })
	return ix, nil
}

func posting[K comparable](m map[K]*roaring.Bitmap, k K) *roaring.Bitmap {
	bm, ok := m[k]
	if !ok {
		bm = roaring.New()
		m[k] = bm
	}
	return bm
}

// union returns the OR of the postings for keys. Missing keys contribute nothing.
func union[K comparable](m map[K]*roaring.Bitmap, keys []K) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(keys))
	for _, k := range keys {
		if bm, ok := m[k]; ok {
			bms = append(bms, bm)
		}
	}
	return roaring.FastOr(bms...)
}

// eval intersects the bitmaps of preds. No predicates select every row.
func (ix *index) eval(preds []Predicate) *roaring.Bitmap {
	result := ix.all.Clone()
	for _, p := range preds {
		if result.IsEmpty() {
			break
		}
		result.And(p.bitmap(ix))
	}
	return result
}
