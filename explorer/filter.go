package explorer

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/boardmap/model"
)

var (
	// ErrInvalidFilter is returned for filters that can never be evaluated.
	ErrInvalidFilter = errors.New("invalid filter")

	errTooManyRoutes = errors.New("package has more routes than a session can index")
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("%w: %s range is NaN", ErrInvalidFilter, name)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s range min %g > max %g", ErrInvalidFilter, name, r.Min, r.Max)
	}
	return nil
}

// Filter selects routes. Unset fields do not constrain; set fields combine
// by logical AND.
type Filter struct {
	// Difficulty bounds the difficulty score.
	Difficulty *Range `json:"difficulty,omitempty"`
	// Grades, if non-empty, keeps routes whose grade is listed.
	Grades []string `json:"grades,omitempty"`
	// Angles, if non-empty, keeps routes set at a listed angle.
	Angles []int `json:"angles,omitempty"`
	// AngleRange bounds the board angle.
	AngleRange *Range `json:"angle_range,omitempty"`
	// MinAscents keeps routes with at least this many ascents.
	MinAscents int `json:"min_ascents,omitempty"`
}

// Validate reports whether the filter is well formed.
func (f Filter) Validate() error {
	if f.Difficulty != nil {
		if err := f.Difficulty.validate("difficulty"); err != nil {
			return err
		}
	}
	if f.AngleRange != nil {
		if err := f.AngleRange.validate("angle"); err != nil {
			return err
		}
	}
	if f.MinAscents < 0 {
		return fmt.Errorf("%w: negative minimum ascents %d", ErrInvalidFilter, f.MinAscents)
	}
	return nil
}

// Predicates returns the filter as a list of predicates.
func (f Filter) Predicates() []Predicate {
	var preds []Predicate
	if f.Difficulty != nil {
		preds = append(preds, DifficultyBetween(*f.Difficulty))
	}
	if len(f.Grades) > 0 {
		preds = append(preds, GradeIn(f.Grades))
	}
	if len(f.Angles) > 0 {
		preds = append(preds, AngleIn(f.Angles))
	}
	if f.AngleRange != nil {
		preds = append(preds, AngleBetween(*f.AngleRange))
	}
	if f.MinAscents > 0 {
		preds = append(preds, MinAscents(f.MinAscents))
	}
	return preds
}

// Match reports whether r passes every predicate of the filter.
func (f Filter) Match(r *model.Route) bool {
	for _, p := range f.Predicates() {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

// Predicate is one filter dimension.
type Predicate interface {
	// Match evaluates the predicate against a single route.
	Match(r *model.Route) bool
	// bitmap evaluates the predicate against every row of an index.
	bitmap(ix *index) *roaring.Bitmap
}

// DifficultyBetween keeps routes whose difficulty lies in the range.
type DifficultyBetween Range

func (p DifficultyBetween) Match(r *model.Route) bool { return Range(p).contains(r.Difficulty) }

func (p DifficultyBetween) bitmap(ix *index) *roaring.Bitmap {
	return ix.difficulty.between(p.Min, p.Max)
}

// GradeIn keeps routes whose grade is listed.
type GradeIn []string

func (p GradeIn) Match(r *model.Route) bool { return slices.Contains(p, r.Grade) }

func (p GradeIn) bitmap(ix *index) *roaring.Bitmap { return union(ix.grades, p) }

// AngleIn keeps routes set at a listed angle.
type AngleIn []int

func (p AngleIn) Match(r *model.Route) bool { return slices.Contains(p, r.Angle) }

func (p AngleIn) bitmap(ix *index) *roaring.Bitmap { return union(ix.angles, p) }

// AngleBetween keeps routes whose angle lies in the range.
type AngleBetween Range

func (p AngleBetween) Match(r *model.Route) bool { return Range(p).contains(float64(r.Angle)) }

func (p AngleBetween) bitmap(ix *index) *roaring.Bitmap {
	return ix.angle.between(p.Min, p.Max)
}

// MinAscents keeps routes with at least this many ascents.
type MinAscents int

func (p MinAscents) Match(r *model.Route) bool { return r.Ascents >= int(p) }

func (p MinAscents) bitmap(ix *index) *roaring.Bitmap {
	return ix.ascents.between(float64(p), math.Inf(1))
}
