package explorer

import (
	"slices"

	"github.com/hupe1980/boardmap/model"
)

// RouteDetail is a route with everything needed to draw it on its board.
type RouteDetail struct {
	Route  model.Route
	Holds  []model.Hold
	Layout model.BoardLayout
}

// RouteDetail looks up a route by ID. It fails with *model.NotFoundError if
// the package has no such route, whatever the current filter.
func (s *Session) RouteDetail(id string) (*RouteDetail, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, &model.NotFoundError{RouteID: id}
	}
	r := s.routes[row]
	return &RouteDetail{
		Route:  r.Clone(),
		Holds:  slices.Clone(s.holds[id]),
		Layout: s.layouts[r.LayoutID].Clone(),
	}, nil
}
