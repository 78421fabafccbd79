package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/boardmap/internal/conv"
)

// Validate checks the package invariants: unique route ids, no orphan holds,
// valid hold roles, consistent embedding dimension, angle and ascent counts
// that fit their 32-bit columns and a layout set equal to
// the set of layouts referenced by routes.
//
// It returns a plain error describing the first violation; callers decide
// which typed error it becomes.
func (p *Package) Validate() error {
	if p == nil {
		return errors.New("nil package")
	}

	routes := make(map[string]struct{}, len(p.Routes))
	referenced := make(map[int64]struct{})
	dim := -1
	for i := range p.Routes {
		r := &p.Routes[i]
		if r.ID == "" {
			return fmt.Errorf("route at row %d has empty id", i)
		}
		if _, dup := routes[r.ID]; dup {
			return fmt.Errorf("duplicate route id %q", r.ID)
		}
		routes[r.ID] = struct{}{}
		referenced[r.LayoutID] = struct{}{}

		if _, err := conv.IntToInt32(r.Angle); err != nil {
			return fmt.Errorf("route %q angle: %w", r.ID, err)
		}
		if _, err := conv.IntToUint32(r.Ascents); err != nil {
			return fmt.Errorf("route %q ascents: %w", r.ID, err)
		}

		if dim < 0 {
			dim = len(r.Embedding)
		} else if len(r.Embedding) != dim {
			return fmt.Errorf("route %q embedding dimension %d, expected %d", r.ID, len(r.Embedding), dim)
		}
	}

	for i := range p.Holds {
		h := &p.Holds[i]
		if _, ok := routes[h.RouteID]; !ok {
			return fmt.Errorf("hold at row %d references unknown route %q", i, h.RouteID)
		}
		if !h.Role.Valid() {
			return fmt.Errorf("hold at row %d has invalid role %d", i, uint8(h.Role))
		}
	}

	layouts := make(map[int64]struct{}, len(p.Layouts))
	for i := range p.Layouts {
		id := p.Layouts[i].ID
		if _, dup := layouts[id]; dup {
			return fmt.Errorf("duplicate layout id %d", id)
		}
		if _, ok := referenced[id]; !ok {
			return fmt.Errorf("layout %d is not referenced by any route", id)
		}
		layouts[id] = struct{}{}
	}
	for id := range referenced {
		if _, ok := layouts[id]; !ok {
			return fmt.Errorf("layout %d referenced by routes is missing", id)
		}
	}
	return nil
}

// LayoutIDs returns the sorted distinct layout ids referenced by routes.
func LayoutIDs(routes []Route) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for i := range routes {
		if _, ok := seen[routes[i].LayoutID]; ok {
			continue
		}
		seen[routes[i].LayoutID] = struct{}{}
		ids = append(ids, routes[i].LayoutID)
	}
	slices.Sort(ids)
	return ids
}
