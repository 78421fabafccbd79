package testutil

import (
	"fmt"

	"github.com/hupe1980/boardmap/model"
)

// DatasetConfig configures a synthetic board dataset.
type DatasetConfig struct {
	Routes        int
	Layouts       int
	Dim           int
	HoldsPerRoute int
	Seed          int64
}

// Dataset generates a deterministic synthetic dataset. Route i is named
// "route-%04d", sits on layout i % Layouts and has difficulty i % 30 with
// grade "V<difficulty/3>". Embeddings cluster by layout.
func Dataset(cfg DatasetConfig) *model.Dataset {
	if cfg.Layouts <= 0 {
		cfg.Layouts = 1
	}
	if cfg.Dim <= 0 {
		cfg.Dim = 8
	}
	if cfg.HoldsPerRoute <= 0 {
		cfg.HoldsPerRoute = 4
	}

	rng := NewRNG(cfg.Seed)
	vectors := rng.ClusteredVectors(cfg.Routes, cfg.Dim, cfg.Layouts, 0.05)

	ds := &model.Dataset{}
	for l := 0; l < cfg.Layouts; l++ {
		ds.Layouts = append(ds.Layouts, Layout(int64(l+1)))
	}
	for i := 0; i < cfg.Routes; i++ {
		difficulty := float64(i % 30)
		ds.Routes = append(ds.Routes, model.Route{
			ID:         RouteID(i),
			Name:       fmt.Sprintf("Problem %d", i),
			Grade:      fmt.Sprintf("V%d", int(difficulty)/3),
			Difficulty: difficulty,
			Angle:      20 + 5*(i%6),
			Quality:    float64(i%5) + 0.5,
			Ascents:    (i * 7) % 120,
			LayoutID:   int64(i%cfg.Layouts + 1),
			Embedding:  vectors[i],
		})
		ds.Holds = append(ds.Holds, Holds(RouteID(i), cfg.HoldsPerRoute, rng)...)
	}
	return ds
}

// ScenarioDataset returns 100 routes over 10 layouts where exactly 40 routes
// have difficulty >= 15, and those 40 reference only layouts 1, 2 and 3.
func ScenarioDataset() *model.Dataset {
	const dim = 8
	rng := NewRNG(15)
	vectors := rng.ClusteredVectors(100, dim, 10, 0.05)

	ds := &model.Dataset{}
	for l := 1; l <= 10; l++ {
		ds.Layouts = append(ds.Layouts, Layout(int64(l)))
	}
	for i := 0; i < 100; i++ {
		var difficulty float64
		var layout int64
		if i < 40 {
			difficulty = 15 + float64(i%10)
			layout = int64(i%3 + 1)
		} else {
			difficulty = float64(i % 15)
			layout = int64(i%10 + 1)
		}
		ds.Routes = append(ds.Routes, model.Route{
			ID:         RouteID(i),
			Name:       fmt.Sprintf("Scenario %d", i),
			Grade:      fmt.Sprintf("V%d", int(difficulty)/3),
			Difficulty: difficulty,
			Angle:      40,
			Quality:    3,
			Ascents:    i,
			LayoutID:   layout,
			Embedding:  vectors[i],
		})
		ds.Holds = append(ds.Holds, Holds(RouteID(i), 3, rng)...)
	}
	return ds
}

// RouteID returns the synthetic id of route i.
func RouteID(i int) string {
	return fmt.Sprintf("route-%04d", i)
}

// Layout returns a synthetic 12x18 board with a 3x4 hole grid.
func Layout(id int64) model.BoardLayout {
	l := model.BoardLayout{
		ID:       id,
		Name:     fmt.Sprintf("Layout %d", id),
		Width:    12,
		Height:   18,
		ImageRef: fmt.Sprintf("boards/layout-%d.png", id),
	}
	for x := 0; x < 3; x++ {
		for y := 0; y < 4; y++ {
			l.Holes = append(l.Holes, model.Point{X: float64(2 + 4*x), Y: float64(2 + 4*y)})
		}
	}
	return l
}

// Holds returns n holds for a route: one start, one finish, the rest hand and foot.
func Holds(routeID string, n int, rng *RNG) []model.Hold {
	holds := make([]model.Hold, 0, n)
	for h := 0; h < n; h++ {
		role := model.RoleHand
		switch {
		case h == 0:
			role = model.RoleStart
		case h == n-1:
			role = model.RoleFinish
		case h%2 == 0:
			role = model.RoleFoot
		}
		holds = append(holds, model.Hold{
			RouteID: routeID,
			Pos:     model.Point{X: float64(rng.Intn(12)), Y: float64(rng.Intn(18))},
			Role:    role,
		})
	}
	return holds
}

// Package turns Dataset(cfg) into a package without running a projector:
// route i is placed on a 10-column grid at (i % 10, i / 10). cfg.Routes must
// be at least cfg.Layouts so every layout is referenced.
func Package(cfg DatasetConfig) *model.Package {
	ds := Dataset(cfg)
	for i := range ds.Routes {
		ds.Routes[i].Projected = model.Point{X: float64(i % 10), Y: float64(i / 10)}
	}
	return &model.Package{
		SchemaVersion: model.SchemaVersion,
		Routes:        ds.Routes,
		Holds:         ds.Holds,
		Layouts:       ds.Layouts,
	}
}
