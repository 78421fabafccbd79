package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hupe1980/boardmap/model"
	"github.com/jmoiron/sqlx"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

type routeRow struct {
	ID         string          `db:"id"`
	Name       sql.NullString  `db:"name"`
	Grade      sql.NullString  `db:"grade"`
	Difficulty float64         `db:"difficulty"`
	Angle      int             `db:"angle"`
	Quality    sql.NullFloat64 `db:"quality"`
	Ascents    sql.NullInt64   `db:"ascents"`
	LayoutID   int64           `db:"layout_id"`
}

type holdRow struct {
	RouteID string  `db:"route_id"`
	X       float64 `db:"x"`
	Y       float64 `db:"y"`
	Role    string  `db:"role"`
}

type layoutRow struct {
	ID       int64          `db:"id"`
	Name     sql.NullString `db:"name"`
	Width    float64        `db:"width"`
	Height   float64        `db:"height"`
	ImageRef sql.NullString `db:"image_ref"`
}

type holeRow struct {
	LayoutID int64   `db:"layout_id"`
	X        float64 `db:"x"`
	Y        float64 `db:"y"`
}

const (
	selectRoutes = `SELECT id, name, grade, difficulty, angle, quality, ascents, layout_id
		FROM routes ORDER BY id`
	selectHolds   = `SELECT route_id, x, y, role FROM holds ORDER BY rowid`
	selectLayouts = `SELECT id, name, width, height, image_ref FROM layouts ORDER BY id`
	selectHoles   = `SELECT layout_id, x, y FROM layout_holes ORDER BY layout_id, rowid`
	hasTable      = `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
)

// openDataset opens the SQLite dataset read-only.
func openDataset(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	return db, nil
}

// readTables reads routes (without embeddings), holds and layouts.
func readTables(ctx context.Context, db *sqlx.DB) (*model.Dataset, error) {
	var routes []routeRow
	if err := db.SelectContext(ctx, &routes, selectRoutes); err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	var holds []holdRow
	if err := db.SelectContext(ctx, &holds, selectHolds); err != nil {
		return nil, fmt.Errorf("read holds: %w", err)
	}
	var layouts []layoutRow
	if err := db.SelectContext(ctx, &layouts, selectLayouts); err != nil {
		return nil, fmt.Errorf("read layouts: %w", err)
	}

	var holes []holeRow
	var n int
	if err := db.GetContext(ctx, &n, hasTable, "layout_holes"); err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if n > 0 {
		if err := db.SelectContext(ctx, &holes, selectHoles); err != nil {
			return nil, fmt.Errorf("read layout holes: %w", err)
		}
	}

	ds := &model.Dataset{
		Routes:  make([]model.Route, 0, len(routes)),
		Holds:   make([]model.Hold, 0, len(holds)),
		Layouts: make([]model.BoardLayout, 0, len(layouts)),
	}
	for _, r := range routes {
		ds.Routes = append(ds.Routes, model.Route{
			ID:         r.ID,
			Name:       r.Name.String,
			Grade:      r.Grade.String,
			Difficulty: r.Difficulty,
			Angle:      r.Angle,
			Quality:    r.Quality.Float64,
			Ascents:    int(r.Ascents.Int64),
			LayoutID:   r.LayoutID,
		})
	}
	for _, h := range holds {
		role, err := model.ParseHoldRole(h.Role)
		if err != nil {
			return nil, &model.InvalidDatasetError{Reason: err.Error(), RouteID: h.RouteID}
		}
		ds.Holds = append(ds.Holds, model.Hold{
			RouteID: h.RouteID,
			Pos:     model.Point{X: h.X, Y: h.Y},
			Role:    role,
		})
	}

	byLayout := make(map[int64][]model.Point)
	for _, h := range holes {
		byLayout[h.LayoutID] = append(byLayout[h.LayoutID], model.Point{X: h.X, Y: h.Y})
	}
	for _, l := range layouts {
		ds.Layouts = append(ds.Layouts, model.BoardLayout{
			ID:       l.ID,
			Name:     l.Name.String,
			Width:    l.Width,
			Height:   l.Height,
			ImageRef: l.ImageRef.String,
			Holes:    byLayout[l.ID],
		})
	}
	return ds, nil
}
