package model

import (
	"fmt"
	"slices"
	"time"
)

// SchemaVersion is the package schema version written by this module.
const SchemaVersion = 2

// Point is a 2D coordinate, either in projection space or on a board.
type Point struct {
	X float64
	Y float64
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// HoldRole is the function a hold serves on a route.
type HoldRole uint8

const (
	RoleStart HoldRole = iota + 1
	RoleHand
	RoleFoot
	RoleFinish
)

// Roles lists every valid role in render order.
var Roles = []HoldRole{RoleStart, RoleHand, RoleFinish, RoleFoot}

func (r HoldRole) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleHand:
		return "hand"
	case RoleFoot:
		return "foot"
	case RoleFinish:
		return "finish"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r HoldRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid hold role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *HoldRole) UnmarshalText(text []byte) error {
	role, err := ParseHoldRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Valid reports whether r is one of the enumerated roles.
func (r HoldRole) Valid() bool {
	return r >= RoleStart && r <= RoleFinish
}

// ParseHoldRole parses the lower-case role name used by the source dataset.
func ParseHoldRole(s string) (HoldRole, error) {
	switch s {
	case "start":
		return RoleStart, nil
	case "hand":
		return RoleHand, nil
	case "foot":
		return RoleFoot, nil
	case "finish":
		return RoleFinish, nil
	default:
		return 0, fmt.Errorf("unknown hold role %q", s)
	}
}

// Route is one climbing problem.
type Route struct {
	ID         string
	Name       string
	Grade      string
	Difficulty float64
	Angle      int
	Quality    float64
	Ascents    int
	LayoutID   int64

	// Embedding is the high-dimensional route vector the projection is computed from.
	Embedding []float32
	// Projected is the 2D coordinate assigned by the projector.
	Projected Point
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	r.Embedding = slices.Clone(r.Embedding)
	return r
}

// Hold is a single grip position belonging to a route.
type Hold struct {
	RouteID string
	Pos     Point
	Role    HoldRole
}

// BoardLayout is a physical board configuration.
type BoardLayout struct {
	ID       int64
	Name     string
	Width    float64
	Height   float64
	ImageRef string
	// Holes are every hole position on the board, drawn behind a route's holds.
	Holes []Point
}

// Clone returns a deep copy of the layout.
func (l BoardLayout) Clone() BoardLayout {
	l.Holes = slices.Clone(l.Holes)
	return l
}

// ProjectionParams records the projector configuration a package was built with.
type ProjectionParams struct {
	NNeighbors int     `json:"n_neighbors"`
	MinDist    float64 `json:"min_dist"`
	Spread     float64 `json:"spread"`
	Epochs     int     `json:"epochs"`
	Seed       int64   `json:"seed"`
	Metric     string  `json:"metric"`
}

// PackageInfo describes how a package was produced.
type PackageInfo struct {
	RequestedThreshold float64          `json:"requested_threshold"`
	EffectiveThreshold float64          `json:"effective_threshold"`
	SizeBudget         int64            `json:"size_budget,omitempty"`
	SourceRoutes       int              `json:"source_routes"`
	SourceHolds        int              `json:"source_holds"`
	SourceLayouts      int              `json:"source_layouts"`
	Projection         ProjectionParams `json:"projection"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Package is the immutable, referentially consistent bundle consumed by the explorer.
//
// Routes are ordered by ID, holds are grouped by route in route order and
// layouts are ordered by ID.
type Package struct {
	SchemaVersion int
	Info          *PackageInfo
	Routes        []Route
	Holds         []Hold
	Layouts       []BoardLayout
}

// Dataset is the full source data before reduction.
type Dataset struct {
	Routes  []Route
	Holds   []Hold
	Layouts []BoardLayout
}
