package explorer

import (
	"fmt"
	"math"

	"github.com/hupe1980/boardmap/model"
)

// Marker colors and sizes of the scatter and overlay views.
const (
	ColorSelected = "red"
	ColorMuted    = "lightgray"

	SizeDefault  = 5
	SizeSelected = 10
	SizeHold     = 12
	SizeHole     = 3

	OpacityMuted = 0.5
	OpacityHole  = 0.3
)

// RoleColors are the overlay colors per hold role.
var RoleColors = map[model.HoldRole]string{
	model.RoleStart:  "green",
	model.RoleHand:   "cyan",
	model.RoleFinish: "magenta",
	model.RoleFoot:   "orange",
}

// Marker is one drawable point.
type Marker struct {
	RouteID string  `json:"route_id,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// Scatter returns one marker per visible route in pixel space.
//
// Without a selection, markers are colored by difficulty on the viridis
// scale spanning the visible difficulties. With one, the selected route is
// drawn last in red at SizeSelected and every other route is muted.
func Scatter(st State, vp Viewport) []Marker {
	markers := make([]Marker, 0, len(st.Visible))
	selected := isVisible(st.Visible, st.Selected)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range st.Visible {
		lo = min(lo, st.Visible[i].Difficulty)
		hi = max(hi, st.Visible[i].Difficulty)
	}

	var last *Marker
	for i := range st.Visible {
		v := &st.Visible[i]
		px := vp.ToPixel(v.Point)
		m := Marker{RouteID: v.ID, X: px.X, Y: px.Y, Size: SizeDefault, Opacity: 1}
		switch {
		case !selected:
			m.Color = Viridis(normalize(v.Difficulty, lo, hi))
		case v.ID == st.Selected:
			m.Color = ColorSelected
			m.Size = SizeSelected
			last = &m
			continue
		default:
			m.Color = ColorMuted
			m.Opacity = OpacityMuted
		}
		markers = append(markers, m)
	}
	if last != nil {
		markers = append(markers, *last)
	}
	return markers
}

func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// HoldGroup is the holds of one role.
type HoldGroup struct {
	Role   model.HoldRole `json:"role"`
	Color  string         `json:"color"`
	Points []model.Point  `json:"points"`
}

// Overlay is a route drawn on its board, in board coordinates.
type Overlay struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Holes  []Marker    `json:"holes"`
	Groups []HoldGroup `json:"groups"`
}

// NewOverlay draws the route of d over its layout's holes. Groups follow
// model.Roles order and empty roles are omitted.
func NewOverlay(d *RouteDetail) Overlay {
	o := Overlay{
		Width:  d.Layout.Width,
		Height: d.Layout.Height,
		Holes:  make([]Marker, 0, len(d.Layout.Holes)),
	}
	for _, h := range d.Layout.Holes {
		o.Holes = append(o.Holes, Marker{X: h.X, Y: h.Y, Color: ColorMuted, Size: SizeHole, Opacity: OpacityHole})
	}
	for _, role := range model.Roles {
		var pts []model.Point
		for _, h := range d.Holds {
			if h.Role == role {
				pts = append(pts, h.Pos)
			}
		}
		if len(pts) > 0 {
			o.Groups = append(o.Groups, HoldGroup{Role: role, Color: RoleColors[role], Points: pts})
		}
	}
	return o
}

// viridis holds the color stops of the viridis scale at equal spacing.
var viridis = [...][3]uint8{
	{0x44, 0x01, 0x54},
	{0x48, 0x28, 0x78},
	{0x3e, 0x49, 0x89},
	{0x31, 0x68, 0x8e},
	{0x26, 0x82, 0x8e},
	{0x1f, 0x9e, 0x89},
	{0x35, 0xb7, 0x79},
	{0x6e, 0xce, 0x58},
	{0xb5, 0xde, 0x2b},
	{0xfd, 0xe7, 0x25},
}

// Viridis returns the hex color at t in [0, 1] on the viridis scale.
// t is clamped.
func Viridis(t float64) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	t = min(t, 1)

	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		c := viridis[len(viridis)-1]
		return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}
	f := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + f*(float64(y)-float64(x))))
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(a[0], b[0]), lerp(a[1], b[1]), lerp(a[2], b[2]))
}
