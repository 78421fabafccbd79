package explorer

import (
	"math"
	"testing"

	"github.com/hupe1980/boardmap/model"
	"github.com/hupe1980/boardmap/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatter(t *testing.T) {
	s := newTestSession(t)
	vp := s.Viewport(1000, 600)
	st := NewState(s)

	t.Run("colored by difficulty", func(t *testing.T) {
		markers := Scatter(st, vp)
		require.Len(t, markers, 60)
		for i, m := range markers {
			assert.Equal(t, st.Visible[i].ID, m.RouteID)
			assert.Equal(t, float64(SizeDefault), m.Size)
			assert.Regexp(t, `^#[0-9a-f]{6}$`, m.Color)
		}
		// route-0000 has the lowest difficulty, route-0029 the highest.
		assert.Equal(t, Viridis(0), markers[0].Color)
		assert.Equal(t, Viridis(1), markers[29].Color)
	})

	t.Run("selection highlighted", func(t *testing.T) {
		sel := st
		sel.Selected = testutil.RouteID(7)
		markers := Scatter(sel, vp)
		require.Len(t, markers, 60)

		last := markers[len(markers)-1]
		assert.Equal(t, testutil.RouteID(7), last.RouteID)
		assert.Equal(t, ColorSelected, last.Color)
		assert.Equal(t, float64(SizeSelected), last.Size)
		for _, m := range markers[:len(markers)-1] {
			assert.Equal(t, ColorMuted, m.Color)
			assert.Equal(t, float64(SizeDefault), m.Size)
		}
	})

	t.Run("pixel stable across filters", func(t *testing.T) {
		all := Scatter(st, vp)
		filtered, err := Dispatch(s, vp, st, Event{Kind: EventFilterChange, Filter: Filter{Angles: []int{20}}})
		require.NoError(t, err)
		pos := map[string][2]float64{}
		for _, m := range all {
			pos[m.RouteID] = [2]float64{m.X, m.Y}
		}
		for _, m := range Scatter(filtered, vp) {
			assert.Equal(t, pos[m.RouteID], [2]float64{m.X, m.Y})
		}
		assert.Equal(t, Scatter(filtered, vp), Scatter(filtered, vp))
	})

	t.Run("single difficulty", func(t *testing.T) {
		one := State{Visible: st.Visible[:1]}
		assert.Equal(t, Viridis(0.5), Scatter(one, vp)[0].Color)
	})
}

func TestNewOverlay(t *testing.T) {
	s := newTestSession(t)
	d, err := s.RouteDetail(testutil.RouteID(3))
	require.NoError(t, err)

	o := NewOverlay(d)
	assert.Equal(t, 12.0, o.Width)
	assert.Equal(t, 18.0, o.Height)
	assert.Len(t, o.Holes, 12)

	require.Len(t, o.Groups, 4)
	roles := make([]model.HoldRole, len(o.Groups))
	for i, g := range o.Groups {
		roles[i] = g.Role
		assert.Equal(t, RoleColors[g.Role], g.Color)
		assert.Len(t, g.Points, 1)
	}
	assert.Equal(t, []model.HoldRole{model.RoleStart, model.RoleHand, model.RoleFinish, model.RoleFoot}, roles)
	assert.Equal(t, "green", o.Groups[0].Color)
}

func TestViridis(t *testing.T) {
	assert.Equal(t, "#440154", Viridis(0))
	assert.Equal(t, "#fde725", Viridis(1))
	assert.Equal(t, "#440154", Viridis(-3))
	assert.Equal(t, "#fde725", Viridis(7))
	assert.Equal(t, "#440154", Viridis(math.NaN()))
	assert.Equal(t, "#26828e", Viridis(4.0/9.0))
}
