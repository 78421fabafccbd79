package explorer

import (
	"fmt"
	"slices"
	"strings"
)

// EventKind identifies a user interaction.
type EventKind uint8

const (
	EventSelect EventKind = iota + 1
	EventFilterChange
	EventSearch
	EventClearSelection
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventFilterChange:
		return "filter_change"
	case EventSearch:
		return "search"
	case EventClearSelection:
		return "clear_selection"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Event is one user interaction. Only the field matching Kind is read.
type Event struct {
	Kind   EventKind
	Point  Pixel  // EventSelect
	Filter Filter // EventFilterChange
	Query  string // EventSearch
}

// State is the explorer's view state. Values are replaced, never mutated,
// by Dispatch.
type State struct {
	Filter  Filter
	Visible []VisibleRoute
	// Selected is the selected route ID, or "" for none. It is always an
	// element of Visible.
	Selected string
}

// NewState returns the initial state: no filter, every route visible and
// nothing selected.
func NewState(s *Session) State {
	return State{Visible: s.ApplyFilter(Filter{})}
}

// Dispatch applies ev to st. On error st is returned unchanged.
func Dispatch(s *Session, vp Viewport, st State, ev Event) (State, error) {
	switch ev.Kind {
	case EventSelect:
		id, _ := s.ResolveSelection(st.Visible, vp, ev.Point)
		st.Selected = id
	case EventFilterChange:
		if err := ev.Filter.Validate(); err != nil {
			return st, err
		}
		st.Filter = ev.Filter
		st.Visible = s.ApplyFilter(ev.Filter)
		if !isVisible(st.Visible, st.Selected) {
			st.Selected = ""
		}
	case EventSearch:
		id, _ := SearchByName(st.Visible, ev.Query)
		st.Selected = id
	case EventClearSelection:
		st.Selected = ""
	default:
		return st, fmt.Errorf("unknown event kind %s", ev.Kind)
	}
	return st, nil
}

func isVisible(visible []VisibleRoute, id string) bool {
	if id == "" {
		return false
	}
	_, found := slices.BinarySearchFunc(visible, id, func(v VisibleRoute, id string) int {
		return strings.Compare(v.ID, id)
	})
	return found
}
