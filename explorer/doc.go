// Package explorer answers interactive queries against one loaded package.
//
// A Session is built once from a decoded package and never changes; every
// query derives a fresh view from it, so a Session can be shared between
// goroutines without locking.
//
// # Filtering
//
// Filters combine typed predicates by logical AND. Grade and angle subsets
// are answered from roaring bitmap postings, difficulty, angle and ascents
// ranges from sorted columns:
//
//	visible := sess.ApplyFilter(explorer.Filter{
//	    Difficulty: &explorer.Range{Min: 15, Max: 22},
//	    Angles:     []int{40, 45},
//	})
//
// # Selection
//
// ResolveSelection maps a click in pixel space back to the nearest visible
// route within a tolerance radius. Dispatch folds UI events into a State:
//
//	st := explorer.NewState(sess)
//	st, err := explorer.Dispatch(sess, vp, st, explorer.Event{Kind: explorer.EventSelect, Point: px})
//
// # Loading
//
// Loader decodes package bytes into Sessions and memoizes them by content
// key, so reopening the same bytes returns the same Session.
package explorer
