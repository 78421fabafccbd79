// Package model defines the core types shared by every boardmap component.
//
// # Records
//
//   - Route: one climbing problem with grade, difficulty, embedding and projection
//   - Hold: one grip position of a route, tagged with a HoldRole
//   - BoardLayout: the physical board a route is set on, with its hole geometry
//
// # Bundles
//
//   - Dataset: the full, unreduced input read from the source files
//   - Package: the reduced, referentially consistent and versioned bundle the
//     explorer loads
//
// # Errors
//
// The error taxonomy lives here so that every component (extractor, projector,
// codec, explorer) reports the same typed failures. Each error type matches its
// sentinel through errors.Is:
//
//	var se *model.SizeBudgetExceededError
//	if errors.As(err, &se) {
//	    fmt.Println("smallest package:", se.SmallestSize)
//	}
//	if errors.Is(err, model.ErrCorruptPackage) { ... }
package model
