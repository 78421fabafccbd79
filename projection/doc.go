// Package projection reduces high-dimensional route embeddings to 2D.
//
// The Projector is a neighborhood-preserving, UMAP-style reduction:
//
//  1. exact k-nearest neighbors, computed in parallel rows
//  2. a fuzzy simplicial set over the neighbor graph (smooth kNN distances,
//     fuzzy-union symmetrization)
//  3. low-dimensional curve parameters fitted from MinDist and Spread
//  4. a principal-component initialization scaled to [-10, 10]
//  5. epoch-sampled SGD with seeded negative sampling
//
// Points that are close in the output are close in embedding space; there is
// no linear, variance-only shortcut.
//
// # Determinism
//
// Identical input and seed produce identical output. Neighbor search runs on
// several goroutines, but every row is computed independently with ties broken
// by index, and the optimization is single-threaded with one seeded RNG, so the
// worker count never changes the result.
//
// # Usage
//
//	p := projection.New(projection.WithSeed(7), projection.WithNeighbors(10))
//	points, err := p.Project(ctx, vectors)
//	if errors.Is(err, model.ErrInsufficientData) { ... }
package projection
