// Package testutil provides deterministic fixtures for boardmap tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Vectors
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.ClusteredVectors(100, 16, 4, 0.05)
//
// # Synthetic Boards
//
//	ds := testutil.Dataset(testutil.DatasetConfig{Routes: 200, Layouts: 5, Dim: 8, Seed: 1})
//	ds := testutil.ScenarioDataset() // 100 routes, 40 of them at difficulty >= 15 on 3 layouts
package testutil
