// Package distance provides the embedding distance functions used by the projector.
//
// Embeddings are stored as float32 but every function accumulates in float64,
// so neighbor rankings are stable across platforms and vector lengths.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance (default)
//   - MetricCosine: Cosine distance (1 - cosine similarity)
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	fn, _ := distance.Provider(distance.MetricCosine)
package distance
