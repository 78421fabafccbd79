package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG is a seeded random source for fixtures. It is safe for concurrent use;
// draws are serialized so a seed always yields the same sequence.
type RNG struct {
	mu   sync.Mutex
	seed int64
	src  *rand.Rand
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 { return r.seed }

// Reset rewinds the sequence to its start.
func (r *RNG) Reset() {
	r.with(func(src *rand.Rand) { src.Seed(r.seed) })
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) (v int) {
	r.with(func(src *rand.Rand) { v = src.Intn(n) })
	return v
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() (v float64) {
	r.with(func(src *rand.Rand) { v = src.Float64() })
	return v
}

func (r *RNG) with(fn func(src *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.src)
}

// matrix returns n rows of dim columns sharing one backing array.
func matrix(n, dim int) [][]float32 {
	data := make([]float32, n*dim)
	rows := make([][]float32, n)
	for i := range rows {
		rows[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return rows
}

// GaussianVectors returns n embeddings with standard normal components.
func (r *RNG) GaussianVectors(n, dim int) [][]float32 {
	rows := matrix(n, dim)
	r.with(func(src *rand.Rand) {
		for _, row := range rows {
			for j := range row {
				row[j] = float32(src.NormFloat64())
			}
		}
	})
	return rows
}

// UnitVectors returns n embeddings of unit L2 norm.
func (r *RNG) UnitVectors(n, dim int) [][]float32 {
	rows := r.GaussianVectors(n, dim)
	for _, row := range rows {
		var sq float64
		for _, v := range row {
			sq += float64(v) * float64(v)
		}
		if sq == 0 {
			continue
		}
		inv := float32(1 / math.Sqrt(sq))
		for j := range row {
			row[j] *= inv
		}
	}
	return rows
}

// ClusteredVectors returns n embeddings scattered with the given spread
// around random unit centroids. Row i belongs to cluster i % clusters, which
// gives a projection visible structure to preserve.
func (r *RNG) ClusteredVectors(n, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UnitVectors(clusters, dim)
	rows := matrix(n, dim)
	r.with(func(src *rand.Rand) {
		for i, row := range rows {
			c := centroids[i%clusters]
			for j := range row {
				row[j] = c[j] + float32(src.NormFloat64())*spread
			}
		}
	})
	return rows
}
