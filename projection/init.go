package projection

import (
	"math"
	"math/rand"
)

const (
	initScale          = 10.0
	initNoise          = 1e-4
	powerIterations    = 200
	powerIterationTol  = 1e-12
	degenerateVariance = 1e-12
)

// initialLayout places points on the first two principal components of the
// input, scaled to [-10, 10] with a little seeded noise to break exact ties.
// An axis without variance falls back to seeded uniform coordinates.
//
// The returned slice is row-major: x0, y0, x1, y1, ...
func initialLayout(vectors [][]float32, rng *rand.Rand) []float64 {
	n := len(vectors)
	dim := len(vectors[0])

	centered := make([][]float64, n)
	mean := make([]float64, dim)
	for _, v := range vectors {
		for j, x := range v {
			mean[j] += float64(x)
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	for i, v := range vectors {
		row := make([]float64, dim)
		for j, x := range v {
			row[j] = float64(x) - mean[j]
		}
		centered[i] = row
	}

	emb := make([]float64, 2*n)
	var comps [][]float64
	for axis := 0; axis < 2; axis++ {
		comp, ok := principalComponent(centered, comps)
		coords := make([]float64, n)
		var maxAbs float64
		if ok {
			comps = append(comps, comp)
			for i, row := range centered {
				coords[i] = dot(row, comp)
				maxAbs = max(maxAbs, math.Abs(coords[i]))
			}
		}

		if maxAbs < degenerateVariance {
			for i := range coords {
				emb[2*i+axis] = rng.Float64()*2*initScale - initScale
			}
			continue
		}
		scale := initScale / maxAbs
		for i := range coords {
			emb[2*i+axis] = coords[i]*scale + rng.NormFloat64()*initNoise
		}
	}
	return emb
}

// principalComponent runs power iteration on XᵀX, deflated against the
// previously found components. The start vector is fixed, so the result is
// deterministic; the sign is chosen so the component sums to a non-negative value.
func principalComponent(x [][]float64, prev [][]float64) ([]float64, bool) {
	dim := len(x[0])
	v := make([]float64, dim)
	for j := range v {
		v[j] = 1 + float64(j)/float64(dim)
	}
	orthogonalize(v, prev)
	if !normalize(v) {
		return nil, false
	}

	xv := make([]float64, len(x))
	for iter := 0; iter < powerIterations; iter++ {
		for i, row := range x {
			xv[i] = dot(row, v)
		}
		w := make([]float64, dim)
		for i, row := range x {
			for j := range row {
				w[j] += row[j] * xv[i]
			}
		}
		orthogonalize(w, prev)
		if !normalize(w) {
			return nil, false
		}

		var delta float64
		for j := range w {
			d := w[j] - v[j]
			delta += d * d
		}
		v = w
		if delta < powerIterationTol {
			break
		}
	}

	var sum float64
	for _, c := range v {
		sum += c
	}
	if sum < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
	return v, true
}

func orthogonalize(v []float64, basis [][]float64) {
	for _, b := range basis {
		p := dot(v, b)
		for j := range v {
			v[j] -= p * b[j]
		}
	}
}

func normalize(v []float64) bool {
	n := math.Sqrt(dot(v, v))
	if n < degenerateVariance {
		return false
	}
	for j := range v {
		v[j] /= n
	}
	return true
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
