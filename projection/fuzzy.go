package projection

import (
	"cmp"
	"math"
	"slices"
)

const (
	smoothKNNIterations = 64
	smoothKNNTolerance  = 1e-5
	minKDistScale       = 1e-3
)

// graph is a symmetric weighted edge list. Both directions of every edge are
// present, ordered by (head, tail).
type graph struct {
	n      int
	head   []int
	tail   []int
	weight []float64
}

// smoothKNNDist finds, per row, the distance to the nearest neighbor (rho) and
// the bandwidth (sigma) for which the neighbor memberships sum to log2(k+1).
func smoothKNNDist(nb *neighbors) (sigmas, rhos []float64) {
	sigmas = make([]float64, nb.n)
	rhos = make([]float64, nb.n)
	target := math.Log2(float64(nb.k + 1))

	var meanAll float64
	for _, d := range nb.dist {
		meanAll += d
	}
	meanAll /= float64(len(nb.dist))

	for i := 0; i < nb.n; i++ {
		_, dist := nb.row(i)

		var rho float64
		for _, d := range dist {
			if d > 0 {
				rho = d
				break
			}
		}

		lo, hi, mid := 0.0, math.Inf(1), 1.0
		for iter := 0; iter < smoothKNNIterations; iter++ {
			var psum float64
			for _, d := range dist {
				if x := d - rho; x > 0 {
					psum += math.Exp(-x / mid)
				} else {
					psum++
				}
			}
			if math.Abs(psum-target) < smoothKNNTolerance {
				break
			}
			if psum > target {
				hi = mid
				mid = (lo + hi) / 2
			} else {
				lo = mid
				if math.IsInf(hi, 1) {
					mid *= 2
				} else {
					mid = (lo + hi) / 2
				}
			}
		}

		if rho > 0 {
			var meanRow float64
			for _, d := range dist {
				meanRow += d
			}
			meanRow /= float64(len(dist))
			mid = max(mid, minKDistScale*meanRow)
		} else {
			mid = max(mid, minKDistScale*meanAll)
		}

		sigmas[i] = mid
		rhos[i] = rho
	}
	return sigmas, rhos
}

// fuzzyGraph builds the fuzzy-union symmetrized membership graph
// w + wᵀ - w∘wᵀ from the directed neighbor memberships.
func fuzzyGraph(nb *neighbors) *graph {
	sigmas, rhos := smoothKNNDist(nb)

	type key struct{ i, j int }
	directed := make(map[key]float64, nb.n*nb.k)
	for i := 0; i < nb.n; i++ {
		idx, dist := nb.row(i)
		for c, j := range idx {
			w := 1.0
			if x := dist[c] - rhos[i]; x > 0 && sigmas[i] > 0 {
				w = math.Exp(-x / sigmas[i])
			}
			directed[key{i, int(j)}] = w
		}
	}

	type edge struct {
		i, j int
		w    float64
	}
	edges := make([]edge, 0, 2*len(directed))
	for kk, w := range directed {
		wt := directed[key{kk.j, kk.i}]
		p := w + wt - w*wt
		edges = append(edges, edge{kk.i, kk.j, p})
		if _, ok := directed[key{kk.j, kk.i}]; !ok {
			edges = append(edges, edge{kk.j, kk.i, p})
		}
	}
	slices.SortFunc(edges, func(a, b edge) int {
		if c := cmp.Compare(a.i, b.i); c != 0 {
			return c
		}
		return cmp.Compare(a.j, b.j)
	})

	g := &graph{
		n:      nb.n,
		head:   make([]int, 0, len(edges)),
		tail:   make([]int, 0, len(edges)),
		weight: make([]float64, 0, len(edges)),
	}
	for _, e := range edges {
		if e.w <= 0 {
			continue
		}
		g.head = append(g.head, e.i)
		g.tail = append(g.tail, e.j)
		g.weight = append(g.weight, e.w)
	}
	return g
}

// prune drops edges too weak to be sampled even once in the given number of epochs.
func (g *graph) prune(epochs int) {
	if len(g.weight) == 0 || epochs <= 0 {
		return
	}
	maxW := slices.Max(g.weight)
	cut := maxW / float64(epochs)

	keep := 0
	for e := range g.weight {
		if g.weight[e] < cut {
			continue
		}
		g.head[keep] = g.head[e]
		g.tail[keep] = g.tail[e]
		g.weight[keep] = g.weight[e]
		keep++
	}
	g.head = g.head[:keep]
	g.tail = g.tail[:keep]
	g.weight = g.weight[:keep]
}
