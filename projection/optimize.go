package projection

import (
	"context"
	"math"
	"math/rand"
)

const gradClip = 4.0

// optimizer runs the epoch-sampled SGD of the layout.
type optimizer struct {
	a, b         float64
	gamma        float64
	learningRate float64
	negRate      int
	epochs       int
	rng          *rand.Rand
}

// run optimizes emb in place. Every edge is sampled proportionally to its
// weight; each positive sample is followed by negRate repulsive samples drawn
// from the seeded RNG.
func (o *optimizer) run(ctx context.Context, emb []float64, g *graph) error {
	nEdges := len(g.weight)
	if nEdges == 0 || o.epochs <= 0 {
		return nil
	}

	var maxW float64
	for _, w := range g.weight {
		maxW = max(maxW, w)
	}

	epochsPerSample := make([]float64, nEdges)
	nextSample := make([]float64, nEdges)
	epochsPerNeg := make([]float64, nEdges)
	nextNeg := make([]float64, nEdges)
	for e, w := range g.weight {
		eps := maxW / w
		epochsPerSample[e] = eps
		nextSample[e] = eps
		if o.negRate > 0 {
			epochsPerNeg[e] = eps / float64(o.negRate)
			nextNeg[e] = epochsPerNeg[e]
		}
	}

	for n := 0; n < o.epochs; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		alpha := o.learningRate * (1 - float64(n)/float64(o.epochs))
		epoch := float64(n)

		for e := 0; e < nEdges; e++ {
			if nextSample[e] > epoch {
				continue
			}
			j, k := g.head[e], g.tail[e]
			o.attract(emb, j, k, alpha)
			nextSample[e] += epochsPerSample[e]

			if o.negRate == 0 {
				continue
			}
			nNeg := int((epoch - nextNeg[e]) / epochsPerNeg[e])
			for p := 0; p < nNeg; p++ {
				other := o.rng.Intn(g.n)
				if other == j {
					continue
				}
				o.repel(emb, j, other, alpha)
			}
			nextNeg[e] += float64(nNeg) * epochsPerNeg[e]
		}
	}
	return nil
}

func (o *optimizer) attract(emb []float64, j, k int, alpha float64) {
	dx := emb[2*j] - emb[2*k]
	dy := emb[2*j+1] - emb[2*k+1]
	d2 := dx*dx + dy*dy

	var coeff float64
	if d2 > 0 {
		coeff = -2 * o.a * o.b * math.Pow(d2, o.b-1) / (o.a*math.Pow(d2, o.b) + 1)
	}

	gx := clip(coeff*dx) * alpha
	gy := clip(coeff*dy) * alpha
	emb[2*j] += gx
	emb[2*j+1] += gy
	emb[2*k] -= gx
	emb[2*k+1] -= gy
}

func (o *optimizer) repel(emb []float64, j, k int, alpha float64) {
	dx := emb[2*j] - emb[2*k]
	dy := emb[2*j+1] - emb[2*k+1]
	d2 := dx*dx + dy*dy

	if d2 <= 0 {
		// Coincident points are pushed apart by the maximum step.
		emb[2*j] += gradClip * alpha
		emb[2*j+1] += gradClip * alpha
		return
	}
	coeff := 2 * o.gamma * o.b / ((0.001 + d2) * (o.a*math.Pow(d2, o.b) + 1))
	emb[2*j] += clip(coeff*dx) * alpha
	emb[2*j+1] += clip(coeff*dy) * alpha
}

func clip(v float64) float64 {
	if v > gradClip {
		return gradClip
	}
	if v < -gradClip {
		return -gradClip
	}
	return v
}
