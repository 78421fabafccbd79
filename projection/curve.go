package projection

import "math"

const (
	curveSamples    = 300
	curveIterations = 200
)

// fitCurve finds a and b such that 1/(1+a*x^(2b)) approximates the target
// membership curve: 1 below minDist, exp(-(x-minDist)/spread) above it.
// It runs a damped Gauss-Newton (Levenberg-Marquardt) fit from a=1, b=1.
func fitCurve(spread, minDist float64) (a, b float64) {
	xs := make([]float64, curveSamples)
	ys := make([]float64, curveSamples)
	step := 3 * spread / float64(curveSamples-1)
	for i := range xs {
		x := float64(i) * step
		xs[i] = x
		if x < minDist {
			ys[i] = 1
		} else {
			ys[i] = math.Exp(-(x - minDist) / spread)
		}
	}

	sse := func(a, b float64) float64 {
		var s float64
		for i, x := range xs {
			r := 1/(1+a*math.Pow(x, 2*b)) - ys[i]
			s += r * r
		}
		return s
	}

	a, b = 1, 1
	lambda := 1e-3
	cur := sse(a, b)

	for iter := 0; iter < curveIterations; iter++ {
		// Normal equations of the 2-parameter least-squares problem.
		var jaa, jab, jbb, ga, gb float64
		for i, x := range xs {
			if x == 0 {
				continue
			}
			u := math.Pow(x, 2*b)
			den := 1 + a*u
			f := 1 / den
			r := f - ys[i]
			da := -u / (den * den)
			db := -a * u * 2 * math.Log(x) / (den * den)
			jaa += da * da
			jab += da * db
			jbb += db * db
			ga += da * r
			gb += db * r
		}

		improved := false
		for tries := 0; tries < 10; tries++ {
			maa := jaa * (1 + lambda)
			mbb := jbb * (1 + lambda)
			det := maa*mbb - jab*jab
			if det == 0 {
				lambda *= 10
				continue
			}
			stepA := -(mbb*ga - jab*gb) / det
			stepB := -(maa*gb - jab*ga) / det

			na, nb := a+stepA, b+stepB
			if na <= 0 || nb <= 0 {
				lambda *= 10
				continue
			}
			if next := sse(na, nb); next < cur {
				converged := cur-next < 1e-14
				a, b, cur = na, nb, next
				lambda = max(lambda/10, 1e-12)
				improved = true
				if converged {
					return a, b
				}
				break
			}
			lambda *= 10
		}
		if !improved {
			break
		}
	}
	return a, b
}
