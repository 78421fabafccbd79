package projection

import (
	"context"
	"fmt"

	"github.com/hupe1980/boardmap/distance"
	"github.com/hupe1980/boardmap/internal/resource"
	"golang.org/x/sync/errgroup"
)

// knnChunk is the number of rows a worker processes per task.
const knnChunk = 64

// neighbors holds the k nearest neighbors of every row, ascending by distance.
type neighbors struct {
	n, k  int
	idx   []int32   // n*k
	dist  []float64 // n*k
	rc    *resource.Controller
	bytes int64
}

func (nb *neighbors) row(i int) ([]int32, []float64) {
	return nb.idx[i*nb.k : (i+1)*nb.k], nb.dist[i*nb.k : (i+1)*nb.k]
}

func (nb *neighbors) release() {
	nb.rc.ReleaseMemory(nb.bytes)
	nb.bytes = 0
}

// exactKNN computes exact neighbors by brute force. Each row excludes itself,
// and equal distances are ordered by neighbor index.
func exactKNN(ctx context.Context, vectors [][]float32, k int, fn distance.Func, workers int, rc *resource.Controller) (*neighbors, error) {
	n := len(vectors)
	bytes := int64(n) * int64(k) * (4 + 8)
	if err := rc.AcquireMemory(bytes); err != nil {
		return nil, fmt.Errorf("neighbor table of %d bytes: %w", bytes, err)
	}

	nb := &neighbors{
		n:     n,
		k:     k,
		idx:   make([]int32, n*k),
		dist:  make([]float64, n*k),
		rc:    rc,
		bytes: bytes,
	}

	if lim := rc.MaxWorkers(); lim > 0 && lim < workers {
		workers = lim
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for lo := 0; lo < n; lo += knnChunk {
		hi := min(lo+knnChunk, n)
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				idx, dist := nb.row(i)
				nearest(vectors, i, fn, idx, dist)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		nb.release()
		return nil, err
	}
	return nb, nil
}

// nearest fills idx/dist with the len(idx) nearest rows to row i by insertion
// into a bounded sorted list.
func nearest(vectors [][]float32, i int, fn distance.Func, idx []int32, dist []float64) {
	k := len(idx)
	size := 0
	q := vectors[i]

	for j := range vectors {
		if j == i {
			continue
		}
		d := fn(q, vectors[j])
		if size == k && !less(d, int32(j), dist[k-1], idx[k-1]) {
			continue
		}

		pos := size
		if size < k {
			size++
		} else {
			pos = k - 1
		}
		for pos > 0 && less(d, int32(j), dist[pos-1], idx[pos-1]) {
			dist[pos] = dist[pos-1]
			idx[pos] = idx[pos-1]
			pos--
		}
		dist[pos] = d
		idx[pos] = int32(j)
	}
}

func less(d1 float64, i1 int32, d2 float64, i2 int32) bool {
	if d1 != d2 {
		return d1 < d2
	}
	return i1 < i2
}
