package cache

import (
	"testing"

	"github.com/hupe1980/boardmap/internal/resource"
	"github.com/stretchr/testify/assert"
)

func TestLRU(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU[string, int](50, rc) // Cache limit 50, Global limit 100

	assert.True(t, c.Set("a", 1, 20))
	assert.True(t, c.Set("b", 2, 20))
	assert.Equal(t, int64(40), c.Size())
	assert.Equal(t, int64(40), rc.MemoryUsage())

	// Touch a so b becomes the eviction candidate.
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, c.Set("c", 3, 20))
	_, ok = c.Get("b")
	assert.False(t, ok, "b should be evicted")
	assert.Equal(t, int64(40), c.Size())
	assert.Equal(t, int64(40), rc.MemoryUsage())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestLRU_EdgeCases(t *testing.T) {
	t.Run("larger than capacity", func(t *testing.T) {
		c := NewLRU[string, int](50, nil)
		assert.False(t, c.Set("k", 1, 60))
		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("replace updates cost", func(t *testing.T) {
		c := NewLRU[string, int](50, nil)
		c.Set("k", 1, 10)
		c.Set("k", 2, 30)
		assert.Equal(t, int64(30), c.Size())
		assert.Equal(t, 1, c.Len())
		v, _ := c.Get("k")
		assert.Equal(t, 2, v)

		c.Remove("k")
		assert.Equal(t, int64(0), c.Size())
	})

	t.Run("controller refuses", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
		c := NewLRU[string, int](50, rc)
		assert.True(t, c.Set("a", 1, 8))
		assert.False(t, c.Set("b", 2, 8))
		assert.Equal(t, int64(8), rc.MemoryUsage())
		_, ok := c.Get("b")
		assert.False(t, ok)
	})
}
