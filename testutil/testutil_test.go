package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, a, rng.Intn(1000))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestUnitVectors(t *testing.T) {
	v := NewRNG(4711).UnitVectors(8, 32)
	require.Len(t, v, 8)
	for _, vec := range v {
		var norm float64
		for _, x := range vec {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, norm, 1e-5)
	}
}

func TestDataset_Deterministic(t *testing.T) {
	cfg := DatasetConfig{Routes: 50, Layouts: 4, Dim: 6, Seed: 3}
	a := Dataset(cfg)
	b := Dataset(cfg)
	assert.Equal(t, a, b)
	assert.Len(t, a.Routes, 50)
	assert.Len(t, a.Layouts, 4)
	assert.Len(t, a.Holds, 50*4)
}

func TestScenarioDataset(t *testing.T) {
	ds := ScenarioDataset()
	require.Len(t, ds.Routes, 100)
	require.Len(t, ds.Layouts, 10)

	layouts := map[int64]bool{}
	count := 0
	for _, r := range ds.Routes {
		if r.Difficulty >= 15 {
			count++
			layouts[r.LayoutID] = true
		}
	}
	assert.Equal(t, 40, count)
	assert.Len(t, layouts, 3)
}

func TestPackage_Valid(t *testing.T) {
	p := Package(DatasetConfig{Routes: 30, Layouts: 3, Seed: 1})
	require.NoError(t, p.Validate())
	assert.Equal(t, 9.0, p.Routes[29].Projected.X)
	assert.Equal(t, 2.0, p.Routes[29].Projected.Y)
}
