package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/boardmap"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromCollector(t *testing.T) {
	c := newPromCollector()

	c.RecordStage(boardmap.StageExtract, 20*time.Millisecond, nil)
	c.RecordStage(boardmap.StageStore, time.Millisecond, errors.New("boom"))
	c.RecordPackage(40, 12_345, 18)
	c.OnLoad(12_345, false, time.Millisecond, nil)
	c.OnLoad(12_345, true, 0, nil)
	c.OnLoad(3, false, 0, errors.New("corrupt"))
	c.OnFilter(12, 40, time.Microsecond)
	c.OnSelect(true)
	c.OnSelect(false)
	c.OnSelect(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.stageErrors.WithLabelValues("store")))
	assert.Zero(t, testutil.ToFloat64(c.stageErrors.WithLabelValues("extract")))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.packageRoutes))
	assert.Equal(t, 12345.0, testutil.ToFloat64(c.packageBytes))
	assert.Equal(t, 18.0, testutil.ToFloat64(c.threshold))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("true", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("false", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filters))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.selects.WithLabelValues("false")))

	assert.Equal(t, 2, testutil.CollectAndCount(c.stageDuration))
	require.NoError(t, testutil.CollectAndCompare(c.packageRoutes, strings.NewReader(`
# HELP boardmap_package_routes Routes in the last written package.
# TYPE boardmap_package_routes gauge
boardmap_package_routes 40
`)))
}

func TestPromCollector_WriteTextfile(t *testing.T) {
	c := newPromCollector()
	c.RecordPackage(3, 100, 1)

	path := filepath.Join(t.TempDir(), "boardmap.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boardmap_package_bytes 100")
}
