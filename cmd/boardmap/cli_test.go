package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/explorer"
	"github.com/hupe1980/boardmap/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

// buildScenario writes the scenario package and returns its path.
func buildScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath, archivePath := testutil.WriteSources(t, dir, testutil.ScenarioDataset())
	out := filepath.Join(dir, "out", "scenario.bmpk")
	metrics := filepath.Join(dir, "build.prom")

	config := writeFile(t, dir, "boardmap.yaml", fmt.Sprintf(`
dataset: %s
archive: %s
output: %s
threshold: 3
projection:
  epochs: 30
  seed: 3
log:
  level: error
`, dbPath, archivePath, out))

	stdout, err := execute(t, "build", "--config", config, "--threshold", "15", "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, stdout, "routes:    40")
	assert.Contains(t, stdout, "layouts:   3")
	assert.Contains(t, stdout, "threshold: 15\n")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "boardmap_package_routes 40")
	assert.Contains(t, string(prom), `boardmap_build_stage_duration_seconds_count{stage="extract"} 1`)
	return out
}

func inspectJSON(t *testing.T, args ...string) inspectReport {
	t.Helper()
	stdout, err := execute(t, append([]string{"inspect", "--format", "json"}, args...)...)
	require.NoError(t, err)
	var r inspectReport
	require.NoError(t, codec.Default.Unmarshal([]byte(stdout), &r))
	return r
}

func TestCLI_BuildAndInspect(t *testing.T) {
	pkg := buildScenario(t)

	t.Run("summary", func(t *testing.T) {
		stdout, err := execute(t, "inspect", pkg, "--limit", "5")
		require.NoError(t, err)
		assert.Contains(t, stdout, "routes:    40 visible of 40")
		assert.Contains(t, stdout, "route-0000")
		assert.Contains(t, stdout, "... 35 more")
	})

	t.Run("filter", func(t *testing.T) {
		r := inspectJSON(t, pkg, "--grade", "V5")
		assert.Equal(t, 40, r.Total)
		assert.Equal(t, 12, r.Visible)
		assert.Len(t, r.Markers, 12)
		require.NotNil(t, r.Filter)
		assert.Equal(t, []string{"V5"}, r.Filter.Grades)
		require.NotNil(t, r.Info)
		assert.Equal(t, 15.0, r.Info.EffectiveThreshold)
	})

	t.Run("difficulty and ascents", func(t *testing.T) {
		r := inspectJSON(t, pkg, "--min-difficulty", "20", "--min-ascents", "30")
		// Routes 30..39 have ascents >= 30; difficulty 15+i%10 >= 20 keeps 35..39.
		assert.Equal(t, 5, r.Visible)
	})

	t.Run("angle range", func(t *testing.T) {
		r := inspectJSON(t, pkg, "--min-angle", "30", "--max-angle", "40")
		assert.Equal(t, 40, r.Visible)
		require.NotNil(t, r.Filter)
		require.NotNil(t, r.Filter.AngleRange)
		assert.Equal(t, 30.0, r.Filter.AngleRange.Min)
		assert.Equal(t, 40.0, r.Filter.AngleRange.Max)
		assert.Nil(t, r.Filter.Difficulty)

		r = inspectJSON(t, pkg, "--min-angle", "45")
		assert.Equal(t, 0, r.Visible)
		assert.Empty(t, r.Markers)

		_, err := execute(t, "inspect", pkg, "--min-angle", "50", "--max-angle", "10")
		require.ErrorIs(t, err, explorer.ErrInvalidFilter)
	})

	t.Run("search", func(t *testing.T) {
		r := inspectJSON(t, pkg, "--search", "scenario 3")
		assert.Equal(t, "route-0003", r.Selected)
		require.NotNil(t, r.Detail)
		assert.Equal(t, "route-0003", r.Detail.ID)
		assert.NotEmpty(t, r.Detail.Overlay.Groups)
		assert.Equal(t, explorer.ColorSelected, r.Markers[len(r.Markers)-1].Color)
	})

	t.Run("select", func(t *testing.T) {
		all := inspectJSON(t, pkg)
		require.Len(t, all.Markers, 40)
		m := all.Markers[7]

		r := inspectJSON(t, pkg, "--select", fmt.Sprintf("%g,%g", m.X, m.Y))
		require.NotEmpty(t, r.Selected)
		require.NotNil(t, r.Detail)
		assert.Equal(t, r.Selected, r.Detail.ID)
	})

	t.Run("route detail", func(t *testing.T) {
		stdout, err := execute(t, "inspect", pkg, "--route", "route-0012")
		require.NoError(t, err)
		assert.Contains(t, stdout, `Route route-0012 "Scenario 12"`)
		assert.Contains(t, stdout, "start")
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := execute(t, "inspect", pkg, "--route", "nope")
		require.Error(t, err)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := execute(t, "inspect", pkg, "--min-difficulty", "9", "--max-difficulty", "1")
		require.ErrorIs(t, err, explorer.ErrInvalidFilter)
	})

	t.Run("bad select", func(t *testing.T) {
		_, err := execute(t, "inspect", pkg, "--select", "12")
		require.Error(t, err)
	})
}

func TestCLI_BuildErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "build", "--dataset", filepath.Join(dir, "none.db"))
	require.ErrorContains(t, err, "invalid config")

	_, err = execute(t, "build",
		"--dataset", filepath.Join(dir, "none.db"),
		"--archive", filepath.Join(dir, "none.zip"),
		"--out", filepath.Join(dir, "board.bmpk"),
	)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "board.bmpk"))
}

func TestCLI_InspectMissingPackage(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "missing.bmpk"))
	require.Error(t, err)
}

func TestCLI_Version(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "boardmap dev")
	assert.Contains(t, stdout, "Go version:")
}
