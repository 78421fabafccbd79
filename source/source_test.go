package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/model"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `
CREATE TABLE routes (id TEXT PRIMARY KEY, name TEXT, grade TEXT, difficulty REAL, angle INTEGER,
	quality REAL, ascents INTEGER, layout_id INTEGER);
CREATE TABLE holds (route_id TEXT, x REAL, y REAL, role TEXT);
CREATE TABLE layouts (id INTEGER PRIMARY KEY, name TEXT, width REAL, height REAL, image_ref TEXT);
CREATE TABLE layout_holes (layout_id INTEGER, x REAL, y REAL);
`

// writeDataset creates a dataset with routes r0..r(n-1) on layouts 1 and 2.
func writeDataset(t *testing.T, dir string, n int) string {
	t.Helper()

	path := filepath.Join(dir, "boards.db")
	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(schema)
	db.MustExec(`INSERT INTO layouts VALUES (1, 'Original', 12, 12, 'img/1.png'), (2, 'Mini', 8, 10, NULL)`)
	db.MustExec(`INSERT INTO layout_holes VALUES (1, 1, 1), (1, 2, 2), (2, 3, 3)`)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("r%d", i)
		db.MustExec(`INSERT INTO routes VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, fmt.Sprintf("Route %d", i), fmt.Sprintf("V%d", i%10), float64(i), 40, 2.5, i*3, i%2+1)
		db.MustExec(`INSERT INTO holds VALUES (?, 1, 2, 'start'), (?, 3, 4, 'hand'), (?, 5, 6, 'finish')`, id, id, id)
	}
	return path
}

// writeArchive writes embeddings for the given ids.
func writeArchive(t *testing.T, dir string, ids []string, extra ...string) string {
	t.Helper()

	var lines bytes.Buffer
	for i, id := range ids {
		lines.Write(codec.MustMarshal(codec.GoJSON{}, embeddingLine{ID: id, Vector: []float32{float32(i), 1, 2}}))
		lines.WriteByte('\n')
	}
	for _, e := range extra {
		lines.WriteString(e + "\n")
	}

	path := filepath.Join(dir, "results.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(EmbeddingsEntry)
	require.NoError(t, err)
	_, err = w.Write(lines.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	dbPath := writeDataset(t, dir, 6)
	// r5 has no embedding; "ghost" matches no route.
	archive := writeArchive(t, dir, []string{"r0", "r1", "r2", "r3", "r4", "ghost"}, "")

	ds, stats, err := Load(t.Context(), dbPath, archive)
	require.NoError(t, err)

	assert.Equal(t, &Stats{Routes: 5, Holds: 15, Layouts: 2, Skipped: 1, Unmatched: 1}, stats)
	require.Len(t, ds.Routes, 5)
	assert.Equal(t, model.Route{
		ID:         "r1",
		Name:       "Route 1",
		Grade:      "V1",
		Difficulty: 1,
		Angle:      40,
		Quality:    2.5,
		Ascents:    3,
		LayoutID:   2,
		Embedding:  []float32{1, 1, 2},
	}, ds.Routes[1])

	for _, h := range ds.Holds {
		assert.NotEqual(t, "r5", h.RouteID)
	}
	assert.Equal(t, []model.HoldRole{model.RoleStart, model.RoleHand, model.RoleFinish},
		[]model.HoldRole{ds.Holds[0].Role, ds.Holds[1].Role, ds.Holds[2].Role})

	require.Len(t, ds.Layouts, 2)
	assert.Equal(t, []model.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, ds.Layouts[0].Holes)
	assert.Equal(t, "img/1.png", ds.Layouts[0].ImageRef)
	assert.Empty(t, ds.Layouts[1].ImageRef)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := writeDataset(t, dir, 2)
	archive := writeArchive(t, dir, []string{"r0", "r1"})

	_, _, err := Load(t.Context(), filepath.Join(dir, "nope.db"), archive)
	require.ErrorIs(t, err, model.ErrMissingSourceFile)
	require.ErrorIs(t, err, os.ErrNotExist)

	var msf *model.MissingSourceFileError
	require.ErrorAs(t, err, &msf)
	assert.Equal(t, "dataset", msf.Role)

	_, _, err = Load(t.Context(), dbPath, filepath.Join(dir, "nope.zip"))
	require.ErrorAs(t, err, &msf)
	assert.Equal(t, "archive", msf.Role)
}

func TestLoad_ArchiveWithoutEmbeddings(t *testing.T) {
	dir := t.TempDir()
	dbPath := writeDataset(t, dir, 2)

	path := filepath.Join(dir, "empty.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("README.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, _, err = Load(t.Context(), dbPath, path)
	require.ErrorIs(t, err, model.ErrMissingSourceFile)
}

func TestLoad_InvalidRole(t *testing.T) {
	dir := t.TempDir()
	dbPath := writeDataset(t, dir, 1)
	db, err := sqlx.Connect("sqlite", dbPath)
	require.NoError(t, err)
	db.MustExec(`INSERT INTO holds VALUES ('r0', 0, 0, 'knee')`)
	require.NoError(t, db.Close())

	_, _, err = Load(t.Context(), dbPath, writeArchive(t, dir, []string{"r0"}))
	require.ErrorIs(t, err, model.ErrInvalidDataset)
}

func TestDecodeEmbeddings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string][]float32
		wantErr error
	}{
		{
			name:  "valid with blank lines",
			input: `{"id":"a","vector":[1,2]}` + "\n\n" + `{"id":"b","vector":[3,4]}` + "\n",
			want:  map[string][]float32{"a": {1, 2}, "b": {3, 4}},
		},
		{
			name:    "duplicate",
			input:   `{"id":"a","vector":[1]}` + "\n" + `{"id":"a","vector":[2]}`,
			wantErr: model.ErrInvalidDataset,
		},
		{
			name:    "missing id",
			input:   `{"vector":[1]}`,
			wantErr: model.ErrInvalidDataset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEmbeddings(strings.NewReader(tt.input), codec.GoJSON{})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := decodeEmbeddings(strings.NewReader("{not json"), codec.JSON{})
	require.Error(t, err)
}
