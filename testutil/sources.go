package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/boardmap/codec"
	"github.com/hupe1980/boardmap/model"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// SourceSchema is the schema of the source dataset.
const SourceSchema = `
CREATE TABLE routes (id TEXT PRIMARY KEY, name TEXT, grade TEXT, difficulty REAL, angle INTEGER,
	quality REAL, ascents INTEGER, layout_id INTEGER);
CREATE TABLE holds (route_id TEXT, x REAL, y REAL, role TEXT);
CREATE TABLE layouts (id INTEGER PRIMARY KEY, name TEXT, width REAL, height REAL, image_ref TEXT);
CREATE TABLE layout_holes (layout_id INTEGER, x REAL, y REAL);
`

// WriteSources writes ds as a source dataset ("boards.db") and a results
// archive ("results.zip") under dir and returns their paths.
func WriteSources(t testing.TB, dir string, ds *model.Dataset) (datasetPath, archivePath string) {
	t.Helper()

	datasetPath = filepath.Join(dir, "boards.db")
	db, err := sqlx.Connect("sqlite", datasetPath)
	require.NoError(t, err)
	defer db.Close()

	tx := db.MustBegin()
	tx.MustExec(SourceSchema)
	for _, l := range ds.Layouts {
		tx.MustExec(`INSERT INTO layouts VALUES (?, ?, ?, ?, ?)`, l.ID, l.Name, l.Width, l.Height, l.ImageRef)
		for _, h := range l.Holes {
			tx.MustExec(`INSERT INTO layout_holes VALUES (?, ?, ?)`, l.ID, h.X, h.Y)
		}
	}
	for _, r := range ds.Routes {
		tx.MustExec(`INSERT INTO routes VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Grade, r.Difficulty, r.Angle, r.Quality, r.Ascents, r.LayoutID)
	}
	for _, h := range ds.Holds {
		tx.MustExec(`INSERT INTO holds VALUES (?, ?, ?, ?)`, h.RouteID, h.Pos.X, h.Pos.Y, h.Role.String())
	}
	require.NoError(t, tx.Commit())

	type line struct {
		ID     string    `json:"id"`
		Vector []float32 `json:"vector"`
	}
	var lines bytes.Buffer
	for _, r := range ds.Routes {
		lines.Write(codec.MustMarshal(codec.GoJSON{}, line{ID: r.ID, Vector: r.Embedding}))
		lines.WriteByte('\n')
	}

	archivePath = filepath.Join(dir, "results.zip")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("embeddings.jsonl")
	require.NoError(t, err)
	_, err = w.Write(lines.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return datasetPath, archivePath
}
