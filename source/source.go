package source

import (
	"context"
	"os"
	"time"

	"github.com/hupe1980/boardmap/model"
)

// Stats summarizes a load.
type Stats struct {
	Routes    int
	Holds     int
	Layouts   int
	Skipped   int // routes without an embedding
	Unmatched int // embeddings without a route
}

// Load reads the dataset database and the results archive and joins
// embeddings onto routes by id. Holds of skipped routes are dropped with them.
//
// A path that does not exist fails with *model.MissingSourceFileError.
func Load(ctx context.Context, datasetPath, archivePath string, optFns ...Option) (*model.Dataset, *Stats, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	start := time.Now()

	for _, f := range []struct{ role, path string }{
		{"dataset", datasetPath},
		{"archive", archivePath},
	} {
		if _, err := os.Stat(f.path); err != nil {
			return nil, nil, model.NewMissingSourceFileError(f.role, f.path, err)
		}
	}

	db, err := openDataset(ctx, datasetPath)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	ds, err := readTables(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	embeddings, err := readEmbeddings(archivePath, o.codec)
	if err != nil {
		return nil, nil, err
	}

	stats := &Stats{}
	kept := ds.Routes[:0]
	keptIDs := make(map[string]struct{}, len(ds.Routes))
	for _, r := range ds.Routes {
		vec, ok := embeddings[r.ID]
		if !ok || len(vec) == 0 {
			stats.Skipped++
			continue
		}
		r.Embedding = vec
		kept = append(kept, r)
		keptIDs[r.ID] = struct{}{}
	}
	ds.Routes = kept
	stats.Unmatched = len(embeddings) - len(kept)

	holds := ds.Holds[:0]
	for _, h := range ds.Holds {
		if _, ok := keptIDs[h.RouteID]; ok {
			holds = append(holds, h)
		}
	}
	ds.Holds = holds

	stats.Routes = len(ds.Routes)
	stats.Holds = len(ds.Holds)
	stats.Layouts = len(ds.Layouts)

	if stats.Skipped > 0 {
		o.logger.WarnContext(ctx, "routes without embedding skipped", "skipped", stats.Skipped)
	}
	o.logger.InfoContext(ctx, "source loaded",
		"dataset", datasetPath,
		"archive", archivePath,
		"routes", stats.Routes,
		"holds", stats.Holds,
		"layouts", stats.Layouts,
		"unmatched_embeddings", stats.Unmatched,
		"duration", time.Since(start),
	)
	return ds, stats, nil
}
