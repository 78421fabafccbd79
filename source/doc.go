// Package source loads the full board dataset from its two build inputs: a
// SQLite database with the route, hold and layout tables, and a results
// archive (zip) carrying one embedding per route in embeddings.jsonl.
//
//	ds, stats, err := source.Load(ctx, "boards.db", "results.zip")
//
// Routes without an embedding are skipped and counted in Stats.
package source
