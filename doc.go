// Package boardmap turns a climbing board catalog into a small package that
// can be explored as a 2D map of routes.
//
// A build reads the full dataset (routes, holds, board layouts) and the
// precomputed route embeddings, keeps the routes at or above a difficulty
// threshold, projects their embeddings to 2D in a single pass and writes the
// result as one self-contained package to a blob store. Exploration loads a
// package into an immutable session that answers filter, click and search
// queries.
//
// # Quick Start
//
//	ctx := context.Background()
//	bm := boardmap.New(blobstore.NewLocalStore("./packages"))
//
//	res, err := bm.Build(ctx, boardmap.BuildRequest{
//	    DatasetPath: "board.db",
//	    ArchivePath: "results.zip",
//	    Name:        "moon-2024.bmpk",
//	    Threshold:   15,
//	    SizeBudget:  5 << 20,
//	})
//
// With a size budget the threshold is raised until the package fits;
// res.EffectiveThreshold reports the one used.
//
// # Cloud Storage
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("packages/"))
//	bm := boardmap.New(s3Store)
//
// # Exploration
//
//	sess, _ := bm.Open(ctx, "moon-2024.bmpk")
//	vp := sess.Viewport(1000, 600)
//	st := explorer.NewState(sess)
//	st, _ = explorer.Dispatch(sess, vp, st, explorer.Event{
//	    Kind:   explorer.EventFilterChange,
//	    Filter: explorer.Filter{Grades: []string{"V5", "V6"}},
//	})
//	markers := explorer.Scatter(st, vp)
//
// Opening the same package bytes again returns the same session.
//
// # Errors
//
// Every failure is a typed error that matches a sentinel:
//
//	var se *boardmap.SizeBudgetExceededError
//	if errors.As(err, &se) { ... }
//	if errors.Is(err, boardmap.ErrEmptyResult) { ... }
//
// Build never writes a partial package.
package boardmap
