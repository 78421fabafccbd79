// Package extract reduces a full board dataset to a package: the routes at
// or above a difficulty threshold, their holds, the layouts they use and one
// projection of their embeddings.
//
// With a size budget the threshold is raised, never lowered, until the
// encoded package fits:
//
//	ex := extract.New(projection.New(), extract.WithSizeBudget(5<<20))
//	res, err := ex.Extract(ctx, ds, 15)
//	// res.EffectiveThreshold >= 15
package extract
