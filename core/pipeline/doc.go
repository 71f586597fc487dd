// Package pipeline runs one complete merge: inputs are read into a fresh
// feature store, merged once per feature type group, post-processed and
// written out as GFF3.
//
//	p, err := pipeline.New(cfg.Merge, db, gffio.NewOpener(client), log, metrics.New())
//	res, err := p.Run(ctx, []string{"a.gff3", "b.gtf.gz"}, "-")
//
// Options are validated by New, so an unknown merge strategy or a negative
// threshold fails before any input is opened. Inputs that yield no features
// are skipped with a warning; if all inputs are empty the run succeeds
// without writing anything.
package pipeline
