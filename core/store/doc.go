// Package store holds the full set of features of one merge run.
//
// The Store keeps records in a relational table (an in-memory SQLite database by
// default, see core/database) with a composite index over the sort keys, so
// lookups are index seeks and ordered iteration is a single cursor over the
// table. Alongside the table it keeps:
//   - an autoincrement counter per feature type for synthesizing ids
//   - a parent -> children index mirroring the "Parent" attributes
//   - the set of links created by BindParent, which the hierarchical walk uses
//     to emit aggregates directly before their components
//
// # Ingestion
//
// UpdateFrom streams a gff.Source into the table. Id collisions are planned by
// core/reconcile and applied here inside one transaction, so a failing source
// leaves the store unchanged.
//
// # Concurrency
//
// A Store is owned by one pipeline run. The in-memory indices are guarded by a
// single mutex shared by every transactional view of the store. Do not write
// while a Cursor is open.
//
// # Usage
//
//	st, err := store.Open(ctx, db, log)
//	summary, err := st.UpdateFrom(ctx, src, reconcile.StrategyAppend)
//	cur, err := st.Iterate(ctx, store.IterateOptions{Order: store.DefaultOrder})
//	defer cur.Close()
//	for cur.Next() {
//	    f := cur.Feature()
//	}
package store
