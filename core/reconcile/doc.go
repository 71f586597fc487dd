// Package reconcile decides how an incoming feature is placed in the feature
// store when its identifier is already taken.
//
// Reconciliation is split the same way as every rewrite in this codebase: a
// pure planning step produces an Action, and the store applies it. Planning
// never touches the store, so it is trivially testable and deterministic.
//
// # Strategies
//
//   - merge: union the incoming attributes into the existing record. Only
//     applies when every non-attribute field matches; otherwise the incoming
//     feature is renamed as under append.
//   - append: rename the incoming feature with the store's autoincrement id.
//   - error: reject with a duplicate id error.
//   - skip: drop the incoming feature (logged as a warning by the store).
//   - replace: overwrite the existing record.
//
// Features without an id are always renamed, whatever the strategy.
//
// # Usage Example
//
//	strategy, err := reconcile.ParseStrategy("append")
//	action := reconcile.Plan(strategy, existing, incoming)
//	switch action.Type {
//	case reconcile.ActionRename:
//	    // draw a new id and insert action.Feature
//	}
package reconcile
