// Package postprocess writes the aggregates of a merge pass back into the
// feature store.
//
// Work is split into a plan and its application, like a reconcile run: BuildPlan
// decides what happens to every aggregate and component without touching the
// store, and ApplyPlan executes the plan in one store transaction.
//
// For every aggregate the plan:
//   - records the distinct sources of its components in the "sources"
//     attribute and sets its source to "feature_merge"
//   - upserts it into the store (strategy replace)
//   - binds each component to it, or deletes the component when components are
//     excluded
package postprocess
