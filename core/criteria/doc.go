// Package criteria provides the predicates that decide whether a candidate
// feature joins the merge group currently being built.
//
// A Criterion sees the accumulator (the group's feature, which already spans
// every absorbed component), the candidate and the components absorbed so far.
// A List ANDs its criteria in order and stops at the first false.
//
// Build turns the merge options of a run into the active List:
//
//	list, err := criteria.Build(criteria.Options{IgnoreStrand: true})
//	if list.Eval(acc, cand, children) {
//	    // absorb cand
//	}
package criteria
