// Package merge implements the merge pass: a single greedy sweep over
// features in sort order that groups consecutive features accepted by a
// criteria.List and turns every group of two or more into an aggregate.
//
// The engine keeps one open group. A feature opens a group when the criteria
// accept it against itself; otherwise it is emitted unchanged. Each following
// feature is either absorbed into the open group or closes it, in which case
// the group is emitted and the feature is processed again from scratch.
//
// On the first absorption the opener is cloned into a new aggregate with its
// attributes dropped and a fresh id drawn from the IDSource. Every absorption
// then widens the aggregate's span and reconciles disagreeing fields:
//
//	seqid   comma-joined distinct seqids in first-seen order
//	strand  "." if components disagree
//	frame   "." if components disagree
//	type    "sequence_feature" if components disagree
//
// A closed group of one is emitted as the original feature. Aggregates carry
// their components in Children, the original features left untouched.
//
// # Multiline
//
// With multiline enabled a Splitter may ask the engine to close the open
// aggregate and continue with a new one reusing the same id, the way
// discontiguous features are written on several lines. No built-in splitter
// exists yet.
package merge
