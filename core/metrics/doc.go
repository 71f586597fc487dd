// Package metrics counts what a merge run did.
//
// Counters live in a private prometheus registry per run. After the run they
// can be written in the text exposition format to a file picked up by the
// node exporter textfile collector, which suits batch jobs that exit before
// they could be scraped.
package metrics
