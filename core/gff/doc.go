// Package gff defines the in-memory data model for genomic feature records.
//
// A Feature mirrors one line of a GFF3 or GTF file: sequence id, source, feature
// type, 1-based inclusive coordinates, score, strand, frame and an ordered set of
// attributes. Parent/child relationships are carried by the "Parent" attribute on
// the child; aggregates built by the merge engine additionally hold their
// components in the transient Children slice.
//
// # Validation
//
// Validate enforces the structural invariants every stored feature must satisfy
// (start <= end, known strand and frame symbols). Violations wrap ErrInputFormat.
//
// # Attributes
//
// Attributes is an ordered name -> values mapping. Insertion order is preserved
// so serialized records keep the attribute order of their input.
package gff
