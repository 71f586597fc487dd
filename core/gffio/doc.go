// Package gffio reads and writes feature files.
//
// Two input dialects are supported:
//   - GFF3, parsed by Reader (attributes "key=v1,v2;..." with percent-encoding)
//   - GTF, parsed through the biogo featio/gff reader (attributes `key "value";`)
//
// Output is always GFF3 and starts with a "##gff-version 3" header line.
//
// Paths may name local files, "-" for stdin/stdout, or objects in S3-compatible
// storage ("s3://bucket/key"). Inputs ending in ".gz" are decompressed.
//
// # Usage
//
//	o := gffio.NewOpener(client)
//	rc, err := o.OpenInput(ctx, "s3://annotations/genes.gff3.gz")
//	src := gffio.NewSource(rc, "genes.gff3.gz", gffio.DetectFormat("genes.gff3.gz"))
//	for src.Next() {
//	    f := src.Feature()
//	}
package gffio
