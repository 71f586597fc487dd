// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so feature files can be read from and written to
// S3-compatible buckets using "s3://bucket/key" paths. This abstraction supports
// both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - ParseURI: Splits an "s3://bucket/key" path.
//   - Download: Verifies the bucket and streams an object.
//   - Upload: Stores a finished output file.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	rc, err := storage.Download(ctx, client, "annotations", "genes.gff3")
package storage
