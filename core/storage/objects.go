package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Scheme prefixes paths that live in object storage.
const Scheme = "s3://"

// ParseURI splits "s3://bucket/key" into bucket and key.
// ok is false for paths that do not use the s3 scheme.
func ParseURI(uri string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(uri, Scheme) {
		return "", "", false, nil
	}
	rest := strings.TrimPrefix(uri, Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("invalid object uri %q: expected s3://bucket/key", uri)
	}
	return bucket, key, true, nil
}

// Download opens an object for reading after checking the bucket is reachable.
func Download(ctx context.Context, client Client, bucket, key string) (io.ReadCloser, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// Upload stores data under bucket/key.
func Upload(ctx context.Context, client Client, bucket, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, key, err)
	}
	return nil
}
