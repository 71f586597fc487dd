package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultTimeout = 30 * time.Second

// Client is the subset of object storage used for s3:// inputs and outputs.
type Client interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject opens an object for reading. Missing objects fail here, not on
	// the first read.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// NewClient creates a MinIO client for cfg. No request is made until the
// first operation.
func NewClient(cfg Config) (Client, error) {
	host, secure := endpointHost(cfg.Endpoint, cfg.UseSSL)
	mc, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: newTransport(cfg.timeout()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioClient{Client: mc}, nil
}

// endpointHost strips the scheme MinIO does not accept. An https:// endpoint
// forces TLS on.
func endpointHost(endpoint string, useSSL bool) (string, bool) {
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return strings.TrimSuffix(rest, "/"), true
	}
	rest := strings.TrimPrefix(endpoint, "http://")
	return strings.TrimSuffix(rest, "/"), useSSL
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// newTransport bounds connection setup, TLS and the wait for response headers
// by timeout. Bodies are streamed and bounded by the caller's context.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: time.Second,
		ResponseHeaderTimeout: timeout,
	}
}

type minioClient struct {
	*minio.Client
}

func (c *minioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := c.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces NoSuchKey before the reader is handed out.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}
