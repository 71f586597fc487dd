package gffio

import (
	"feature-merge/core/gff"

	"github.com/minio/minio-go/v7"
)

func collect(src gff.Source) ([]*gff.Feature, error) {
	return gff.Collect(src)
}

func minioUploadInfo() minio.UploadInfo {
	return minio.UploadInfo{}
}
