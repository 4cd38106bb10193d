// Package storage provides S3-compatible object storage used to archive
// generated exports.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the subset of object storage the application uses.
type ObjectStore interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutObject stores reader under key and returns the key.
	PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) (string, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}
