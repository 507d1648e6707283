// Package storage stores uploaded item images in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sangkips/rajtiles-api/internal/config"
)

// Scheme prefixes object references stored on items, e.g. s3://bucket/items/tile_1a2b3c4d.jpg
const Scheme = "s3://"

// ObjectStore is the subset of object storage the application needs
type ObjectStore interface {
	Bucket() string
	UploadFile(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
}

// MinIOStore implements ObjectStore using MinIO
type MinIOStore struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// NewMinIOStore creates a new MinIO store from the storage config
func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client:      client,
		bucket:      cfg.Bucket,
		maxFileSize: cfg.UploadMaxSize,
	}, nil
}

func (s *MinIOStore) Bucket() string {
	return s.bucket
}

// EnsureBucketExists creates the bucket if it doesn't exist
func (s *MinIOStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// UploadFile uploads to the configured bucket and returns the object key.
// A short uuid suffix keeps repeated uploads of the same file name apart.
func (s *MinIOStore) UploadFile(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	fileKey := ObjectKey(folder, fileName)

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// DownloadFile streams an object. The caller closes the reader.
func (s *MinIOStore) DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", fileKey, err)
	}
	return obj, nil
}

func (s *MinIOStore) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", fileKey, err)
	}
	return nil
}

// ObjectKey builds the storage key for an uploaded file
func ObjectKey(folder, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	baseName := strings.TrimSuffix(path.Base(filepath.ToSlash(fileName)), path.Ext(fileName))
	if baseName == "" || baseName == "." || baseName == "/" {
		baseName = "image"
	}
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	return filepath.ToSlash(filepath.Join(folder, uniqueFileName))
}

// Reference formats a bucket/key pair as an item image reference
func Reference(bucket, key string) string {
	return Scheme + bucket + "/" + key
}

// ParseReference splits an s3:// reference into bucket and key
func ParseReference(ref string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(ref, Scheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(ref, Scheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
