// internal/common/objectstore/minio.go
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"candidate-intake/internal/common/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient wraps the MinIO client for durable resume storage.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a MinIO client and ensures the resume bucket exists.
func NewMinIO(ctx context.Context, cfg config.ObjectStoreConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	m := &MinIOClient{client: client, bucket: cfg.ResumeBucket}

	exists, err := client.BucketExists(ctx, cfg.ResumeBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check resume bucket %s: %w", cfg.ResumeBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.ResumeBucket, minio.MakeBucketOptions{Region: cfg.Location}); err != nil {
			return nil, fmt.Errorf("failed to create resume bucket %s: %w", cfg.ResumeBucket, err)
		}
	}

	return m, nil
}

// PutResume uploads a resume object under the given key prefix and returns
// the stored object key.
func (m *MinIOClient) PutResume(ctx context.Context, keyPrefix, sessionID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	objectKey := path.Join(keyPrefix, sessionID, fileName)

	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s/%s: %w", m.bucket, objectKey, err)
	}

	return objectKey, nil
}

// PresignedURL returns a temporary retrieval URL for an uploaded resume.
func (m *MinIOClient) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", objectKey, err)
	}
	return u.String(), nil
}
