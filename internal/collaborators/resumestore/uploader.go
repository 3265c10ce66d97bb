// internal/collaborators/resumestore/uploader.go
package resumestore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"candidate-intake/internal/common/objectstore"
	"candidate-intake/internal/intake/resume"
	"candidate-intake/internal/models"
)

// MinIOUploader performs the durable resume upload against object storage.
// The audience picks the key prefix: public applicants and internal/admin
// uploads land in separate trees.
type MinIOUploader struct {
	store     *objectstore.MinIOClient
	urlExpiry time.Duration
}

// NewMinIOUploader creates an uploader. A zero expiry falls back to 7 days.
func NewMinIOUploader(store *objectstore.MinIOClient, urlExpiry time.Duration) *MinIOUploader {
	if urlExpiry <= 0 {
		urlExpiry = 7 * 24 * time.Hour
	}
	return &MinIOUploader{store: store, urlExpiry: urlExpiry}
}

// UploadResume stores the file durably and returns a retrievable URL.
func (u *MinIOUploader) UploadResume(ctx context.Context, fileName string, data []byte, audience resume.Audience) (models.UploadResult, error) {
	prefix := "public"
	if audience == resume.AudienceInternal {
		prefix = "internal"
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey, err := u.store.PutResume(ctx, prefix, uuid.NewString(), fileName,
		bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("durable resume upload: %w", err)
	}

	url, err := u.store.PresignedURL(ctx, objectKey, u.urlExpiry)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("presign resume url: %w", err)
	}

	return models.UploadResult{URL: url, Name: fileName}, nil
}
