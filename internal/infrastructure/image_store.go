package infrastructure

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore mirrors uploaded product photos into MinIO so the publish
// pipeline can re-fetch originals after local cleanup. Optional: when no
// endpoint is configured the store is disabled and Mirror is a no-op.
type ImageStore struct {
	client *minio.Client
	bucket string
}

func NewImageStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ImageStore, error) {
	if endpoint == "" {
		return &ImageStore{}, nil
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &ImageStore{client: client, bucket: bucket}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

func (s *ImageStore) Enabled() bool {
	return s.client != nil
}

// Mirror stores a copy of the uploaded image under products/<id>/ and
// returns the object name. Disabled store returns empty without error.
func (s *ImageStore) Mirror(ctx context.Context, productID int, fileName string, file io.Reader, size int64) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = ".jpg"
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("products/%d/%d%s", productID, time.Now().UnixNano(), fileExt)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": fileName,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to mirror image: %w", err)
	}

	return objectName, nil
}

// Remove deletes a mirrored image.
func (s *ImageStore) Remove(ctx context.Context, objectName string) error {
	if !s.Enabled() || objectName == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
