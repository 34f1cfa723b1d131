package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samukadias/contract-management-system/config"
)

// ObjectStorage archives CSV import source files and export snapshots
// so bulk data operations leave an auditable trail.
type ObjectStorage struct {
	client *minio.Client
	bucket string
	config *config.StorageConfig
}

func NewObjectStorage(cfg *config.StorageConfig) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &ObjectStorage{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ObjectStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ArchiveCSV stores a CSV artifact under the given object name
func (s *ObjectStorage) ArchiveCSV(ctx context.Context, objectName string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to archive file: %w", err)
	}

	return nil
}

// ArchiveInfo describes one archived CSV artifact
type ArchiveInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ListArchives returns the archived artifacts under a prefix
// ("imports/", "exports/" or empty for everything)
func (s *ObjectStorage) ListArchives(ctx context.Context, prefix string) ([]ArchiveInfo, error) {
	archives := []ArchiveInfo{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		archives = append(archives, ArchiveInfo{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return archives, nil
}

// PresignedURL generates a download URL for an archived artifact with
// the configured expiration
func (s *ObjectStorage) PresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// Delete removes an archived artifact
func (s *ObjectStorage) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// ImportObjectName builds the object name for an archived import file
func ImportObjectName(filename string, now time.Time) string {
	return fmt.Sprintf("imports/%s/%s", now.Format("2006-01-02"), filename)
}

// ExportObjectName builds the object name for an archived export snapshot
func ExportObjectName(now time.Time) string {
	return fmt.Sprintf("exports/contratos_%s.csv", now.Format("2006-01-02_150405"))
}
