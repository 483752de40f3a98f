package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"

	"leadhub-backend/shared/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService wraps the MinIO client. Objects are namespaced per tenant
// under "tenants/<tenant-id>/" so storage accounting and cleanup stay
// tenant-scoped.
type StorageService struct {
	client     *minio.Client
	bucketName string
}

func NewStorageService() (*StorageService, error) {
	cfg := config.GetConfig()

	// Accept both bare host:port and full URLs for the endpoint.
	endpoint := cfg.MinIOServerURL
	if parsed, err := url.Parse(cfg.MinIOServerURL); err == nil && parsed.Host != "" {
		endpoint = parsed.Host
	}

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, cfg.MinIOUseSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &StorageService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *StorageService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// TenantObjectKey builds the namespaced object key for a stored document.
func TenantObjectKey(tenantID uuid.UUID, token string) string {
	return fmt.Sprintf("tenants/%s/%s", tenantID, token)
}

// Upload stores an object under the tenant's namespace.
func (s *StorageService) Upload(ctx context.Context, objectKey string, file io.Reader, fileSize int64, contentType string) error {
	log.Printf("⬆️ Uploading object: %s/%s (size: %d bytes)", s.bucketName, objectKey, fileSize)

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, file, fileSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %v", err)
	}

	log.Printf("✅ Object '%s' uploaded successfully", objectKey)
	return nil
}

// Download streams a stored object.
func (s *StorageService) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %v", err)
	}
	return object, nil
}

// Remove deletes a stored object.
func (s *StorageService) Remove(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %v", err)
	}
	log.Printf("🗑️ Object removed: %s", objectKey)
	return nil
}

// RemoveTenantObjects wipes a tenant's whole namespace. Used when a tenant
// is purged.
func (s *StorageService) RemoveTenantObjects(ctx context.Context, tenantID uuid.UUID) error {
	prefix := fmt.Sprintf("tenants/%s/", tenantID)

	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	removed := 0
	for object := range objectCh {
		if object.Err != nil {
			return fmt.Errorf("failed to list objects: %v", object.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %v", object.Key, err)
		}
		removed++
	}

	log.Printf("✅ Removed %d objects for tenant %s", removed, tenantID)
	return nil
}
