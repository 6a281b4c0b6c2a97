package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing S3 MinIO Storage", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("S3Storage: failed to create MinIO client", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists == nil && exists {
			log.Info("S3Storage: bucket already exists", "bucket", bucketName)
		} else {
			log.Error("S3Storage: failed to make or verify bucket", "bucket", bucketName, "make_bucket_error", err, "check_exists_error", errBucketExists)
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &S3Storage{
		client: client,
		bucket: bucketName,
		logger: log,
	}, nil
}

// Upload stores one image blob under a fresh uuid key and returns its public
// URL.
func (s *S3Storage) Upload(ctx context.Context, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	objectKey := fmt.Sprintf("photos/%s", uuid.New().String())

	s.logger.Debug("S3Storage.Upload: uploading object",
		"bucket", s.bucket, "object_key", objectKey, "content_type", contentType, "size_bytes", len(data))

	uploadInfo, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("S3Storage.Upload: PutObject failed", "bucket", s.bucket, "key", objectKey, "error", err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	// MinIO URL layout: http(s)://<endpoint>/<bucket>/<objectKey>.
	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)

	s.logger.Info("S3Storage.Upload: object uploaded",
		"bucket", uploadInfo.Bucket, "key", uploadInfo.Key, "etag", uploadInfo.ETag, "url", fileURL)
	return fileURL, nil
}
