// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/liebemama/marketplace-backend/internal/config"
	"github.com/liebemama/marketplace-backend/internal/models"
)

// StorageService talks to the S3-compatible object store (MinIO in the
// deployed setup) that holds product images. Uploads run outside any
// database transaction: a storage failure must never leave workflow state
// half-written, and a workflow failure must never abort a finished upload.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

var allowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.Storage.AccessKeyID == "" {
		// No credentials configured, run without an object store.
		return &StorageService{config: config}, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Storage.Region),
		Credentials: credentials.NewStaticCredentials(
			config.Storage.AccessKeyID,
			config.Storage.SecretAccessKey,
			"",
		),
	}
	if config.Storage.Endpoint != "" {
		// MinIO and other S3-compatible stores need an explicit endpoint
		// and path-style bucket addressing.
		awsConfig.Endpoint = aws.String(config.Storage.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// UploadProductImage stores one image under the role/owner keyed layout:
// products/<role>/<merchant_id>/product_<product_id>/<uuid>_<name>.
func (s *StorageService) UploadProductImage(file multipart.File, header *multipart.FileHeader, role models.Role, merchantID, productID uuid.UUID) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, candidate := range allowedImageExtensions {
		if ext == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: file type %s is not allowed", ErrValidation, ext)
	}

	if s.config.Storage.MaxUploadSize > 0 && header.Size > s.config.Storage.MaxUploadSize {
		return nil, fmt.Errorf("%w: file size %d exceeds maximum %d", ErrValidation, header.Size, s.config.Storage.MaxUploadSize)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	key := fmt.Sprintf("products/%s/%s/product_%s/%s_%s",
		role, merchantID, productID, strings.ReplaceAll(uuid.New().String(), "-", ""), sanitizeFilename(header.Filename))
	contentType := header.Header.Get("Content-Type")

	if s.s3Client == nil {
		// Local development without an object store.
		return &UploadResult{
			URL:      fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key),
			Key:      key,
			Size:     int64(len(fileBytes)),
			MimeType: contentType,
		}, nil
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.Storage.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to object storage: %w", err)
	}

	return &UploadResult{
		URL:      s.objectURL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// DeleteObject removes a stored file. Callers treat failures as advisory;
// the database record is the source of truth.
func (s *StorageService) DeleteObject(key string) error {
	if s.s3Client == nil || key == "" {
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Storage.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *StorageService) EnsureBucket() error {
	if s.s3Client == nil {
		return fmt.Errorf("object storage is not configured")
	}

	_, err := s.s3Client.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(s.config.Storage.Bucket),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				return nil
			}
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	logrus.WithField("bucket", s.config.Storage.Bucket).Info("Storage bucket created")
	return nil
}

// PurgeBucket deletes every object in the bucket and then the bucket
// itself. Admin tooling only.
func (s *StorageService) PurgeBucket() error {
	if s.s3Client == nil {
		return fmt.Errorf("object storage is not configured")
	}

	bucket := aws.String(s.config.Storage.Bucket)
	err := s.s3Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{Bucket: bucket},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, object := range page.Contents {
				s.s3Client.DeleteObject(&s3.DeleteObjectInput{Bucket: bucket, Key: object.Key})
			}
			return true
		})
	if err != nil {
		return fmt.Errorf("failed to list bucket objects: %w", err)
	}

	if _, err := s.s3Client.DeleteBucket(&s3.DeleteBucketInput{Bucket: bucket}); err != nil {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}

	logrus.WithField("bucket", s.config.Storage.Bucket).Warn("Storage bucket purged")
	return nil
}

// PresignedURL issues a short-lived download link for a stored object.
func (s *StorageService) PresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.Storage.Bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) objectURL(key string) string {
	if s.config.Storage.BaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.Storage.BaseURL, "/"), s.config.Storage.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Storage.Bucket, s.config.Storage.Region, key)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
