package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"resumelens/resume-analyzer/internal/config"
)

// StorageService archives accepted uploads. Keys are generated, never taken
// from the client-supplied filename.
type StorageService interface {
	SaveFile(ctx context.Context, data []byte, mimeType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	EnsureUploadDir() error
}

// NewStorageFromConfig returns nil when archiving is disabled.
func NewStorageFromConfig(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "local":
		return NewStorageService(cfg.UploadPath), nil
	case "s3":
		return NewS3StorageService(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func generateFileKey(mimeType string) string {
	return fmt.Sprintf("resume_%s%s", uuid.New().String(), ExtensionForMimeType(mimeType))
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveFile(ctx context.Context, data []byte, mimeType string) (string, error) {
	key := generateFileKey(mimeType)

	if err := os.WriteFile(s.GetFilePath(key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

func (s *storageService) GetFilePath(key string) string {
	return filepath.Join(s.uploadPath, key)
}

func (s *storageService) DeleteFile(ctx context.Context, key string) error {
	if err := os.Remove(s.GetFilePath(key)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type s3StorageService struct {
	client *s3.Client
	bucket string
}

// NewS3StorageService targets any S3-compatible endpoint (AWS, R2, MinIO).
func NewS3StorageService(ctx context.Context, cfg config.S3Config) (StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3StorageService{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureUploadDir is a no-op; the bucket must already exist.
func (s *s3StorageService) EnsureUploadDir() error {
	return nil
}

func (s *s3StorageService) SaveFile(ctx context.Context, data []byte, mimeType string) (string, error) {
	key := generateFileKey(mimeType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return key, nil
}

func (s *s3StorageService) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
