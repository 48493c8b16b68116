// internal/pkg/archive/s3.go
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible stores, e.g. MinIO
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Archiver struct {
	uploader uploader
	bucket   string
	prefix   string
	logger   *zap.Logger
}

// NewS3Archiver builds an uploader from the default AWS chain, overridden
// by static keys and a custom endpoint when given.
func NewS3Archiver(ctx context.Context, cfg Config, logger *zap.Logger) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("no archive bucket configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archiver(manager.NewUploader(client), cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Archiver(u uploader, bucket, prefix string, logger *zap.Logger) *S3Archiver {
	return &S3Archiver{
		uploader: u,
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

func (a *S3Archiver) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	fullKey := path.Join(a.prefix, key)
	out, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fullKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}

	a.logger.Info("object uploaded",
		zap.String("bucket", a.bucket),
		zap.String("key", fullKey),
		zap.String("location", out.Location),
	)
	return nil
}
