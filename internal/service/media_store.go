package service

import (
	"context"
	"fmt"
	"time"

	"viralreel/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaStore hands out presigned URLs for rendered artifacts stored in an
// S3-compatible bucket (Supabase storage in production).
type MediaStore struct {
	presignClient *s3.PresignClient
	bucket        string
}

// NewMediaStore builds an S3 client against the configured endpoint. Returns
// nil when no storage endpoint is configured; callers fall back to
// placeholder URLs.
func NewMediaStore(ctx context.Context, cfg *config.Config) (*MediaStore, error) {
	if cfg.S3URL == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load S3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})
	return &MediaStore{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.S3Bucket,
	}, nil
}

// PresignGet generates a signed GET URL for the given object key.
func (m *MediaStore) PresignGet(ctx context.Context, key string) (string, error) {
	resp, err := m.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("presign GET for %s: %w", key, err)
	}
	return resp.URL, nil
}
