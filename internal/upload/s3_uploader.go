// Package upload stores menu images in S3 and hands back public URLs.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	appconfig "dastarkhan/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Uploader stores files and returns their public URLs.
type Uploader interface {
	// Upload stores the file under a generated key and returns the URL
	// it will be served from.
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// s3Uploader implements Uploader against AWS S3.
type s3Uploader struct {
	client *s3.Client
	cfg    appconfig.UploadsConfig
	logger zerolog.Logger
}

// NewS3Uploader creates an S3-backed uploader.
func NewS3Uploader(ctx context.Context, cfg appconfig.UploadsConfig, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Msg("S3 uploader initialised")

	return &s3Uploader{
		client: s3.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Upload stores the file under a generated key and returns its public URL.
func (u *s3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := u.cfg.Prefix + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("key", key).
			Msg("failed to upload file")
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	url := u.publicURL(key)
	u.logger.Info().
		Str("key", key).
		Str("url", url).
		Msg("file uploaded")

	return url, nil
}

// publicURL maps a key to the URL the object is served from.
func (u *s3Uploader) publicURL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(u.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
