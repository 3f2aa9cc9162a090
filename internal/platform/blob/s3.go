// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package blob provides durable object storage for avatars and document files.

It wraps an S3-compatible provider (AWS S3, Cloudflare R2, MinIO) behind a
small store type. Uploaded objects are addressed by a stable public URL that
is persisted on the owning row; the URL is the only coupling between the
database and the bucket.
*/
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/docvault/docvault/internal/platform/config"
	"github.com/docvault/docvault/pkg/slug"
	"github.com/docvault/docvault/pkg/uuid"
)

// S3Store stores blobs in an S3-compatible bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3Store builds the S3 client from application configuration.
//
// # Endpoint Override
//
// When S3_ENDPOINT is set (R2, MinIO), the client switches to path-style
// addressing, which those providers require.
func NewS3Store(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*S3Store, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}

	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			options.UsePathStyle = true
		}
	})

	logger.Info("blob store initialized",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	return &S3Store{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload writes the blob under the given key and returns its public URL.
func (store *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("blob: upload of %q failed: %w", key, err)
	}

	return store.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a previously returned public URL.
//
// URLs minted by other base hosts are rejected rather than guessed at.
func (store *S3Store) Delete(ctx context.Context, fileURL string) error {
	key, ok := store.keyFromURL(fileURL)
	if !ok {
		return fmt.Errorf("blob: URL %q does not belong to this store", fileURL)
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob: delete of %q failed: %w", key, err)
	}

	return nil
}

// keyFromURL maps a public URL back to its bucket key.
func (store *S3Store) keyFromURL(fileURL string) (string, bool) {
	prefix := store.publicBaseURL + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(fileURL, prefix), true
}

// ObjectKey derives a collision-free bucket key from an original file name.
//
// The name part is slugified so keys stay URL-safe regardless of what users
// upload; the UUIDv7 prefix keeps keys unique and time-ordered.
func ObjectKey(folder, originalName string) string {
	extension := strings.ToLower(path.Ext(originalName))
	base := slug.From(strings.TrimSuffix(path.Base(originalName), extension))
	if base == "" {
		base = "file"
	}
	return folder + "/" + uuid.New() + "-" + base + extension
}
