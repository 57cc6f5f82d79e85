package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration. Works against MinIO or
// any other S3 endpoint via BaseEndpoint and path-style addressing.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Uploader stores uploaded images in an S3-compatible bucket. With no
// credentials configured it runs disabled and rejects uploads, so the rest
// of the API works without object storage.
type Uploader struct {
	cfg     Config
	client  s3Client
	enabled bool
	logger  *slog.Logger
}

func NewUploader(cfg Config, logger *slog.Logger) *Uploader {
	u := &Uploader{cfg: cfg, logger: logger.With("component", "storage")}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		u.client = newS3Client(cfg)
		u.enabled = true
		u.logger.Info("object storage enabled", "bucket", cfg.Bucket, "endpoint", cfg.Endpoint)
	} else {
		u.logger.Info("object storage disabled, uploads will be rejected")
	}
	return u
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (u *Uploader) Enabled() bool { return u.enabled }

// Upload stores the content under folder with a random object name and
// returns the public URL. The original filename only contributes its
// extension, never the name itself.
func (u *Uploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	if !u.enabled {
		return "", fmt.Errorf("object storage is not configured")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL(key), nil
}

// Delete removes a previously uploaded object given its public URL. URLs
// that don't point at this bucket are ignored, so stale references never
// block a record update.
func (u *Uploader) Delete(ctx context.Context, publicURL string) error {
	if !u.enabled || publicURL == "" {
		return nil
	}
	key, ok := u.keyFromURL(publicURL)
	if !ok {
		return nil
	}

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (u *Uploader) publicURL(key string) string {
	base := strings.TrimSuffix(u.cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimSuffix(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return base + "/" + key
}

func (u *Uploader) keyFromURL(publicURL string) (string, bool) {
	prefix := u.publicURL("")
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
