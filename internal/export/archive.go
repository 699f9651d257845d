package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Archiver uploads produced workbooks to S3-compatible storage. Archiving
// is best-effort: the export response never waits on it, and a failed
// upload only logs.
type Archiver struct {
	cfg    S3Config
	client s3Client
	logger *slog.Logger
}

// NewArchiver creates an archiver. It stays disabled when the bucket or
// credentials are missing.
func NewArchiver(cfg S3Config, logger *slog.Logger) *Archiver {
	a := &Archiver{cfg: cfg, logger: logger}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		a.client = newS3Client(cfg)
	}
	return a
}

func newS3Client(cfg S3Config) *s3.Client {
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

// Enabled reports whether uploads are configured.
func (a *Archiver) Enabled() bool {
	return a.client != nil
}

// Upload stores one workbook under the given key.
func (a *Archiver) Upload(ctx context.Context, key string, data []byte) error {
	if a.client == nil {
		return nil
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(xlsxContentType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Archive uploads in the background, logging the outcome. Safe to call on
// a disabled archiver.
func (a *Archiver) Archive(key string, data []byte) {
	if !a.Enabled() {
		return
	}
	go func() {
		if err := a.Upload(context.Background(), key, data); err != nil {
			a.logger.Error("archive export", "key", key, "error", err)
			return
		}
		a.logger.Info("archived export", "key", key, "bytes", len(data))
	}()
}
