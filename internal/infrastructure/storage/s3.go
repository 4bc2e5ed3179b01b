// Package storage uploads files to S3-compatible object storage (AWS S3,
// Backblaze B2, MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible providers and
	// switches to path-style addressing.
	Endpoint string
	Bucket   string
	// PublicURL is the prefix returned file URLs are built from. Defaults to
	// the endpoint (path style) or the bucket's virtual-hosted AWS URL.
	PublicURL string
}

type S3Store struct {
	api       putObjectAPI
	bucket    string
	publicURL string
	log       zerolog.Logger
}

func NewS3Store(awsCfg aws.Config, cfg Config, log zerolog.Logger) *S3Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg, awsCfg.Region, log)
}

func newS3Store(api putObjectAPI, cfg Config, region string, log zerolog.Logger) *S3Store {
	public := strings.TrimRight(cfg.PublicURL, "/")
	switch {
	case public != "":
	case cfg.Endpoint != "":
		public = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
	return &S3Store{api: api, bucket: cfg.Bucket, publicURL: public, log: log}
}

// Upload stores body under a random prefix so equal file names never
// overwrite each other, and returns the public URL.
func (s *S3Store) Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(name)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Info().Str("bucket", s.bucket).Str("key", key).Int64("size", size).Msg("file uploaded")
	return s.publicURL + "/" + escapeKey(key), nil
}

func objectKey(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return uuid.NewString() + "/" + base
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
