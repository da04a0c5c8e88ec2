// Package storage keeps uploaded files in an S3 compatible bucket (AWS S3,
// Wasabi or MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

// Config holds the bucket settings. Endpoint is empty for AWS itself.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base under which objects are served, e.g. a CDN.
	// When empty the URL is derived from the endpoint and bucket.
	PublicURL string
}

// objectAPI is the part of *s3.Client the store needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements ports.FileStorage.
type S3Store struct {
	api     objectAPI
	bucket  string
	baseURL string
}

// NewS3Client creates an S3 client. A custom endpoint switches to path-style
// addressing, which Wasabi and MinIO require.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}
	endpoint := cfg.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// NewS3Store wraps client for cfg.Bucket.
func NewS3Store(client *s3.Client, cfg Config) *S3Store {
	return newS3Store(client, cfg)
}

func newS3Store(api objectAPI, cfg Config) *S3Store {
	return &S3Store{api: api, bucket: cfg.Bucket, baseURL: publicBase(cfg)}
}

func publicBase(cfg Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		endpoint := cfg.Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		return strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload stores f under folder with a random key. The returned FileID is the
// object key.
func (s *S3Store) Upload(ctx context.Context, f ports.File, folder string) (domain.StoredFile, error) {
	key := path.Join(folder, uuid.NewString()+extension(f))

	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(f.Content).String()
	}

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Content),
		ContentLength: aws.Int64(int64(len(f.Content))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("%w: put %s: %v", domain.ErrUpstream, key, err)
	}

	return domain.StoredFile{
		FileID: key,
		Name:   f.Name,
		URL:    s.baseURL + "/" + key,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, fileID string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrUpstream, fileID, err)
	}
	return nil
}

// extension keeps the client's extension when it looks sane and falls back
// to the detected one.
func extension(f ports.File) string {
	ext := strings.ToLower(path.Ext(f.Name))
	if len(ext) > 1 && len(ext) <= 6 && isAlnum(ext[1:]) {
		return ext
	}
	return mimetype.Detect(f.Content).Extension()
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
