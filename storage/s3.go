package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config configures the production artifact store. Credentials come from
// the standard AWS chain.
type S3Config struct {
	Bucket string
	Region string
	// Prefix is prepended to every key, no leading/trailing slash.
	Prefix string
	// PublicBase overrides the URL base written on conversion records
	// (e.g. a CloudFront domain). Empty means the virtual-hosted S3 URL.
	PublicBase string
}

// S3Store keeps artifacts in an S3 bucket.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Store creates the store using the default AWS configuration chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	fullKey := s.fullKey(key)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(fullKey),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return nil, fmt.Errorf("s3 storage: failed to put %s: %w", fullKey, err)
	}

	log.Printf("[Storage] uploaded s3://%s/%s (%d bytes)", s.cfg.Bucket, fullKey, len(data))

	return &UploadResult{
		URL: s.publicURL(fullKey),
		Key: key,
	}, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := s.fullKey(key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 storage: failed to get %s: %w", fullKey, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: failed to read %s: %w", fullKey, err)
	}
	return data, nil
}

func (s *S3Store) fullKey(key string) string {
	if s.cfg.Prefix == "" {
		return key
	}
	return s.cfg.Prefix + "/" + key
}

func (s *S3Store) publicURL(fullKey string) string {
	if s.cfg.PublicBase != "" {
		return strings.TrimRight(s.cfg.PublicBase, "/") + "/" + fullKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, fullKey)
}

func isNotFound(err error) bool {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
