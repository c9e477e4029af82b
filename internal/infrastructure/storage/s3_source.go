// Package storage reads raw extraction exports from object storage, MongoDB or the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/spendlens/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrInvalidObjectURL is returned for locations that are not s3://bucket/key
var ErrInvalidObjectURL = errors.New("object location must look like s3://bucket/key")

// objectGetter is the subset of the S3 client used for reading exports
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a single export object from any S3-compatible store
type S3Source struct {
	client objectGetter
	bucket string
	key    string
	logger *zap.Logger
}

// ParseObjectURL splits s3://bucket/path/to/key into bucket and key
func ParseObjectURL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", ErrInvalidObjectURL
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", ErrInvalidObjectURL
	}
	return u.Host, key, nil
}

// NewS3Client builds an S3 client from storage configuration. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies.
func NewS3Client(ctx context.Context, cfg *infraconfig.StorageConfig) (*s3.Client, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewS3Source creates a source for the object at location (s3://bucket/key)
func NewS3Source(client objectGetter, location string, logger *zap.Logger) (*S3Source, error) {
	bucket, key, err := ParseObjectURL(location)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Source{client: client, bucket: bucket, key: key, logger: logger}, nil
}

// Load downloads the whole object
func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", s.Describe(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", s.Describe(), err)
	}
	s.logger.Debug("Downloaded export object",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

// Describe returns the object location
func (s *S3Source) Describe() string {
	return "s3://" + s.bucket + "/" + s.key
}
