// Package s3kv stores synced values as objects in an S3 compatible bucket.
//
// Each key maps to one object under the configured prefix, with the encoded
// value as the object body. It is an alternative CloudKV backend for
// deployments without the sync server.
package s3kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/iudanet/vocabsync/internal/client/api"
)

// MaxObjectSize limits how much of an object body is read back.
const MaxObjectSize = 1 << 20

// ErrObjectTooLarge is returned by FetchValue for objects above MaxObjectSize.
var ErrObjectTooLarge = errors.New("object exceeds size limit")

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config describes the bucket used as the cloud store.
type Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	// PathStyle is required by most self-hosted S3 servers (MinIO, SeaweedFS)
	PathStyle bool
}

// Store implements api.CloudKV on top of S3.
type Store struct {
	client S3API
	bucket string
	prefix string
}

var _ api.CloudKV = (*Store)(nil)

// New loads AWS credentials from the default chain and builds a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3kv: bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3kv: load aws config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient creates a Store with a custom S3API implementation.
func NewWithClient(client S3API, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey returns the object key used for a value key.
func (s *Store) ObjectKey(key string) string {
	return s.prefix + url.PathEscape(key)
}

// FetchValue returns the object body, or "" when the object does not exist.
func (s *Store) FetchValue(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.ObjectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("s3kv: get object %q: %w", key, err)
	}
	defer func() {
		_ = out.Body.Close()
	}()

	// лишний байт означает превышение лимита
	data, err := io.ReadAll(io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return "", fmt.Errorf("s3kv: read object %q: %w", key, err)
	}
	if len(data) > MaxObjectSize {
		return "", fmt.Errorf("s3kv: object %q: %w", key, ErrObjectTooLarge)
	}
	return string(data), nil
}

// SaveValue overwrites the object for key.
func (s *Store) SaveValue(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.ObjectKey(key)),
		Body:        bytes.NewReader([]byte(value)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3kv: put object %q: %w", key, err)
	}
	return nil
}

// CheckAvailability reports whether the bucket is reachable.
func (s *Store) CheckAvailability(ctx context.Context) bool {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err == nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
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
