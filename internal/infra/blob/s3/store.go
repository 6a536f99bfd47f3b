// Package s3 stores archived catalog payloads in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"baukatalog/internal/blob/core"
)

// Store implements core.Store on a single bucket. Every payload is JSON, so
// the content type is fixed; write-once semantics come from a conditional
// PutObject (If-None-Match: *).
type Store struct {
	client *s3.Client
	bucket string
}

// Config holds explicit construction parameters, mostly for tests; production
// wiring goes through OpenFromEnv.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional, for MinIO
	PathStyle bool
}

// Environment variables:
//
//	KATALOG_BLOB_DRIVER=s3
//	KATALOG_BLOB_S3_BUCKET=<bucket> (required)
//	KATALOG_BLOB_S3_REGION=<region> (default us-east-1)
//	KATALOG_BLOB_S3_ENDPOINT=<url> (optional, for MinIO)
//	KATALOG_BLOB_S3_PATH_STYLE=true|false (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 payload store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// OpenFromEnv constructs an S3 store from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("KATALOG_BLOB_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("KATALOG_BLOB_S3_BUCKET required for s3 driver")
	}
	return New(ctx, Config{
		Bucket:    bucket,
		Region:    os.Getenv("KATALOG_BLOB_S3_REGION"),
		Endpoint:  os.Getenv("KATALOG_BLOB_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("KATALOG_BLOB_S3_PATH_STYLE"), "true"),
	})
}

func (s *Store) Driver() core.Driver { return core.DriverS3 }

func (s *Store) Put(ctx context.Context, key string, payload []byte) (core.Info, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return core.Info{}, fmt.Errorf("put %s: %w", key, core.ErrKeyExists)
		}
		return core.Info{}, err
	}
	return core.Info{
		Key:      key,
		Size:     int64(len(payload)),
		Checksum: checksum(payload),
		StoredAt: time.Now().UTC(),
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, []byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return core.Info{}, nil, fmt.Errorf("get %s: %w", key, core.ErrNotFound)
		}
		return core.Info{}, nil, err
	}
	defer func() { _ = out.Body.Close() }()
	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return core.Info{}, nil, err
	}
	info := core.Info{
		Key:      key,
		Size:     int64(len(payload)),
		Checksum: checksum(payload),
		StoredAt: aws.ToTime(out.LastModified),
	}
	return info, payload, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	input := &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: &prefix}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			infos = append(infos, core.Info{
				Key:      aws.ToString(obj.Key),
				Size:     aws.ToInt64(obj.Size),
				StoredAt: aws.ToTime(obj.LastModified),
			})
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			return infos, nil
		}
		input.ContinuationToken = out.NextContinuationToken
	}
}

func checksum(payload []byte) string {
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}
