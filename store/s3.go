package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/stevemurr/media-library/media"
)

// S3Config selects the bucket and object holding the collection. Endpoint
// and PathStyle allow S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string // optional, falls back to the default credentials chain
	SecretAccessKey string
}

// S3Store keeps the collection document as a single object.
type S3Store struct {
	client *s3.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Store builds an S3 client from cfg. optFns are applied to the client
// options last.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger, optFns ...func(*s3.Options)) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Key == "" {
		cfg.Key = FileName
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket, key: cfg.Key, logger: logger}, nil
}

func (s *S3Store) Load(ctx context.Context) (media.Collection, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isNotFound(err) {
			return media.Collection{}, nil
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	c, ok := decode(data, s.logger)
	if !ok {
		s.logger.Warn("collection object is corrupt, treating as empty",
			slog.String("bucket", s.bucket), slog.String("key", s.key))
	}
	return c, nil
}

func (s *S3Store) Save(ctx context.Context, c media.Collection) error {
	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &s.key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
