package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const defaultPresignExpiry = 15 * time.Minute

// R2Storage keeps objects in a Cloudflare R2 bucket over the S3 API.
type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewR2Storage builds the S3 client. Endpoint overrides the account
// endpoint and switches to path-style addressing for S3-compatible servers.
func NewR2Storage(cfg R2Config, logger *slog.Logger) (*R2Storage, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("r2 bucket name is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.AccountID == "" {
			return nil, errors.New("r2 account id is required")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.Endpoint != ""
	})

	logger = logger.With("bucket", cfg.BucketName)
	logger.Info("R2 storage configured", "endpoint", endpoint)

	return &R2Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.BucketName,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		logger:    logger,
	}, nil
}

// Put buffers the object so its size is checked before upload and the
// body is seekable for request signing. Without Overwrite the write is
// conditional on the key being absent.
func (s *R2Storage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error {
	const op = "Put"
	if err := ValidateKey(key); err != nil {
		return opError(op, key, err)
	}

	body, err := readLimited(data, opts.MaxSize)
	if err != nil {
		return opError(op, key, err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	}
	if !opts.Overwrite {
		input.IfNoneMatch = aws.String("*")
	}
	if opts.Public {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return opError(op, key, mapS3Error(err))
	}

	s.logger.Debug("object stored", "key", key, "size", len(body))
	return nil
}

func (s *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	const op = "Get"
	if err := ValidateKey(key); err != nil {
		return nil, ObjectInfo{}, opError(op, key, err)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ObjectInfo{}, opError(op, key, mapS3Error(err))
	}

	info := ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
		ETag:         aws.ToString(out.ETag),
	}
	if info.ContentType == "" {
		info.ContentType = ContentTypeForKey(key)
	}
	return out.Body, info, nil
}

func (s *R2Storage) Delete(ctx context.Context, key string) error {
	const op = "Delete"
	if err := ValidateKey(key); err != nil {
		return opError(op, key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return opError(op, key, mapS3Error(err))
	}
	return nil
}

// URL returns the public-domain URL when one is configured and expires is
// zero. Otherwise it presigns a GET.
func (s *R2Storage) URL(ctx context.Context, key string, expires time.Duration) (string, error) {
	const op = "URL"
	if err := ValidateKey(key); err != nil {
		return "", opError(op, key, err)
	}

	if expires == 0 {
		if s.publicURL != "" {
			return s.publicURL + "/" + key, nil
		}
		expires = defaultPresignExpiry
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", opError(op, key, err)
	}
	return req.URL, nil
}

func (s *R2Storage) Exists(ctx context.Context, key string) (bool, error) {
	const op = "Exists"
	if err := ValidateKey(key); err != nil {
		return false, opError(op, key, err)
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch mapped := mapS3Error(err); {
	case err == nil:
		return true, nil
	case errors.Is(mapped, ErrNotFound):
		return false, nil
	default:
		return false, opError(op, key, mapped)
	}
}

// readLimited reads all of r, failing with ErrTooLarge past max bytes.
// max <= 0 means unlimited.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}

// mapS3Error translates S3 failures into the package sentinels.
func mapS3Error(err error) error {
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return ErrNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return ErrNotFound
		case "PreconditionFailed":
			return ErrKeyExists
		case "AccessDenied", "Forbidden":
			return ErrAccessDenied
		}
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusPreconditionFailed {
		return ErrKeyExists
	}

	return fmt.Errorf("r2: %w", err)
}
