package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const exportCacheControl = "private, max-age=86400"

// S3Uploader publishes exports to an S3 bucket or an S3-compatible store.
// Without a public base URL and with PresignTTL set, returned URLs are
// presigned GET links so private buckets still yield a usable address.
type S3Uploader struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	region     string
	baseURL    string
	prefix     string
	presignTTL time.Duration
}

// NewS3Uploader loads the AWS configuration for cfg.Region and builds the client.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("media: bucket and region are required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws sdk config: %w", err)
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = cfg.ForcePathStyle
		}
	})

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" && endpoint != "" && cfg.ForcePathStyle && cfg.PresignTTL <= 0 {
		publicURL = endpoint + "/" + cfg.Bucket
	}

	return &S3Uploader{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		baseURL:    publicURL,
		prefix:     strings.Trim(cfg.KeyPrefix, "/"),
		presignTTL: cfg.PresignTTL,
	}, nil
}

// Upload stores one export object under a fresh key.
func (u *S3Uploader) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, errors.New("media: upload body is required")
	}

	key := buildKey(u.prefix, input.Filename)
	put := &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         input.Body,
		CacheControl: aws.String(exportCacheControl),
	}
	if input.ContentType != "" {
		put.ContentType = aws.String(input.ContentType)
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}
	if input.Filename != "" {
		put.Metadata = map[string]string{"source-name": input.Filename}
	}

	if _, err := u.client.PutObject(ctx, put); err != nil {
		return UploadResult{}, fmt.Errorf("media: put object %s: %w", key, err)
	}

	url, err := u.objectURL(ctx, key)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Key: key, URL: url}, nil
}

func (u *S3Uploader) objectURL(ctx context.Context, key string) (string, error) {
	switch {
	case u.baseURL != "":
		return u.baseURL + "/" + key, nil
	case u.presignTTL > 0:
		req, err := u.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(u.presignTTL))
		if err != nil {
			return "", fmt.Errorf("media: presign %s: %w", key, err)
		}
		return req.URL, nil
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
	}
}
