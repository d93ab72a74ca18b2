package media

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUploaderDisabled indicates that uploads are not currently enabled.
var ErrUploaderDisabled = errors.New("media uploader disabled")

// UploadInput wraps the payload required for persisting a file.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// UploadResult captures the canonical object key and its accessible URL.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Uploader hides the backing implementation for storing files.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (UploadResult, error)
}

// Config selects and configures the export target. A bucket enables S3,
// otherwise a local directory, otherwise uploads are disabled.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicURL       string
	KeyPrefix       string
	ForcePathStyle  bool
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
	LocalDir        string
}

// New picks the uploader that matches cfg.
func New(ctx context.Context, cfg Config) (Uploader, error) {
	switch {
	case cfg.Bucket != "" && cfg.Region != "":
		s3Up, err := NewS3Uploader(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3Up, nil
	case strings.TrimSpace(cfg.LocalDir) != "":
		local, err := NewLocalUploader(cfg.LocalDir, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return Disabled(), nil
	}
}

type disabledUploader struct{}

func (disabledUploader) Upload(_ context.Context, _ UploadInput) (UploadResult, error) {
	return UploadResult{}, ErrUploaderDisabled
}

// Disabled returns an uploader that always signals disabled uploads.
func Disabled() Uploader {
	return disabledUploader{}
}

// buildKey names an object uuid+ext under prefix.
func buildKey(prefix, filename string) string {
	name := uuid.NewString()
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 10 {
		name += ext
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
