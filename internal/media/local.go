package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// LocalUploader stores exports in a directory on disk.
type LocalUploader struct {
	BaseDir string
	Prefix  string
}

// NewLocalUploader constructs an uploader that writes below baseDir.
// If baseDir is empty, os.TempDir() is used.
func NewLocalUploader(baseDir, prefix string) (*LocalUploader, error) {
	dir := baseDir
	if dir == "" {
		dir = os.TempDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("media: resolve local dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("media: create local dir: %w", err)
	}
	return &LocalUploader{BaseDir: abs, Prefix: prefix}, nil
}

// Upload writes the content to a new file and returns its key and file URL.
func (l *LocalUploader) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, errors.New("media: upload body is required")
	}
	if err := ctx.Err(); err != nil {
		return UploadResult{}, err
	}

	key := buildKey(l.Prefix, input.Filename)
	target := filepath.Join(l.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return UploadResult{}, fmt.Errorf("media: create dir: %w", err)
	}

	file, err := os.Create(target)
	if err != nil {
		return UploadResult{}, fmt.Errorf("media: create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, input.Body); err != nil {
		os.Remove(target)
		return UploadResult{}, fmt.Errorf("media: write file: %w", err)
	}

	return UploadResult{
		Key: key,
		URL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(),
	}, nil
}
