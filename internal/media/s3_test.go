package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordedPut struct {
	method, path, contentType, cacheControl string
}

func fakeS3(t *testing.T) (*httptest.Server, func() []recordedPut) {
	t.Helper()
	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{
			method:       r.Method,
			path:         r.URL.Path,
			contentType:  r.Header.Get("Content-Type"),
			cacheControl: r.Header.Get("Cache-Control"),
		})
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedPut {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedPut(nil), puts...)
	}
}

func s3Config(endpoint string) Config {
	return Config{
		Bucket:          "rooms",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		KeyPrefix:       "exports",
		ForcePathStyle:  true,
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
	}
}

func TestS3UploaderPutsObject(t *testing.T) {
	srv, recorded := fakeS3(t)
	up, err := New(context.Background(), s3Config(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := up.(*S3Uploader); !ok {
		t.Fatalf("uploader = %T, want *S3Uploader", up)
	}

	data := []byte("jpeg-bytes")
	res, err := up.Upload(context.Background(), UploadInput{
		Filename:    "render.jpg",
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(res.Key, "exports/") || !strings.HasSuffix(res.Key, ".jpg") {
		t.Errorf("key = %q", res.Key)
	}
	if want := srv.URL + "/rooms/" + res.Key; res.URL != want {
		t.Errorf("url = %q, want %q", res.URL, want)
	}

	puts := recorded()
	if len(puts) != 1 {
		t.Fatalf("requests = %d, want 1", len(puts))
	}
	got := puts[0]
	if got.method != http.MethodPut || got.path != "/rooms/"+res.Key {
		t.Errorf("request = %s %s", got.method, got.path)
	}
	if got.contentType != "image/jpeg" || got.cacheControl != exportCacheControl {
		t.Errorf("headers = %+v", got)
	}
}

func TestS3UploaderObjectURL(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantPrefix string
		wantQuery  string
	}{
		{
			name:       "public base url",
			mutate:     func(c *Config) { c.PublicURL = "https://cdn.example.com/" },
			wantPrefix: "https://cdn.example.com/exports/",
		},
		{
			name: "presigned",
			mutate: func(c *Config) {
				c.Endpoint = "https://s3.example.com"
				c.PresignTTL = 15 * time.Minute
			},
			wantPrefix: "https://s3.example.com/rooms/exports/",
			wantQuery:  "X-Amz-Expires=900",
		},
		{
			name:       "virtual hosted aws",
			mutate:     func(c *Config) { c.Endpoint = ""; c.ForcePathStyle = false },
			wantPrefix: "https://rooms.s3.us-east-1.amazonaws.com/exports/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := s3Config("")
			tt.mutate(&cfg)
			up, err := NewS3Uploader(context.Background(), cfg)
			if err != nil {
				t.Fatalf("NewS3Uploader() error = %v", err)
			}
			url, err := up.objectURL(context.Background(), "exports/abc.jpg")
			if err != nil {
				t.Fatalf("objectURL() error = %v", err)
			}
			if !strings.HasPrefix(url, tt.wantPrefix) {
				t.Errorf("url = %q, want prefix %q", url, tt.wantPrefix)
			}
			if tt.wantQuery != "" && !strings.Contains(url, tt.wantQuery) {
				t.Errorf("url = %q, want %q", url, tt.wantQuery)
			}
		})
	}
}

func TestS3UploaderRequiresBucket(t *testing.T) {
	if _, err := NewS3Uploader(context.Background(), Config{Region: "us-east-1"}); err == nil {
		t.Error("expected error without bucket")
	}
}
