package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

// 1x1 JPEG.
var tinyJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9,
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestIngest(t *testing.T) {
	up, err := Ingest(bytes.NewReader(tinyJPEG), "uploads/room.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if up.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", up.MIMEType)
	}
	if up.Filename != "room.jpg" {
		t.Errorf("Filename = %q, want room.jpg", up.Filename)
	}
	if up.Base64 != base64.StdEncoding.EncodeToString(tinyJPEG) {
		t.Error("Base64 does not match the raw bytes")
	}
	if !strings.HasPrefix(up.PreviewURI(), "data:image/jpeg;base64,") {
		t.Errorf("PreviewURI() = %q", up.PreviewURI())
	}
	if up.Size() != len(tinyJPEG) {
		t.Errorf("Size() = %d, want %d", up.Size(), len(tinyJPEG))
	}
}

func TestIngestSniffsUndeclaredType(t *testing.T) {
	up, err := Ingest(bytes.NewReader(pngHeader), "room", "application/octet-stream")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if up.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", up.MIMEType)
	}
}

func TestIngestFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{name: "empty", data: nil, mime: "image/png"},
		{name: "text file", data: []byte("hello there, not an image"), mime: ""},
		{name: "text declared as png", data: []byte("hello there, not an image"), mime: "image/png"},
		{name: "gif rejected", data: []byte("GIF89a\x01\x00\x01\x00"), mime: "image/gif"},
		{name: "too large", data: bytes.Repeat([]byte{0xFF}, MaxImageBytes+1), mime: "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Ingest(bytes.NewReader(tt.data), "file", tt.mime)
			if !errors.Is(err, ErrRead) {
				t.Fatalf("Ingest() error = %v, want ErrRead", err)
			}
		})
	}
}

func TestIngestReaderError(t *testing.T) {
	_, err := Ingest(iotest.ErrReader(errors.New("disk gone")), "room.png", "image/png")
	if !errors.Is(err, ErrRead) {
		t.Fatalf("Ingest() error = %v, want ErrRead", err)
	}
	if !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("error %q should carry the cause", err)
	}
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		declared string
		data     []byte
		want     string
	}{
		{"image/jpg", tinyJPEG, "image/jpeg"},
		{"IMAGE/PNG; charset=binary", pngHeader, "image/png"},
		{"", tinyJPEG, "image/jpeg"},
		{"text/plain", pngHeader, "image/png"},
		{"image/png", tinyJPEG, "image/jpeg"},
		{"image/png", []byte("just some text"), "text/plain"},
		{"image/jpg", []byte{0x00, 0x01, 0x02, 0x03}, "image/jpeg"},
		{"application/pdf", []byte{0x00, 0x01, 0x02, 0x03}, "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := DetectMIME(tt.data, tt.declared); got != tt.want {
			t.Errorf("DetectMIME(%q) = %q, want %q", tt.declared, got, tt.want)
		}
	}
}
