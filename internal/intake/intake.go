package intake

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageBytes caps uploads at what the multimodal endpoint accepts inline.
const MaxImageBytes = 7 * 1024 * 1024

// ErrRead marks every failure to turn an upload into a usable image.
var ErrRead = errors.New("failed to read the image file")

var accepted = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Upload is an ingested room photo.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
	Base64   string
}

// PreviewURI renders the upload as an embeddable data URI.
func (u Upload) PreviewURI() string {
	if len(u.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", u.MIMEType, u.Base64)
}

// Size returns the number of raw bytes.
func (u Upload) Size() int {
	return len(u.Data)
}

// Ingest reads an image from r and prepares the base64 payload sent to the provider.
func Ingest(r io.Reader, filename, declaredMIME string) (Upload, error) {
	if r == nil {
		return Upload{}, fmt.Errorf("%w: no file", ErrRead)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("%w: empty file", ErrRead)
	}
	if len(data) > MaxImageBytes {
		return Upload{}, fmt.Errorf("%w: file exceeds %d bytes", ErrRead, MaxImageBytes)
	}

	mime := DetectMIME(data, declaredMIME)
	if !accepted[mime] {
		return Upload{}, fmt.Errorf("%w: unsupported type %q", ErrRead, mime)
	}

	name := strings.TrimSpace(filename)
	if name != "" {
		name = filepath.Base(name)
	}
	return Upload{
		Filename: name,
		MIMEType: mime,
		Data:     data,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

// DetectMIME sniffs the content. The declared type is used only when sniffing
// cannot identify the bytes and the declared type is an accepted image type.
func DetectMIME(data []byte, declared string) string {
	sniffed := baseType(http.DetectContentType(data))
	if sniffed != "application/octet-stream" {
		return sniffed
	}
	mime := baseType(declared)
	if mime == "image/jpg" {
		mime = "image/jpeg"
	}
	if accepted[mime] {
		return mime
	}
	return sniffed
}

func baseType(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}
