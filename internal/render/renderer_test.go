package render

import (
	"context"
	"errors"
	"testing"

	"roomMakerAi/internal/llm"
)

type fakeImages struct {
	images []llm.Image
	err    error
	got    llm.ImageRequest
}

func (f *fakeImages) GenerateImages(_ context.Context, req llm.ImageRequest) ([]llm.Image, error) {
	f.got = req
	return f.images, f.err
}

func TestRequestStyledImage(t *testing.T) {
	gen := &fakeImages{images: []llm.Image{{Data: []byte("jpeg"), MIMEType: ""}}}
	ref, err := NewImagenRenderer(gen, "imagen-3.0-generate-002").RequestStyledImage(context.Background(), "A photo of a room redesigned in a Rustic style.")
	if err != nil {
		t.Fatalf("RequestStyledImage() error = %v", err)
	}
	if string(ref.Data) != "jpeg" || ref.MIMEType != "image/jpeg" {
		t.Errorf("ref = %+v", ref)
	}
	if ref.DataURI() != "data:image/jpeg;base64,anBlZw==" {
		t.Errorf("DataURI() = %q", ref.DataURI())
	}

	want := llm.ImageRequest{
		Model:       "imagen-3.0-generate-002",
		Prompt:      "Generate a photorealistic image of a room based on this description: A photo of a room redesigned in a Rustic style. The image should look professionally designed and well-lit.",
		Count:       1,
		MIMEType:    "image/jpeg",
		AspectRatio: "16:9",
	}
	if gen.got != want {
		t.Errorf("request =\n%+v\nwant\n%+v", gen.got, want)
	}
}

func TestRequestStyledImageFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeImages
	}{
		{name: "provider error", gen: &fakeImages{err: errors.New("blocked")}},
		{name: "zero images", gen: &fakeImages{}},
		{name: "empty bytes", gen: &fakeImages{images: []llm.Image{{MIMEType: "image/jpeg"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImagenRenderer(tt.gen, "").RequestStyledImage(context.Background(), "a room")
			if !errors.Is(err, llm.ErrGenerationFailed) {
				t.Fatalf("error = %v, want ErrGenerationFailed", err)
			}
		})
	}
}

func TestDataURIEmpty(t *testing.T) {
	if got := (ImageReference{}).DataURI(); got != "" {
		t.Errorf("DataURI() = %q, want empty", got)
	}
}
