package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"roomMakerAi/internal/llm"
	"roomMakerAi/internal/prompts"
)

const (
	// OutputMIMEType is the format requested for every render.
	OutputMIMEType = "image/jpeg"
	// AspectRatio of every render.
	AspectRatio = "16:9"
)

// ImageReference is a rendered image held in memory.
type ImageReference struct {
	Data     []byte
	MIMEType string
}

// DataURI encodes the image for inline display.
func (r ImageReference) DataURI() string {
	if len(r.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", r.MIMEType, base64.StdEncoding.EncodeToString(r.Data))
}

// Renderer produces one styled room image from a description.
type Renderer interface {
	RequestStyledImage(ctx context.Context, prompt string) (ImageReference, error)
}

// ImagenRenderer asks an image model for a single photorealistic render.
type ImagenRenderer struct {
	gen   llm.ImageGenerator
	model string
}

// NewImagenRenderer wraps an image generator. An empty model uses the backend default.
func NewImagenRenderer(gen llm.ImageGenerator, model string) *ImagenRenderer {
	return &ImagenRenderer{gen: gen, model: strings.TrimSpace(model)}
}

// RequestStyledImage renders prompt. Provider errors and empty results are
// reported as llm.ErrGenerationFailed.
func (r *ImagenRenderer) RequestStyledImage(ctx context.Context, prompt string) (ImageReference, error) {
	if r == nil || r.gen == nil {
		return ImageReference{}, fmt.Errorf("render: renderer unavailable: %w", llm.ErrGenerationFailed)
	}
	if strings.TrimSpace(prompt) == "" {
		return ImageReference{}, fmt.Errorf("render: prompt is required")
	}

	images, err := r.gen.GenerateImages(ctx, llm.ImageRequest{
		Model:       r.model,
		Prompt:      prompts.RenderPrompt(prompt),
		Count:       1,
		MIMEType:    OutputMIMEType,
		AspectRatio: AspectRatio,
	})
	if err != nil {
		return ImageReference{}, fmt.Errorf("render: %w: %w", llm.ErrGenerationFailed, err)
	}
	if len(images) == 0 || len(images[0].Data) == 0 {
		return ImageReference{}, fmt.Errorf("render: %w: no image returned", llm.ErrGenerationFailed)
	}

	mime := images[0].MIMEType
	if mime == "" {
		mime = OutputMIMEType
	}
	return ImageReference{Data: images[0].Data, MIMEType: mime}, nil
}
