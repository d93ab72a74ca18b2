package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// ErrGenerationFailed wraps every provider failure surfaced to callers:
// transport errors, empty output and output that violates the response contract.
var ErrGenerationFailed = errors.New("generation failed")

// ContentRequest is one multimodal call: an instruction, an optional inline image
// and an optional response schema the provider is asked to honor.
type ContentRequest struct {
	Model       string
	Instruction string
	Image       []byte
	MIMEType    string
	Schema      *genai.Schema
	Temperature float32
}

// ContentGenerator returns the raw text of the first candidate.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req ContentRequest) (string, error)
}

// ImageRequest asks for Count images rendered from Prompt.
type ImageRequest struct {
	Model       string
	Prompt      string
	Count       int
	MIMEType    string
	AspectRatio string
}

// Image is one rendered image returned by a provider.
type Image struct {
	Data     []byte
	MIMEType string
}

// ImageGenerator renders images from text prompts.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error)
}
