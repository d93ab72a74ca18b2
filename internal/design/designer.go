package design

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"roomMakerAi/internal/llm"
	"roomMakerAi/internal/prompts"
)

// DefaultTemperature is the sampling temperature used for design ideas.
const DefaultTemperature float32 = 0.7

// Designer produces DesignIdeas for a room photo in a target style.
type Designer interface {
	RequestDesignIdeas(ctx context.Context, image []byte, mimeType, style string) (DesignIdeas, error)
}

// GeminiDesigner asks a multimodal model for schema-constrained design ideas.
type GeminiDesigner struct {
	gen         llm.ContentGenerator
	model       string
	temperature float32
	logger      *zap.Logger
}

// Option customises a GeminiDesigner.
type Option func(*GeminiDesigner)

// WithModel sets the content model name.
func WithModel(model string) Option {
	return func(d *GeminiDesigner) { d.model = strings.TrimSpace(model) }
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(t float32) Option {
	return func(d *GeminiDesigner) { d.temperature = t }
}

// WithLogger attaches a logger; warnings about the response shape go there.
func WithLogger(logger *zap.Logger) Option {
	return func(d *GeminiDesigner) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewGeminiDesigner constructs a designer backed by the given content generator.
func NewGeminiDesigner(gen llm.ContentGenerator, opts ...Option) *GeminiDesigner {
	d := &GeminiDesigner{
		gen:         gen,
		temperature: DefaultTemperature,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RequestDesignIdeas sends the photo and style instruction in one call. Provider errors and
// non-conformant output are both reported as llm.ErrGenerationFailed.
func (d *GeminiDesigner) RequestDesignIdeas(ctx context.Context, image []byte, mimeType, style string) (DesignIdeas, error) {
	if d == nil || d.gen == nil {
		return DesignIdeas{}, fmt.Errorf("design: designer unavailable: %w", llm.ErrGenerationFailed)
	}
	if len(image) == 0 {
		return DesignIdeas{}, fmt.Errorf("design: image is required")
	}
	if strings.TrimSpace(style) == "" {
		return DesignIdeas{}, fmt.Errorf("design: style is required")
	}

	text, err := d.gen.GenerateContent(ctx, llm.ContentRequest{
		Model:       d.model,
		Instruction: prompts.DesignInstruction(style),
		Image:       image,
		MIMEType:    mimeType,
		Schema:      ResponseSchema(),
		Temperature: d.temperature,
	})
	if err != nil {
		return DesignIdeas{}, fmt.Errorf("design: %w: %w", llm.ErrGenerationFailed, err)
	}

	ideas, warnings, err := Parse(text)
	if err != nil {
		d.logger.Warn("design ideas rejected", zap.String("style", style), zap.Error(err))
		return DesignIdeas{}, fmt.Errorf("design: %w: %w", llm.ErrGenerationFailed, err)
	}
	if len(warnings) > 0 {
		d.logger.Warn("design ideas deviate from requested shape",
			zap.String("style", style),
			zap.Strings("warnings", warnings),
		)
	}
	return ideas, nil
}
