package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultContentModel = "gemini-2.5-flash"
	defaultImageModel   = "imagen-3.0-generate-002"
)

// GenAIConfig selects the Gemini API (API key) or Vertex AI (project + location) backend.
type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
	BaseURL  string
	Timeout  time.Duration
}

// GenAI talks to the provider through the official genai SDK.
// It implements both ContentGenerator and ImageGenerator.
type GenAI struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGenAI constructs the SDK client once for the whole process.
func NewGenAI(ctx context.Context, cfg GenAIConfig) (*GenAI, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if project := strings.TrimSpace(cfg.Project); project != "" && clientCfg.APIKey == "" {
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = project
		clientCfg.Location = strings.TrimSpace(cfg.Location)
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GenAI{client: client, timeout: timeout}, nil
}

// GenerateContent sends the instruction and image as one user turn.
func (g *GenAI) GenerateContent(ctx context.Context, req ContentRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("genai: client unavailable")
	}

	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := resolveModel(ctx, req.Model, defaultContentModel)
	resp, err := g.client.Models.GenerateContent(childCtx, model, buildContents(req), buildContentConfig(req))
	if err != nil {
		return "", fmt.Errorf("genai: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("genai: response has no candidates")
	}
	return strings.TrimSpace(resp.Text()), nil
}

// GenerateImages renders req.Count images with the image model.
func (g *GenAI) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("genai: client unavailable")
	}

	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := normalizeModel(req.Model)
	if model == "" {
		model = defaultImageModel
	}
	resp, err := g.client.Models.GenerateImages(childCtx, model, req.Prompt, buildImagesConfig(req))
	if err != nil {
		return nil, fmt.Errorf("genai: generate images: %w", err)
	}
	if resp == nil {
		return nil, nil
	}

	images := make([]Image, 0, len(resp.GeneratedImages))
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mime := generated.Image.MIMEType
		if strings.TrimSpace(mime) == "" {
			mime = req.MIMEType
		}
		images = append(images, Image{Data: generated.Image.ImageBytes, MIMEType: mime})
	}
	return images, nil
}

func buildContents(req ContentRequest) []*genai.Content {
	parts := make([]*genai.Part, 0, 2)
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func buildContentConfig(req ContentRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	return cfg
}

func buildImagesConfig(req ImageRequest) *genai.GenerateImagesConfig {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	return &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		OutputMIMEType: req.MIMEType,
		AspectRatio:    req.AspectRatio,
	}
}
