package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	generativeScope      = "https://www.googleapis.com/auth/generative-language"
)

// GeminiREST calls the Generative Language API over plain HTTP.
// It authenticates with an API key or, when present, an OAuth2 token source.
type GeminiREST struct {
	apiKey      string
	model       string
	baseURL     string
	client      *http.Client
	tokenSource oauth2.TokenSource
}

// GeminiRESTConfig configures a GeminiREST client.
type GeminiRESTConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	TokenSource oauth2.TokenSource
}

// NewGeminiREST constructs a REST client for the desired model.
func NewGeminiREST(cfg GeminiRESTConfig) *GeminiREST {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	model := normalizeModel(cfg.Model)
	if model == "" {
		model = defaultContentModel
	}
	return &GeminiREST{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		baseURL:     base,
		client:      &http.Client{Timeout: timeout},
		tokenSource: cfg.TokenSource,
	}
}

// ServiceAccountTokenSource loads service account credentials from inline JSON or a file.
// It returns nil when neither is configured.
func ServiceAccountTokenSource(ctx context.Context, file, inline string) (oauth2.TokenSource, error) {
	raw := []byte(strings.TrimSpace(inline))
	if len(raw) == 0 && strings.TrimSpace(file) != "" {
		data, err := os.ReadFile(strings.TrimSpace(file))
		if err != nil {
			return nil, fmt.Errorf("gemini: read service account: %w", err)
		}
		raw = data
	}
	if len(raw) == 0 {
		return nil, nil
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, generativeScope)
	if err != nil {
		return nil, fmt.Errorf("gemini: parse service account: %w", err)
	}
	return creds.TokenSource, nil
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

// GenerateContent posts one user turn to :generateContent and joins the text parts of the first candidate.
func (c *GeminiREST) GenerateContent(ctx context.Context, req ContentRequest) (string, error) {
	parts := make([]requestPart, 0, 2)
	if len(req.Image) > 0 {
		parts = append(parts, requestPart{InlineData: &inlineData{
			MIMEType: req.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Image),
		}})
	}
	parts = append(parts, requestPart{Text: req.Instruction})

	generationConfig := map[string]any{
		"temperature": req.Temperature,
	}
	if req.Schema != nil {
		generationConfig["responseMimeType"] = "application/json"
		generationConfig["responseSchema"] = req.Schema
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": parts},
		},
		"generationConfig": generationConfig,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal payload: %w", err)
	}

	model := resolveModel(ctx, req.Model, c.model)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	if c.tokenSource == nil {
		if c.apiKey == "" {
			return "", fmt.Errorf("gemini: missing API key or service account credentials")
		}
		endpoint = fmt.Sprintf("%s?key=%s", endpoint, url.QueryEscape(c.apiKey))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return "", fmt.Errorf("gemini: fetch oauth token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, failure.Error.Message)
	}

	var completion struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: returned no candidates")
	}

	var texts []string
	for _, part := range completion.Candidates[0].Content.Parts {
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			texts = append(texts, trimmed)
		}
	}
	return strings.Join(texts, "\n"), nil
}
