package llm

import (
	"context"
	"strings"
)

type contextKey string

const modelContextKey contextKey = "llm-model-override"

// WithModel returns a context carrying a preferred content model override.
func WithModel(ctx context.Context, model string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	model = normalizeModel(model)
	if model == "" {
		return ctx
	}
	return context.WithValue(ctx, modelContextKey, model)
}

// ModelFromContext extracts the requested model override, if any.
func ModelFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(modelContextKey).(string); ok {
		return normalizeModel(value)
	}
	return ""
}

// resolveModel picks the context override, then the request model, then the fallback.
func resolveModel(ctx context.Context, requested, fallback string) string {
	if override := ModelFromContext(ctx); override != "" {
		return override
	}
	if model := normalizeModel(requested); model != "" {
		return model
	}
	return normalizeModel(fallback)
}

func normalizeModel(model string) string {
	clean := strings.TrimSpace(model)
	return strings.TrimPrefix(clean, "models/")
}
