package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"roomMakerAi/internal/config"
	"roomMakerAi/internal/design"
	"roomMakerAi/internal/llm"
	"roomMakerAi/internal/media"
	"roomMakerAi/internal/offline"
	"roomMakerAi/internal/redesign"
	"roomMakerAi/internal/render"
)

// Components are the long-lived services shared by the API server and the CLI.
type Components struct {
	Orchestrator *redesign.Orchestrator
	Uploader     media.Uploader
}

// Build selects the provider backends from cfg and wires the orchestrator.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (Components, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	content, images, imageModel, err := providers(ctx, cfg, logger)
	if err != nil {
		return Components{}, err
	}

	designer := design.NewGeminiDesigner(content,
		design.WithModel(cfg.AI.DesignModel),
		design.WithTemperature(cfg.AI.Temperature),
		design.WithLogger(logger.Named("design")),
	)
	renderer := render.NewImagenRenderer(images, imageModel)

	uploader, err := media.New(ctx, media.Config{
		Bucket:          cfg.Media.Bucket,
		Region:          cfg.Media.Region,
		Endpoint:        cfg.Media.Endpoint,
		PublicURL:       cfg.Media.PublicURL,
		KeyPrefix:       cfg.Media.KeyPrefix,
		ForcePathStyle:  cfg.Media.ForcePathStyle,
		AccessKeyID:     cfg.Media.AccessKeyID,
		SecretAccessKey: cfg.Media.SecretAccessKey,
		PresignTTL:      cfg.Media.PresignTTL,
		LocalDir:        cfg.Media.LocalDir,
	})
	if err != nil {
		return Components{}, fmt.Errorf("bootstrap: media uploader: %w", err)
	}

	return Components{
		Orchestrator: redesign.New(designer, renderer, logger.Named("redesign")),
		Uploader:     uploader,
	}, nil
}

func providers(ctx context.Context, cfg config.Config, logger *zap.Logger) (llm.ContentGenerator, llm.ImageGenerator, string, error) {
	ai := cfg.AI
	if ai.Backend == config.BackendOffline {
		logger.Info("provider ready: offline")
		p := offline.New()
		return p, p, "", nil
	}

	var (
		content llm.ContentGenerator
		images  llm.ImageGenerator
		sdk     *llm.GenAI
	)
	newSDK := func() (*llm.GenAI, error) {
		if sdk != nil {
			return sdk, nil
		}
		client, err := llm.NewGenAI(ctx, llm.GenAIConfig{
			APIKey:   ai.APIKey,
			Project:  ai.Vertex.ProjectID,
			Location: ai.Vertex.Location,
			Timeout:  ai.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		sdk = client
		return sdk, nil
	}

	switch ai.Backend {
	case config.BackendREST:
		tokens, err := llm.ServiceAccountTokenSource(ctx, ai.ServiceAccount, ai.ServiceAccountJSON)
		if err != nil {
			return nil, nil, "", fmt.Errorf("bootstrap: %w", err)
		}
		content = llm.NewGeminiREST(llm.GeminiRESTConfig{
			APIKey:      ai.APIKey,
			Model:       ai.DesignModel,
			Timeout:     ai.Timeout,
			TokenSource: tokens,
		})
		logger.Info("content provider ready: gemini rest", zap.Bool("service_account", tokens != nil))
	default:
		client, err := newSDK()
		if err != nil {
			return nil, nil, "", err
		}
		content = client
		logger.Info("content provider ready: genai sdk")
	}

	imageModel := ai.ImageModel
	if ai.Vertex.ProjectID != "" {
		images = llm.NewVertexImagen(llm.VertexImagenConfig{
			ProjectID:          ai.Vertex.ProjectID,
			Location:           ai.Vertex.Location,
			Model:              ai.Vertex.Model,
			APIKey:             ai.APIKey,
			ServiceAccount:     ai.ServiceAccount,
			ServiceAccountJSON: ai.ServiceAccountJSON,
			Timeout:            ai.Timeout,
		})
		imageModel = ai.Vertex.Model
		logger.Info("image provider ready: vertex imagen", zap.String("project", ai.Vertex.ProjectID))
	} else {
		if ai.APIKey == "" {
			return nil, nil, "", fmt.Errorf("bootstrap: image generation needs ai.api_key or ai.vertex.project_id")
		}
		client, err := newSDK()
		if err != nil {
			return nil, nil, "", err
		}
		images = client
		logger.Info("image provider ready: genai sdk")
	}
	return content, images, imageModel, nil
}
