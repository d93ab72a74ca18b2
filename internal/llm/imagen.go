package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// VertexImagen implements ImageGenerator through the Vertex AI prediction endpoint.
type VertexImagen struct {
	projectID          string
	location           string
	model              string
	apiKey             string
	serviceAccount     string
	serviceAccountJSON string
	timeout            time.Duration
}

// VertexImagenConfig describes how to connect to Imagen.
type VertexImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
	Timeout            time.Duration
}

// NewVertexImagen wires a VertexImagen client.
func NewVertexImagen(cfg VertexImagenConfig) *VertexImagen {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &VertexImagen{
		projectID:          strings.TrimSpace(cfg.ProjectID),
		location:           strings.TrimSpace(cfg.Location),
		model:              normalizeModel(cfg.Model),
		apiKey:             strings.TrimSpace(cfg.APIKey),
		serviceAccount:     strings.TrimSpace(cfg.ServiceAccount),
		serviceAccountJSON: strings.TrimSpace(cfg.ServiceAccountJSON),
		timeout:            timeout,
	}
}

// GenerateImages runs a text-to-image prediction.
func (v *VertexImagen) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	if v == nil {
		return nil, fmt.Errorf("imagen: client not configured")
	}
	model := normalizeModel(req.Model)
	if model == "" {
		model = v.model
	}
	if model == "" {
		model = defaultImageModel
	}
	if v.projectID == "" || v.location == "" {
		return nil, fmt.Errorf("imagen: missing project/location")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("imagen: prompt is required")
	}

	instance, params, err := predictPayload(req)
	if err != nil {
		return nil, err
	}

	childCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	client, err := aiplatform.NewPredictionClient(childCtx, v.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("imagen: prediction client: %w", err)
	}
	defer client.Close()

	resp, err := client.Predict(childCtx, &aiplatformpb.PredictRequest{
		Endpoint:   fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", v.projectID, v.location, model),
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("imagen: predict: %w", err)
	}
	return decodePredictions(resp.GetPredictions(), req.MIMEType)
}

func (v *VertexImagen) clientOptions() []option.ClientOption {
	options := []option.ClientOption{option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", v.location))}
	switch {
	case v.serviceAccountJSON != "":
		options = append(options, option.WithCredentialsJSON([]byte(v.serviceAccountJSON)))
	case v.serviceAccount != "":
		options = append(options, option.WithCredentialsFile(v.serviceAccount))
	case v.apiKey != "":
		options = append(options, option.WithAPIKey(v.apiKey))
	}
	return options
}

func predictPayload(req ImageRequest) (*structpb.Value, *structpb.Value, error) {
	instance, err := structpb.NewValue(map[string]any{"prompt": req.Prompt})
	if err != nil {
		return nil, nil, fmt.Errorf("imagen: instance: %w", err)
	}

	count := req.Count
	if count <= 0 {
		count = 1
	}
	parameters := map[string]any{"sampleCount": count}
	if req.AspectRatio != "" {
		parameters["aspectRatio"] = req.AspectRatio
	}
	if req.MIMEType != "" {
		parameters["outputOptions"] = map[string]any{"mimeType": req.MIMEType}
	}
	params, err := structpb.NewValue(parameters)
	if err != nil {
		return nil, nil, fmt.Errorf("imagen: parameters: %w", err)
	}
	return instance, params, nil
}

func decodePredictions(predictions []*structpb.Value, fallbackMIME string) ([]Image, error) {
	images := make([]Image, 0, len(predictions))
	for _, prediction := range predictions {
		fields := prediction.GetStructValue().GetFields()
		encoded := fields["bytesBase64Encoded"].GetStringValue()
		if encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("imagen: decode result: %w", err)
		}
		mime := fields["mimeType"].GetStringValue()
		if mime == "" {
			mime = fallbackMIME
		}
		images = append(images, Image{Data: data, MIMEType: mime})
	}
	return images, nil
}
