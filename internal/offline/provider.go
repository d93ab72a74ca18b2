package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strconv"
	"strings"

	"roomMakerAi/internal/llm"
	"roomMakerAi/internal/styles"
)

const (
	renderWidth  = 640
	renderHeight = 360
)

// Provider is a deterministic stand-in for the remote models. It reads the
// style out of the instruction or prompt and answers from the catalog.
type Provider struct{}

// New returns an offline provider.
func New() Provider {
	return Provider{}
}

// GenerateContent returns design ideas shaped like a real model response.
func (Provider) GenerateContent(ctx context.Context, req llm.ContentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Image) == 0 {
		return "", fmt.Errorf("offline: image is required")
	}
	style := styleFor(req.Instruction)

	suggestions := make([]string, 0, len(style.Keywords)+1)
	for _, keyword := range style.Keywords {
		suggestions = append(suggestions, fmt.Sprintf("Introduce %s to set the %s tone.", keyword, style.Name))
	}
	suggestions = append(suggestions, "Edit accessories down to a few pieces that share the palette.")

	alternative := fmt.Sprintf("Soft %s", style.Name)
	payload := map[string]any{
		"currentStyle": fmt.Sprintf("A lived-in room that could move toward a %s look.", style.Name),
		"redesignConcept": map[string]any{
			"title":       fmt.Sprintf("%s Refresh", style.Name),
			"description": fmt.Sprintf("A %s take on the existing layout built around %s.", style.Name, strings.Join(style.Keywords, ", ")),
			"suggestions": suggestions,
		},
		"alternativeConcept": map[string]any{
			"title":       alternative,
			"description": fmt.Sprintf("A gentler %s direction that keeps most current furniture.", style.Name),
			"suggestions": []string{
				fmt.Sprintf("Swap textiles for %s accents.", style.Palette[1]),
				fmt.Sprintf("Repaint one wall in %s.", style.Palette[2]),
			},
		},
		"colorPalette": style.Palette,
		"shoppingIdeas": []map[string]string{
			{"item": "Throw pillows in the palette colors", "estimatedPrice": "$20-40"},
			{"item": fmt.Sprintf("Lamp with %s character", style.Keywords[0]), "estimatedPrice": "$40-80"},
			{"item": "Area rug", "estimatedPrice": "$60-120"},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("offline: encode ideas: %w", err)
	}
	return string(raw), nil
}

// GenerateImages paints horizontal bands of the style palette as a JPEG.
func (Provider) GenerateImages(ctx context.Context, req llm.ImageRequest) ([]llm.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("offline: prompt is required")
	}
	style := styleFor(req.Prompt)

	count := req.Count
	if count <= 0 {
		count = 1
	}
	data, err := paletteJPEG(style.Palette)
	if err != nil {
		return nil, err
	}
	images := make([]llm.Image, count)
	for i := range images {
		images[i] = llm.Image{Data: data, MIMEType: "image/jpeg"}
	}
	return images, nil
}

func styleFor(text string) styles.Style {
	if style, ok := styles.Match(text); ok {
		return style
	}
	style, _ := styles.Lookup("Modern")
	return style
}

func paletteJPEG(palette []string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, renderWidth, renderHeight))
	band := renderHeight / len(palette)
	for i, hex := range palette {
		c := parseHex(hex)
		top := i * band
		bottom := top + band
		if i == len(palette)-1 {
			bottom = renderHeight
		}
		for y := top; y < bottom; y++ {
			for x := 0; x < renderWidth; x++ {
				img.Set(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("offline: encode render: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHex(hex string) color.RGBA {
	clean := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(clean) != 6 {
		return color.RGBA{A: 0xFF}
	}
	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}
