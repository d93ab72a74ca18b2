package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// DesignConcept is one named redesign direction.
type DesignConcept struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

// ShoppingIdea is a purchasable item with a free-form price range.
type ShoppingIdea struct {
	Item           string `json:"item"`
	EstimatedPrice string `json:"estimatedPrice"`
}

// DesignIdeas is the structured answer for one room photo and style.
type DesignIdeas struct {
	CurrentStyle       string         `json:"currentStyle"`
	RedesignConcept    DesignConcept  `json:"redesignConcept"`
	AlternativeConcept DesignConcept  `json:"alternativeConcept"`
	ColorPalette       []string       `json:"colorPalette"`
	ShoppingIdeas      []ShoppingIdea `json:"shoppingIdeas"`
}

var (
	// ErrMalformed means the model output was not a single JSON object.
	ErrMalformed = errors.New("design: response is not a JSON object")
	// ErrIncomplete means a required field was absent or null.
	ErrIncomplete = errors.New("design: response is missing required fields")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func conceptSchema(suggestions string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"suggestions": {
				Type:        genai.TypeArray,
				Description: suggestions,
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "description", "suggestions"},
	}
}

// ResponseSchema describes DesignIdeas for schema-constrained generation.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"currentStyle": {
				Type:        genai.TypeString,
				Description: "A brief, one-sentence analysis of the room's current style.",
			},
			"redesignConcept":    conceptSchema("3-4 specific, actionable suggestions for the redesign."),
			"alternativeConcept": conceptSchema("2-3 suggestions for the alternative idea."),
			"colorPalette": {
				Type:        genai.TypeArray,
				Description: "An array of 4 hex color codes that match the new style.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"shoppingIdeas": {
				Type:        genai.TypeArray,
				Description: "3 budget-friendly item ideas to achieve the look.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item":           {Type: genai.TypeString},
						"estimatedPrice": {Type: genai.TypeString, Description: "e.g., '$20-40'"},
					},
					Required: []string{"item", "estimatedPrice"},
				},
			},
		},
		Required: []string{"currentStyle", "redesignConcept", "alternativeConcept", "colorPalette", "shoppingIdeas"},
	}
}

type wireConcept struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Suggestions *[]string `json:"suggestions"`
}

type wireShopping struct {
	Item           *string `json:"item"`
	EstimatedPrice *string `json:"estimatedPrice"`
}

type wireIdeas struct {
	CurrentStyle       *string         `json:"currentStyle"`
	RedesignConcept    *wireConcept    `json:"redesignConcept"`
	AlternativeConcept *wireConcept    `json:"alternativeConcept"`
	ColorPalette       *[]string       `json:"colorPalette"`
	ShoppingIdeas      *[]wireShopping `json:"shoppingIdeas"`
}

// Parse decodes model output into DesignIdeas. Code fences and prose around a single
// JSON object are tolerated. Every field must be present and non-null; blank values,
// cardinality and color format deviations are returned as warnings and the values
// are kept as received.
func Parse(text string) (DesignIdeas, []string, error) {
	raw, err := extractObject(text)
	if err != nil {
		return DesignIdeas{}, nil, err
	}

	var wire wireIdeas
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return DesignIdeas{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var missing []string
	requireString := func(field string, v *string) string {
		if v == nil {
			missing = append(missing, field)
			return ""
		}
		return *v
	}

	ideas := DesignIdeas{
		CurrentStyle:       requireString("currentStyle", wire.CurrentStyle),
		RedesignConcept:    convertConcept("redesignConcept", wire.RedesignConcept, &missing),
		AlternativeConcept: convertConcept("alternativeConcept", wire.AlternativeConcept, &missing),
	}

	if wire.ColorPalette == nil {
		missing = append(missing, "colorPalette")
	} else {
		ideas.ColorPalette = *wire.ColorPalette
	}

	if wire.ShoppingIdeas == nil {
		missing = append(missing, "shoppingIdeas")
	} else {
		ideas.ShoppingIdeas = make([]ShoppingIdea, 0, len(*wire.ShoppingIdeas))
		for i, item := range *wire.ShoppingIdeas {
			prefix := fmt.Sprintf("shoppingIdeas[%d]", i)
			ideas.ShoppingIdeas = append(ideas.ShoppingIdeas, ShoppingIdea{
				Item:           requireString(prefix+".item", item.Item),
				EstimatedPrice: requireString(prefix+".estimatedPrice", item.EstimatedPrice),
			})
		}
	}

	if len(missing) > 0 {
		return DesignIdeas{}, nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return ideas, Warnings(ideas), nil
}

func convertConcept(field string, wire *wireConcept, missing *[]string) DesignConcept {
	if wire == nil {
		*missing = append(*missing, field)
		return DesignConcept{}
	}
	var concept DesignConcept
	if wire.Title == nil {
		*missing = append(*missing, field+".title")
	} else {
		concept.Title = *wire.Title
	}
	if wire.Description == nil {
		*missing = append(*missing, field+".description")
	} else {
		concept.Description = *wire.Description
	}
	if wire.Suggestions == nil {
		*missing = append(*missing, field+".suggestions")
	} else {
		concept.Suggestions = *wire.Suggestions
	}
	return concept
}

// Warnings lists soft deviations from the requested shape.
func Warnings(ideas DesignIdeas) []string {
	var warnings []string
	blank := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			warnings = append(warnings, field+" is blank")
		}
	}
	blank("currentStyle", ideas.CurrentStyle)
	blank("redesignConcept.title", ideas.RedesignConcept.Title)
	blank("redesignConcept.description", ideas.RedesignConcept.Description)
	blank("alternativeConcept.title", ideas.AlternativeConcept.Title)
	blank("alternativeConcept.description", ideas.AlternativeConcept.Description)
	for i, idea := range ideas.ShoppingIdeas {
		blank(fmt.Sprintf("shoppingIdeas[%d].item", i), idea.Item)
		blank(fmt.Sprintf("shoppingIdeas[%d].estimatedPrice", i), idea.EstimatedPrice)
	}
	if n := len(ideas.RedesignConcept.Suggestions); n < 3 || n > 4 {
		warnings = append(warnings, fmt.Sprintf("redesignConcept has %d suggestions, expected 3-4", n))
	}
	if n := len(ideas.AlternativeConcept.Suggestions); n < 2 || n > 3 {
		warnings = append(warnings, fmt.Sprintf("alternativeConcept has %d suggestions, expected 2-3", n))
	}
	if n := len(ideas.ColorPalette); n != 4 {
		warnings = append(warnings, fmt.Sprintf("colorPalette has %d colors, expected 4", n))
	}
	for _, color := range ideas.ColorPalette {
		if !hexColor.MatchString(strings.TrimSpace(color)) {
			warnings = append(warnings, fmt.Sprintf("colorPalette entry %q is not a hex code", color))
		}
	}
	if n := len(ideas.ShoppingIdeas); n != 3 {
		warnings = append(warnings, fmt.Sprintf("shoppingIdeas has %d items, expected 3", n))
	}
	return warnings
}

func extractObject(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty output", ErrMalformed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return "", ErrMalformed
	}
	return trimmed[start : end+1], nil
}
