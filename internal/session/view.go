package session

import (
	"roomMakerAi/internal/design"
)

// PreviewPath serves the raw bytes of the uploaded image.
const PreviewPath = "/api/session/image"

// View is the JSON shape of the session for the web page.
type View struct {
	SessionID   string              `json:"sessionId,omitempty"`
	CanGenerate bool                `json:"canGenerate"`
	Busy        bool                `json:"busy"`
	Error       string              `json:"error,omitempty"`
	Preview     string              `json:"preview,omitempty"`
	Filename    string              `json:"filename,omitempty"`
	Style       string              `json:"style"`
	Ideas       *design.DesignIdeas `json:"ideas,omitempty"`
	Image       string              `json:"image,omitempty"`
}

// NewView projects s for presentation. An error replaces the results.
func NewView(s State) View {
	v := View{
		SessionID:   s.ID,
		CanGenerate: s.CanGenerate(),
		Busy:        s.Busy,
		Error:       s.Error,
		Style:       s.Style,
	}
	if s.Image != nil {
		v.Preview = PreviewPath
		v.Filename = s.Image.Filename
	}
	if s.Error == "" {
		v.Ideas = s.Ideas
		if s.Render != nil {
			v.Image = s.Render.DataURI()
		}
	}
	return v
}
