package session

import (
	"roomMakerAi/internal/design"
	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/render"
)

// State is the single in-memory session. Values are replaced, never mutated in place.
type State struct {
	ID     string
	Image  *intake.Upload
	Style  string
	Busy   bool
	Error  string
	Ideas  *design.DesignIdeas
	Render *render.ImageReference
}

// CanGenerate reports whether the generate action is enabled.
func (s State) CanGenerate() bool {
	return s.Image != nil && s.Style != "" && !s.Busy
}

// Action is one transition input for Reduce.
type Action interface {
	isAction()
}

// ImageUploaded starts a new session around upload. The selected style is kept.
type ImageUploaded struct {
	ID     string
	Upload intake.Upload
}

// ImageReadFailed records an unreadable upload without touching anything else.
type ImageReadFailed struct {
	Message string
}

// StyleSelected changes the selected style.
type StyleSelected struct {
	Style string
}

// PreconditionFailed records a generate attempt made without image or style.
type PreconditionFailed struct {
	Message string
}

// GenerationStarted clears the previous outcome and raises the busy flag.
type GenerationStarted struct{}

// GenerationSucceeded stores both outputs of an attempt.
type GenerationSucceeded struct {
	Ideas  design.DesignIdeas
	Render render.ImageReference
}

// GenerationFailed stores the user-facing failure of an attempt.
type GenerationFailed struct {
	Message string
}

func (ImageUploaded) isAction()       {}
func (ImageReadFailed) isAction()     {}
func (StyleSelected) isAction()       {}
func (PreconditionFailed) isAction()  {}
func (GenerationStarted) isAction()   {}
func (GenerationSucceeded) isAction() {}
func (GenerationFailed) isAction()    {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ImageUploaded:
		upload := a.Upload
		return State{ID: a.ID, Image: &upload, Style: s.Style}
	case ImageReadFailed:
		s.Error = a.Message
	case StyleSelected:
		s.Style = a.Style
	case PreconditionFailed:
		s.Error = a.Message
	case GenerationStarted:
		s.Busy = true
		s.Error = ""
		s.Ideas = nil
		s.Render = nil
	case GenerationSucceeded:
		ideas, ref := a.Ideas, a.Render
		s.Busy = false
		s.Error = ""
		s.Ideas = &ideas
		s.Render = &ref
	case GenerationFailed:
		s.Busy = false
		s.Error = a.Message
		s.Ideas = nil
		s.Render = nil
	}
	return s
}
