package session

import (
	"testing"

	"roomMakerAi/internal/design"
	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/render"
)

func TestReduceAttemptLifecycle(t *testing.T) {
	upload := intake.Upload{Filename: "room.jpg", MIMEType: "image/jpeg", Data: []byte{1}}
	s := State{}
	if s.CanGenerate() {
		t.Fatal("empty session must not allow generate")
	}

	s = Reduce(s, ImageUploaded{ID: "s1", Upload: upload})
	s = Reduce(s, StyleSelected{Style: "Japandi"})
	if !s.CanGenerate() {
		t.Fatalf("expected CanGenerate after image and style: %+v", s)
	}

	s = Reduce(s, GenerationStarted{})
	if !s.Busy || s.CanGenerate() {
		t.Fatalf("started state = %+v", s)
	}

	s = Reduce(s, GenerationSucceeded{
		Ideas:  design.DesignIdeas{CurrentStyle: "x"},
		Render: render.ImageReference{Data: []byte{2}, MIMEType: "image/jpeg"},
	})
	if s.Busy || s.Ideas == nil || s.Render == nil || s.Error != "" {
		t.Fatalf("succeeded state = %+v", s)
	}

	s = Reduce(s, GenerationStarted{})
	if s.Ideas != nil || s.Render != nil || s.Error != "" {
		t.Fatalf("a new attempt must clear the previous outcome: %+v", s)
	}
	s = Reduce(s, GenerationFailed{Message: "Failed to generate design ideas."})
	if s.Busy || s.Error == "" || s.Ideas != nil {
		t.Fatalf("failed state = %+v", s)
	}
}

func TestReduceUploadResetsSession(t *testing.T) {
	s := State{
		ID:     "old",
		Style:  "Coastal",
		Error:  "boom",
		Ideas:  &design.DesignIdeas{},
		Render: &render.ImageReference{},
	}
	s = Reduce(s, ImageUploaded{ID: "new", Upload: intake.Upload{Data: []byte{1}}})
	if s.ID != "new" || s.Error != "" || s.Ideas != nil || s.Render != nil {
		t.Errorf("upload did not reset: %+v", s)
	}
	if s.Style != "Coastal" {
		t.Errorf("style = %q, want kept", s.Style)
	}
}

func TestReduceReadFailureKeepsState(t *testing.T) {
	upload := intake.Upload{Data: []byte{1}}
	s := Reduce(State{}, ImageUploaded{ID: "s1", Upload: upload})
	s = Reduce(s, ImageReadFailed{Message: "Failed to read the image file."})
	if s.Image == nil || s.ID != "s1" {
		t.Errorf("read failure discarded the previous image: %+v", s)
	}
	if s.Error != "Failed to read the image file." {
		t.Errorf("error = %q", s.Error)
	}
}

func TestReduceDoesNotAliasInput(t *testing.T) {
	before := State{Style: "Modern"}
	_ = Reduce(before, StyleSelected{Style: "Rustic"})
	if before.Style != "Modern" {
		t.Error("Reduce mutated its input")
	}
}

func TestNewViewHidesResultsBehindError(t *testing.T) {
	s := State{
		Image:  &intake.Upload{Filename: "a.png", Data: []byte{1}},
		Style:  "Modern",
		Error:  "Failed to generate a new room image.",
		Ideas:  &design.DesignIdeas{},
		Render: &render.ImageReference{Data: []byte{1}, MIMEType: "image/jpeg"},
	}
	v := NewView(s)
	if v.Ideas != nil || v.Image != "" {
		t.Errorf("error view leaked results: %+v", v)
	}
	if v.Preview != PreviewPath || !v.CanGenerate {
		t.Errorf("view = %+v", v)
	}
}
