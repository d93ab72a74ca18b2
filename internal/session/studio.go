package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomMakerAi/internal/events"
	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/media"
	"roomMakerAi/internal/redesign"
	"roomMakerAi/internal/styles"
)

var (
	// ErrBusy rejects actions while a generation attempt is in flight.
	ErrBusy = errors.New("session: generation already in progress")
	// ErrUnknownStyle rejects styles outside the catalog.
	ErrUnknownStyle = errors.New("session: unknown style")
	// ErrNothingToExport means there is no finished result yet.
	ErrNothingToExport = errors.New("session: nothing to export")
)

// Generator runs one redesign attempt.
type Generator interface {
	Generate(ctx context.Context, req redesign.Request) (redesign.Result, error)
}

// Studio owns the session state and serialises every transition through Reduce.
type Studio struct {
	mu       sync.Mutex
	state    State
	gen      Generator
	uploader media.Uploader
	broker   *events.Broker
	logger   *zap.Logger
	newID    func() string
}

// Option customises a Studio.
type Option func(*Studio)

// WithUploader sets the export target.
func WithUploader(u media.Uploader) Option {
	return func(s *Studio) {
		if u != nil {
			s.uploader = u
		}
	}
}

// WithBroker publishes state changes to b.
func WithBroker(b *events.Broker) Option {
	return func(s *Studio) { s.broker = b }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Studio) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStudio creates an empty session around gen.
func NewStudio(gen Generator, opts ...Option) *Studio {
	s := &Studio{
		gen:      gen,
		uploader: media.Disabled(),
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Broker returns the event broker, which may be nil.
func (s *Studio) Broker() *events.Broker {
	return s.broker
}

// Snapshot returns the current state.
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Studio) dispatch(a Action) State {
	s.state = Reduce(s.state, a)
	return s.state
}

func (s *Studio) publish(state State, typ events.Type) {
	s.broker.Publish(events.Event{
		SessionID: state.ID,
		Type:      typ,
		Busy:      state.Busy,
		Error:     state.Error,
	})
}

// Upload ingests a new room photo and starts a fresh session.
func (s *Studio) Upload(r io.Reader, filename, mimeType string) (State, error) {
	upload, ingestErr := intake.Ingest(r, filename, mimeType)

	s.mu.Lock()
	if s.state.Busy {
		s.mu.Unlock()
		return State{}, ErrBusy
	}
	var state State
	if ingestErr != nil {
		state = s.dispatch(ImageReadFailed{Message: redesign.UserMessage(ingestErr)})
	} else {
		state = s.dispatch(ImageUploaded{ID: s.newID(), Upload: upload})
	}
	s.mu.Unlock()

	if ingestErr != nil {
		s.logger.Warn("image upload rejected", zap.String("filename", filename), zap.Error(ingestErr))
		return state, ingestErr
	}
	s.logger.Info("image uploaded",
		zap.String("session_id", state.ID),
		zap.String("mime", upload.MIMEType),
		zap.Int("bytes", upload.Size()),
	)
	s.publish(state, events.TypeImageUploaded)
	return state, nil
}

// SelectStyle sets the style by catalog name.
func (s *Studio) SelectStyle(name string) (State, error) {
	style, ok := styles.Lookup(name)
	if !ok {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	s.mu.Lock()
	state := s.dispatch(StyleSelected{Style: style.Name})
	s.mu.Unlock()

	s.publish(state, events.TypeStyleSelected)
	return state, nil
}

// Generate runs one attempt. It returns ErrBusy while another attempt is in flight
// and redesign.ErrPrecondition when the image or style is missing. Cancellation of
// ctx does not abort provider calls once started.
func (s *Studio) Generate(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state.Busy {
		s.mu.Unlock()
		return State{}, ErrBusy
	}
	req := redesign.Request{Style: s.state.Style}
	if s.state.Image != nil {
		req.Image = s.state.Image.Data
		req.MIMEType = s.state.Image.MIMEType
	}
	if err := req.Validate(); err != nil {
		state := s.dispatch(PreconditionFailed{Message: redesign.UserMessage(err)})
		s.mu.Unlock()
		return state, err
	}
	started := s.dispatch(GenerationStarted{})
	s.mu.Unlock()

	s.publish(started, events.TypeGenerationStarted)
	s.logger.Info("generation started", zap.String("session_id", started.ID), zap.String("style", req.Style))

	result, err := s.run(context.WithoutCancel(ctx), req)

	s.mu.Lock()
	var state State
	if err != nil {
		state = s.dispatch(GenerationFailed{Message: redesign.UserMessage(err)})
	} else {
		state = s.dispatch(GenerationSucceeded{Ideas: result.Ideas, Render: result.Image})
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("generation failed", zap.String("session_id", state.ID), zap.Error(err))
		s.publish(state, events.TypeGenerationFailed)
		return state, err
	}
	s.logger.Info("generation complete", zap.String("session_id", state.ID))
	s.publish(state, events.TypeGenerationComplete)
	return state, nil
}

func (s *Studio) run(ctx context.Context, req redesign.Request) (result redesign.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session: generation panicked: %v", r)
		}
	}()
	if s.gen == nil {
		return redesign.Result{}, errors.New("session: generator not configured")
	}
	return s.gen.Generate(ctx, req)
}

// ExportResult locates the published render and ideas document.
type ExportResult struct {
	Render media.UploadResult `json:"render"`
	Ideas  media.UploadResult `json:"ideas"`
}

var renderExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Export publishes the last render and its ideas through the configured uploader.
func (s *Studio) Export(ctx context.Context) (ExportResult, error) {
	state := s.Snapshot()
	if state.Ideas == nil || state.Render == nil || len(state.Render.Data) == 0 {
		return ExportResult{}, ErrNothingToExport
	}

	ext := renderExtensions[state.Render.MIMEType]
	if ext == "" {
		ext = ".jpg"
	}
	renderRes, err := s.uploader.Upload(ctx, media.UploadInput{
		Filename:    "render" + ext,
		ContentType: state.Render.MIMEType,
		Body:        bytes.NewReader(state.Render.Data),
		Size:        int64(len(state.Render.Data)),
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("session: export render: %w", err)
	}

	doc, err := json.MarshalIndent(state.Ideas, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("session: encode ideas: %w", err)
	}
	ideasRes, err := s.uploader.Upload(ctx, media.UploadInput{
		Filename:    "ideas.json",
		ContentType: "application/json",
		Body:        bytes.NewReader(doc),
		Size:        int64(len(doc)),
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("session: export ideas: %w", err)
	}

	s.logger.Info("session exported",
		zap.String("session_id", state.ID),
		zap.String("render_key", renderRes.Key),
		zap.String("ideas_key", ideasRes.Key),
	)
	return ExportResult{Render: renderRes, Ideas: ideasRes}, nil
}
