package redesign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"roomMakerAi/internal/design"
	"roomMakerAi/internal/prompts"
	"roomMakerAi/internal/render"
)

// ErrPrecondition means the attempt was missing an image or a style.
var ErrPrecondition = errors.New("redesign: upload an image and select a style")

// Request is one generation attempt.
type Request struct {
	Image    []byte
	MIMEType string
	Style    string
}

// Validate reports ErrPrecondition when the image or style is missing.
func (r Request) Validate() error {
	if len(r.Image) == 0 || strings.TrimSpace(r.Style) == "" {
		return ErrPrecondition
	}
	return nil
}

// Result holds both outputs of a successful attempt.
type Result struct {
	Ideas  design.DesignIdeas
	Image  render.ImageReference
	Prompt string
}

// Orchestrator runs the ideas and image calls side by side and joins them.
type Orchestrator struct {
	designer design.Designer
	renderer render.Renderer
	logger   *zap.Logger
}

// New wires an orchestrator. A nil logger discards output.
func New(designer design.Designer, renderer render.Renderer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{designer: designer, renderer: renderer, logger: logger}
}

// Generate validates req, issues both provider calls concurrently and waits for both.
// The attempt succeeds only when both stages succeed.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	style := strings.TrimSpace(req.Style)
	if o == nil || o.designer == nil || o.renderer == nil {
		return Result{}, fmt.Errorf("redesign: orchestrator not configured")
	}

	prompt := prompts.RedesignPrompt(style)
	started := time.Now()

	var (
		g        errgroup.Group
		ideas    design.DesignIdeas
		image    render.ImageReference
		ideasErr error
		imageErr error
	)
	g.Go(func() error {
		ideasErr = o.runStage(StageIdeas, func() error {
			var err error
			ideas, err = o.designer.RequestDesignIdeas(ctx, req.Image, req.MIMEType, style)
			return err
		})
		return ideasErr
	})
	g.Go(func() error {
		imageErr = o.runStage(StageImage, func() error {
			var err error
			image, err = o.renderer.RequestStyledImage(ctx, prompt)
			return err
		})
		return imageErr
	})
	_ = g.Wait()

	if err := errors.Join(ideasErr, imageErr); err != nil {
		o.logger.Warn("redesign failed",
			zap.String("style", style),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return Result{}, err
	}

	o.logger.Info("redesign complete",
		zap.String("style", style),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("image_bytes", len(image.Data)),
	)
	return Result{Ideas: ideas, Image: image, Prompt: prompt}, nil
}

// runStage converts errors and panics into a stage-tagged failure.
func (o *Orchestrator) runStage(stage Stage, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("stage panicked", zap.String("stage", string(stage)), zap.Any("panic", r))
			err = &StageError{Stage: stage, Err: fmt.Errorf("%w: %v", errPanic, r)}
		}
	}()
	if err := fn(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}
