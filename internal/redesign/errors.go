package redesign

import (
	"errors"
	"fmt"
	"strings"

	"roomMakerAi/internal/intake"
	"roomMakerAi/internal/llm"
)

// Stage names one of the two provider calls of an attempt.
type Stage string

const (
	StageIdeas Stage = "ideas"
	StageImage Stage = "image"
)

var errPanic = errors.New("redesign: stage panicked")

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("redesign: %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

const (
	msgPrecondition = "Please upload an image and select a style."
	msgRead         = "Failed to read the image file."
	msgIdeas        = "Failed to generate design ideas."
	msgImage        = "Failed to generate a new room image."
	msgUnknown      = "An unknown error occurred."
)

// UserMessage maps an attempt failure to the text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrPrecondition):
		return msgPrecondition
	case errors.Is(err, intake.ErrRead):
		return msgRead
	}

	var messages []string
	for _, stageErr := range stageErrors(err) {
		if errors.Is(stageErr.Err, errPanic) || !errors.Is(stageErr.Err, llm.ErrGenerationFailed) {
			return msgUnknown
		}
		switch stageErr.Stage {
		case StageIdeas:
			messages = append(messages, msgIdeas)
		case StageImage:
			messages = append(messages, msgImage)
		}
	}
	if len(messages) == 0 {
		return msgUnknown
	}
	return strings.Join(messages, " ")
}

// FailedStages lists the stages named by err in a stable order.
func FailedStages(err error) []Stage {
	var stages []Stage
	for _, stageErr := range stageErrors(err) {
		stages = append(stages, stageErr.Stage)
	}
	return stages
}

func stageErrors(err error) []*StageError {
	if err == nil {
		return nil
	}
	var found []*StageError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			found = append(found, stageErrors(inner)...)
		}
		return found
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		found = append(found, stageErr)
	}
	return found
}
