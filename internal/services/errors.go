package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStorage marks failures of the durable artifact medium.
	ErrStorage = errors.New("storage failure")
	// ErrPrerequisite marks stages invoked before their dependency artifact exists.
	ErrPrerequisite = errors.New("prerequisite missing")
	// ErrSchemaValidation marks generation responses that do not satisfy the document schema.
	ErrSchemaValidation = errors.New("schema validation failure")
	// ErrTranscription marks speech-to-text collaborator failures.
	ErrTranscription = errors.New("transcription failure")
	// ErrRecognition marks OCR collaborator failures.
	ErrRecognition = errors.New("recognition failure")
	// ErrTimeout marks collaborator calls that exceeded their deadline.
	ErrTimeout = errors.New("collaborator timeout")
	// ErrIncomplete marks join-time reads of sessions that never completed upstream stages.
	ErrIncomplete = errors.New("incomplete workflow")
	// ErrValidation marks caller input that fails validation.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the same stage can safely be re-invoked after
// err. Collaborator misbehavior never leaves a partial artifact behind, so
// those failures are retryable as-is; everything else needs the caller to
// change something first (fix the input, satisfy a prerequisite, restore the
// storage medium).
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrTranscription),
		errors.Is(err, ErrRecognition),
		errors.Is(err, ErrSchemaValidation),
		errors.Is(err, ErrTimeout):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
