package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/generate"
	"medscribe/internal/logging"
	"medscribe/internal/ocr"
	"medscribe/internal/services"
	"medscribe/internal/soap"
	"medscribe/internal/transcribe"
)

// Transcriber converts an audio resource into draft transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (transcribe.Result, error)
}

// DocumentGenerator drafts a structured note payload from a transcript.
type DocumentGenerator interface {
	GenerateRaw(ctx context.Context, template soap.Template, transcript string) (string, error)
}

// Recognizer extracts text from a scanned document image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (ocr.Result, error)
}

// Renderer lays out a finalized note as a PDF and returns its path.
type Renderer interface {
	Render(ctx context.Context, sessionID string, note soap.Note, templateName string) (string, error)
}

// Collaborators bundles the external services the orchestrator drives.
type Collaborators struct {
	Transcriber Transcriber
	Generator   DocumentGenerator
	Recognizer  Recognizer
	Renderer    Renderer
}

// Timeouts bounds each collaborator call. Zero means no bound.
type Timeouts struct {
	Transcription time.Duration
	Generation    time.Duration
	Recognition   time.Duration
	Render        time.Duration
}

// TimeoutsFromConfig derives stage timeouts from configuration.
func TimeoutsFromConfig(cfg *config.Config) Timeouts {
	seconds := func(n int) time.Duration {
		if n <= 0 {
			return 0
		}
		return time.Duration(n) * time.Second
	}
	return Timeouts{
		Transcription: seconds(cfg.Transcription.TimeoutSeconds),
		Generation:    seconds(cfg.Generation.TimeoutSeconds),
		Recognition:   seconds(cfg.OCR.TimeoutSeconds),
		Render:        seconds(cfg.Render.TimeoutSeconds),
	}
}

// Pipeline advances sessions through the documentation workflow. Stages are
// gated on the artifacts earlier stages produced; an artifact key is only
// written once its value is fully known.
type Pipeline struct {
	store    *artifacts.Store
	deps     Collaborators
	timeouts Timeouts
	logger   *slog.Logger
}

// New constructs a pipeline over the supplied store and collaborators.
func New(store *artifacts.Store, deps Collaborators, timeouts Timeouts, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{store: store, deps: deps, timeouts: timeouts, logger: logger}
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// stageContext annotates the context with session and stage so downstream
// logging picks both up automatically.
func (p *Pipeline) stageContext(ctx context.Context, stage, sessionID string) (context.Context, *slog.Logger) {
	ctx = services.WithSessionID(ctx, sessionID)
	ctx = services.WithStage(ctx, stage)
	return ctx, logging.WithContext(ctx, p.logger)
}

// TranscriptRecord is the stored shape of a draft transcript.
type TranscriptRecord struct {
	Text            string   `json:"text"`
	Confidence      float64  `json:"confidence"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

// IngestAudio transcribes a consult recording and stores the draft
// transcript. It requires no prior artifacts.
func (p *Pipeline) IngestAudio(ctx context.Context, sessionID, audioPath string) error {
	const stage = "ingest-audio"
	if err := validateSessionID(stage, sessionID); err != nil {
		return err
	}
	ctx, logger := p.stageContext(ctx, stage, sessionID)

	result, err := callBounded(ctx, p.timeouts.Transcription, func(ctx context.Context) (transcribe.Result, error) {
		return p.deps.Transcriber.Transcribe(ctx, audioPath)
	})
	if err != nil {
		return classifyCollaborator(services.ErrTranscription, stage, sessionID, err)
	}

	if err := p.store.Store(ctx, sessionID, artifacts.KeyAudioFile, audioPath); err != nil {
		return err
	}
	record := TranscriptRecord{
		Text:            result.Text,
		Confidence:      result.Confidence,
		DurationSeconds: result.DurationSeconds,
	}
	if err := p.store.Store(ctx, sessionID, artifacts.KeyTranscriptRaw, record); err != nil {
		return err
	}
	logger.Info("draft transcript stored", logging.Float64("confidence", result.Confidence))
	return nil
}

// ConfirmTranscript stores the clinician-reviewed transcript. The draft
// transcript is a soft precondition: a missing draft is logged but does not
// block the confirmation.
func (p *Pipeline) ConfirmTranscript(ctx context.Context, sessionID, cleanedText string) error {
	const stage = "confirm-transcript"
	if err := validateSessionID(stage, sessionID); err != nil {
		return err
	}
	cleanedText = strings.TrimSpace(cleanedText)
	if cleanedText == "" {
		return services.Wrap(services.ErrValidation, stage, sessionID, "confirmed transcript must be non-empty", nil)
	}
	ctx, logger := p.stageContext(ctx, stage, sessionID)

	if _, ok := p.store.Get(ctx, sessionID, artifacts.KeyTranscriptRaw); !ok {
		logger.Warn("confirming transcript without a stored draft")
	}
	return p.store.Store(ctx, sessionID, artifacts.KeyTranscriptClean, cleanedText)
}

// GenerateDocument drafts the structured note for a confirmed transcript.
// An empty transcript argument falls back to the stored confirmed
// transcript; with neither available the stage reports a missing
// prerequisite. The collaborator response must decode into the full note
// schema before anything is stored.
func (p *Pipeline) GenerateDocument(ctx context.Context, sessionID, templateKey, transcript string) error {
	const stage = "generate-document"
	if err := validateSessionID(stage, sessionID); err != nil {
		return err
	}
	template, ok := soap.ParseTemplate(templateKey)
	if !ok {
		return services.Wrap(services.ErrValidation, stage, sessionID, "unknown template "+templateKey, nil)
	}
	ctx, logger := p.stageContext(ctx, stage, sessionID)

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		stored, ok := p.store.GetString(ctx, sessionID, artifacts.KeyTranscriptClean)
		if !ok || strings.TrimSpace(stored) == "" {
			return services.Wrap(services.ErrPrerequisite, stage, sessionID, "confirmed transcript not found", nil)
		}
		transcript = stored
	}

	raw, err := callBounded(ctx, p.timeouts.Generation, func(ctx context.Context) (string, error) {
		return p.deps.Generator.GenerateRaw(ctx, template, transcript)
	})
	if err != nil {
		return classifyCollaborator(services.ErrSchemaValidation, stage, sessionID, err)
	}

	payload, err := generate.ExtractJSON(raw)
	if err != nil {
		return services.Wrap(services.ErrSchemaValidation, stage, sessionID, "response is not JSON", err)
	}
	note, err := soap.DecodeNote([]byte(payload))
	if err != nil {
		return services.Wrap(services.ErrSchemaValidation, stage, sessionID, "response does not match note schema", err)
	}
	if err := note.Validate(); err != nil {
		return services.Wrap(services.ErrSchemaValidation, stage, sessionID, "note failed validation", err)
	}

	if err := p.store.Store(ctx, sessionID, artifacts.KeySOAPData, json.RawMessage(payload)); err != nil {
		return err
	}
	if err := p.store.Store(ctx, sessionID, artifacts.KeyTemplateType, template.DisplayName); err != nil {
		return err
	}
	logger.Info("structured note stored", logging.String("template", template.Key))
	return nil
}

// RenderDocument lays out the generated note as a PDF. Both the note data
// and the template type must already exist.
func (p *Pipeline) RenderDocument(ctx context.Context, sessionID string) error {
	const stage = "render-document"
	if err := validateSessionID(stage, sessionID); err != nil {
		return err
	}
	ctx, logger := p.stageContext(ctx, stage, sessionID)

	rawNote, ok := p.store.Get(ctx, sessionID, artifacts.KeySOAPData)
	if !ok {
		return services.Wrap(services.ErrPrerequisite, stage, sessionID, "note data not found", nil)
	}
	templateName, ok := p.store.GetString(ctx, sessionID, artifacts.KeyTemplateType)
	if !ok {
		return services.Wrap(services.ErrPrerequisite, stage, sessionID, "template type not found", nil)
	}
	note, err := soap.DecodeNote(rawNote)
	if err != nil {
		return services.Wrap(services.ErrSchemaValidation, stage, sessionID, "stored note data is invalid", err)
	}

	pdfPath, err := callBounded(ctx, p.timeouts.Render, func(ctx context.Context) (string, error) {
		return p.deps.Renderer.Render(ctx, sessionID, note, templateName)
	})
	if err != nil {
		if isDeadline(err) {
			return services.Wrap(services.ErrTimeout, stage, sessionID, "collaborator timed out", err)
		}
		// A renderer fault is an infrastructure problem, not bad caller
		// input; leave it unclassified.
		return fmt.Errorf("%s: %s: render failed: %w", stage, sessionID, err)
	}

	if err := p.store.Store(ctx, sessionID, artifacts.KeyPDFPath, pdfPath); err != nil {
		return err
	}
	logger.Info("session pdf stored", logging.String("path", pdfPath))
	return nil
}

// IngestImage recognizes a scanned bill or referral for the secondary
// branch and stores the recognized text plus extracted receipt fields.
func (p *Pipeline) IngestImage(ctx context.Context, ocrSessionID, imagePath string) error {
	const stage = "ingest-image"
	if err := validateSessionID(stage, ocrSessionID); err != nil {
		return err
	}
	ctx, logger := p.stageContext(ctx, stage, ocrSessionID)

	result, err := callBounded(ctx, p.timeouts.Recognition, func(ctx context.Context) (ocr.Result, error) {
		return p.deps.Recognizer.Recognize(ctx, imagePath)
	})
	if err != nil {
		return classifyCollaborator(services.ErrRecognition, stage, ocrSessionID, err)
	}

	if err := p.store.Store(ctx, ocrSessionID, artifacts.KeyImageFile, imagePath); err != nil {
		return err
	}
	if err := p.store.Store(ctx, ocrSessionID, artifacts.KeyOCRRaw, result.Text); err != nil {
		return err
	}
	if err := p.store.Store(ctx, ocrSessionID, artifacts.KeyOCRConfidence, result.Confidence); err != nil {
		return err
	}
	if err := p.store.Store(ctx, ocrSessionID, artifacts.KeyBillFields, ocr.ExtractBillFields(result.Text)); err != nil {
		return err
	}
	logger.Info("recognized document stored", logging.Float64("confidence", result.Confidence))
	return nil
}

// ConfirmOCRText stores the reviewed recognition text and refreshes the
// receipt fields extracted from it.
func (p *Pipeline) ConfirmOCRText(ctx context.Context, ocrSessionID, cleanedText string) error {
	const stage = "confirm-ocr"
	if err := validateSessionID(stage, ocrSessionID); err != nil {
		return err
	}
	cleanedText = strings.TrimSpace(cleanedText)
	if cleanedText == "" {
		return services.Wrap(services.ErrValidation, stage, ocrSessionID, "confirmed text must be non-empty", nil)
	}

	if err := p.store.Store(ctx, ocrSessionID, artifacts.KeyOCRClean, cleanedText); err != nil {
		return err
	}
	return p.store.Store(ctx, ocrSessionID, artifacts.KeyBillFields, ocr.ExtractBillFields(cleanedText))
}

func validateSessionID(stage, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return services.Wrap(services.ErrValidation, stage, "", "session id required", nil)
	}
	return nil
}

// callBounded runs a collaborator call under the stage timeout. The call is
// not interrupted mid-flight beyond context cancellation; on timeout the
// result is discarded and the session is left exactly as before the call.
func callBounded[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return call(ctx)
}

func classifyCollaborator(marker error, stage, sessionID string, err error) error {
	if isDeadline(err) {
		return services.Wrap(services.ErrTimeout, stage, sessionID, "collaborator timed out", err)
	}
	return services.Wrap(marker, stage, sessionID, "collaborator failed", err)
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
