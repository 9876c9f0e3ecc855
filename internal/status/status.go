package status

import (
	"context"
	"encoding/json"
	"math"

	"medscribe/internal/artifacts"
)

// Stage is the derived workflow position of a primary-path session.
type Stage string

const (
	StageEmpty               Stage = "empty"
	StageTranscribed         Stage = "transcribed"
	StageTranscriptConfirmed Stage = "transcript_confirmed"
	StageDocumentGenerated   Stage = "document_generated"
	StageRendered            Stage = "rendered"
)

// Snapshot is a non-persisted projection over a session's artifact set. It
// is recomputed on every call; artifacts can change between calls.
type Snapshot struct {
	SessionID          string
	Stage              Stage
	HasTranscriptRaw   bool
	HasTranscriptClean bool
	HasSOAPData        bool
	HasPDFPath         bool
	HasOCRRaw          bool
	HasOCRClean        bool
	TemplateType       string
	CompletionPercent  int
	Err                string
}

// Reader is the slice of the artifact store the projector needs.
type Reader interface {
	SessionData(ctx context.Context, sessionID string) (map[artifacts.Key]json.RawMessage, error)
}

// Project derives the status view for one session. Status is advisory: on an
// enumeration failure it returns a degraded snapshot with completion 0 and
// the error recorded, never an error value that would block the caller.
func Project(ctx context.Context, reader Reader, sessionID string) Snapshot {
	snapshot := Snapshot{SessionID: sessionID, Stage: StageEmpty}

	data, err := reader.SessionData(ctx, sessionID)
	if err != nil {
		snapshot.Err = err.Error()
		return snapshot
	}

	has := func(key artifacts.Key) bool {
		_, ok := data[key]
		return ok
	}

	snapshot.HasTranscriptRaw = has(artifacts.KeyTranscriptRaw)
	snapshot.HasTranscriptClean = has(artifacts.KeyTranscriptClean)
	snapshot.HasSOAPData = has(artifacts.KeySOAPData)
	snapshot.HasPDFPath = has(artifacts.KeyPDFPath)
	snapshot.HasOCRRaw = has(artifacts.KeyOCRRaw)
	snapshot.HasOCRClean = has(artifacts.KeyOCRClean)

	if raw, ok := data[artifacts.KeyTemplateType]; ok {
		var templateType string
		if err := json.Unmarshal(raw, &templateType); err == nil {
			snapshot.TemplateType = templateType
		}
	}

	present := 0
	for _, key := range artifacts.PrimaryKeys {
		if has(key) {
			present++
		}
	}
	snapshot.CompletionPercent = int(math.Round(float64(present) / float64(len(artifacts.PrimaryKeys)) * 100))

	switch {
	case snapshot.HasPDFPath:
		snapshot.Stage = StageRendered
	case snapshot.HasSOAPData:
		snapshot.Stage = StageDocumentGenerated
	case snapshot.HasTranscriptClean:
		snapshot.Stage = StageTranscriptConfirmed
	case snapshot.HasTranscriptRaw:
		snapshot.Stage = StageTranscribed
	}

	return snapshot
}
