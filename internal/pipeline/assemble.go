package pipeline

import (
	"context"
	"encoding/json"

	"medscribe/internal/artifacts"
	"medscribe/internal/ocr"
	"medscribe/internal/services"
	"medscribe/internal/soap"
)

// FinalResponse is the read-only join of a primary session with an
// optional recognition session. Assembling it mutates neither session.
type FinalResponse struct {
	SessionID    string          `json:"session_id"`
	Transcript   string          `json:"transcript"`
	Note         soap.Note       `json:"note"`
	TemplateType string          `json:"template_type,omitempty"`
	PDFPath      string          `json:"pdf_path,omitempty"`
	OCRSessionID string          `json:"ocr_session_id,omitempty"`
	OCRText      string          `json:"ocr_text,omitempty"`
	BillFields   *ocr.BillFields `json:"bill_fields,omitempty"`
}

// AssembleFinal joins the primary session's confirmed transcript and note
// with the optional recognition session's reviewed text. The primary session
// must have completed transcript confirmation and document generation;
// anything else present (template type, pdf path, receipt fields) is
// included opportunistically.
func (p *Pipeline) AssembleFinal(ctx context.Context, sessionID, ocrSessionID string) (FinalResponse, error) {
	const stage = "assemble"
	var empty FinalResponse
	if err := validateSessionID(stage, sessionID); err != nil {
		return empty, err
	}

	transcript, ok := p.store.GetString(ctx, sessionID, artifacts.KeyTranscriptClean)
	if !ok {
		return empty, services.Wrap(services.ErrIncomplete, stage, sessionID, "confirmed transcript not found", nil)
	}
	rawNote, ok := p.store.Get(ctx, sessionID, artifacts.KeySOAPData)
	if !ok {
		return empty, services.Wrap(services.ErrIncomplete, stage, sessionID, "note data not found", nil)
	}
	note, err := soap.DecodeNote(rawNote)
	if err != nil {
		return empty, services.Wrap(services.ErrSchemaValidation, stage, sessionID, "stored note data is invalid", err)
	}

	response := FinalResponse{
		SessionID:  sessionID,
		Transcript: transcript,
		Note:       note,
	}
	if templateName, ok := p.store.GetString(ctx, sessionID, artifacts.KeyTemplateType); ok {
		response.TemplateType = templateName
	}
	if pdfPath, ok := p.store.GetString(ctx, sessionID, artifacts.KeyPDFPath); ok {
		response.PDFPath = pdfPath
	}

	if ocrSessionID != "" {
		response.OCRSessionID = ocrSessionID
		if text, ok := p.store.GetString(ctx, ocrSessionID, artifacts.KeyOCRClean); ok {
			response.OCRText = text
		} else if text, ok := p.store.GetString(ctx, ocrSessionID, artifacts.KeyOCRRaw); ok {
			response.OCRText = text
		}
		if raw, ok := p.store.Get(ctx, ocrSessionID, artifacts.KeyBillFields); ok {
			var fields ocr.BillFields
			if err := json.Unmarshal(raw, &fields); err == nil {
				response.BillFields = &fields
			}
		}
	}
	return response, nil
}
