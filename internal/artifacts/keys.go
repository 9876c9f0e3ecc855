package artifacts

import "strings"

// Key names one artifact within a session. The set is closed: stages only
// read and write keys from this vocabulary, and ParseKey rejects anything
// else at the CLI boundary.
type Key string

const (
	KeyAudioFile       Key = "audio_file"
	KeyTranscriptRaw   Key = "transcript_raw"
	KeyTranscriptClean Key = "transcript_clean"
	KeySOAPData        Key = "soap_data"
	KeyTemplateType    Key = "template_type"
	KeyPDFPath         Key = "pdf_path"
	KeyImageFile       Key = "image_file"
	KeyOCRRaw          Key = "ocr_raw"
	KeyOCRClean        Key = "ocr_clean"
	KeyOCRConfidence   Key = "ocr_confidence"
	KeyBillFields      Key = "bill_fields"
)

var allKeys = []Key{
	KeyAudioFile,
	KeyTranscriptRaw,
	KeyTranscriptClean,
	KeySOAPData,
	KeyTemplateType,
	KeyPDFPath,
	KeyImageFile,
	KeyOCRRaw,
	KeyOCRClean,
	KeyOCRConfidence,
	KeyBillFields,
}

var keySet = func() map[Key]struct{} {
	set := make(map[Key]struct{}, len(allKeys))
	for _, key := range allKeys {
		set[key] = struct{}{}
	}
	return set
}()

// PrimaryKeys are the audio-path artifacts that drive the completion
// percentage. OCR-path keys are deliberately excluded so receipt workflows
// do not distort the documentation workflow's completion metric.
var PrimaryKeys = []Key{
	KeyTranscriptRaw,
	KeyTranscriptClean,
	KeySOAPData,
	KeyPDFPath,
}

// AllKeys returns the ordered list of known artifact keys.
func AllKeys() []Key {
	cp := make([]Key, len(allKeys))
	copy(cp, allKeys)
	return cp
}

// ParseKey converts a string into a known Key.
func ParseKey(value string) (Key, bool) {
	normalized := Key(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := keySet[normalized]
	return normalized, ok
}
