package soap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sections holds the four canonical SOAP fields.
type Sections struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// Note is the structured clinical document produced by the generation
// collaborator and persisted as the soap_data artifact.
type Note struct {
	SOAP         Sections `json:"soap"`
	Summary      string   `json:"summary"`
	Prescription string   `json:"prescription"`
	FollowUp     string   `json:"follow_up"`
	NextSteps    string   `json:"next_steps"`
}

// requiredFields are the top-level keys a generation response must carry.
var requiredFields = []string{"soap", "summary", "prescription", "follow_up", "next_steps"}

// requiredSections are the keys required inside the soap object.
var requiredSections = []string{"subjective", "objective", "assessment", "plan"}

// DecodeNote parses a generation payload into a Note, checking explicitly
// that every required field is present. Malformed or partial responses are a
// caller-visible failure, never silently patched.
func DecodeNote(raw []byte) (Note, error) {
	var note Note

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return note, fmt.Errorf("decode document: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return note, fmt.Errorf("document missing required field %q", field)
		}
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(fields["soap"], &sections); err != nil {
		return note, fmt.Errorf("decode soap sections: %w", err)
	}
	for _, section := range requiredSections {
		if _, ok := sections[section]; !ok {
			return note, fmt.Errorf("document missing soap section %q", section)
		}
	}

	if err := json.Unmarshal(raw, &note); err != nil {
		return note, fmt.Errorf("decode document: %w", err)
	}
	if err := note.Validate(); err != nil {
		return note, err
	}
	return note, nil
}

// Validate checks that the four SOAP sections carry text. The auxiliary
// fields are free text and may legitimately be empty (not every encounter
// produces a prescription).
func (n Note) Validate() error {
	for section, value := range map[string]string{
		"subjective": n.SOAP.Subjective,
		"objective":  n.SOAP.Objective,
		"assessment": n.SOAP.Assessment,
		"plan":       n.SOAP.Plan,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("soap section %q is empty", section)
		}
	}
	return nil
}
