package soap_test

import (
	"strings"
	"testing"

	"medscribe/internal/soap"
)

const validPayload = `{
	"soap": {
		"subjective": "Patient reports intermittent chest pain on exertion.",
		"objective": "BP 138/85, regular rhythm, no murmurs.",
		"assessment": "Stable angina, low immediate risk.",
		"plan": "Start beta blocker, stress test within two weeks."
	},
	"summary": "Exertional chest pain, stable angina suspected.",
	"prescription": "Metoprolol 25mg PO BID",
	"follow_up": "Two weeks, review stress test results.",
	"next_steps": "Schedule treadmill stress test."
}`

func TestDecodeNoteAcceptsCompletePayload(t *testing.T) {
	note, err := soap.DecodeNote([]byte(validPayload))
	if err != nil {
		t.Fatalf("DecodeNote: %v", err)
	}
	if !strings.Contains(note.SOAP.Assessment, "angina") {
		t.Fatalf("unexpected assessment: %q", note.SOAP.Assessment)
	}
	if note.Prescription != "Metoprolol 25mg PO BID" {
		t.Fatalf("unexpected prescription: %q", note.Prescription)
	}
}

func TestDecodeNoteRejectsMissingTopLevelField(t *testing.T) {
	payload := `{"soap": {"subjective": "a", "objective": "b", "assessment": "c", "plan": "d"}, "summary": "s", "prescription": "", "next_steps": ""}`
	if _, err := soap.DecodeNote([]byte(payload)); err == nil || !strings.Contains(err.Error(), "follow_up") {
		t.Fatalf("expected missing follow_up error, got %v", err)
	}
}

func TestDecodeNoteRejectsMissingSection(t *testing.T) {
	payload := `{"soap": {"subjective": "a", "objective": "b", "plan": "d"}, "summary": "s", "prescription": "", "follow_up": "", "next_steps": ""}`
	if _, err := soap.DecodeNote([]byte(payload)); err == nil || !strings.Contains(err.Error(), "assessment") {
		t.Fatalf("expected missing assessment error, got %v", err)
	}
}

func TestDecodeNoteRejectsEmptySection(t *testing.T) {
	payload := `{"soap": {"subjective": "a", "objective": "  ", "assessment": "c", "plan": "d"}, "summary": "s", "prescription": "", "follow_up": "", "next_steps": ""}`
	if _, err := soap.DecodeNote([]byte(payload)); err == nil || !strings.Contains(err.Error(), "objective") {
		t.Fatalf("expected empty objective error, got %v", err)
	}
}

func TestDecodeNoteAllowsEmptyAuxiliaryFields(t *testing.T) {
	payload := `{"soap": {"subjective": "a", "objective": "b", "assessment": "c", "plan": "d"}, "summary": "", "prescription": "", "follow_up": "", "next_steps": ""}`
	if _, err := soap.DecodeNote([]byte(payload)); err != nil {
		t.Fatalf("expected empty auxiliary fields to be accepted, got %v", err)
	}
}
