package main

import (
	"strings"
	"testing"
)

func TestTemplatesCommandListsTemplates(t *testing.T) {
	out, err := runCLI(t, "", "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	requireContains(t, out, "general_practice")
	requireContains(t, out, "Cardiology SOAP")
}

func TestNewSessionPrintsIdentifier(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCLI(t, configPath, "new-session")
	if err != nil {
		t.Fatalf("new-session: %v", err)
	}
	if id := strings.TrimSpace(out); len(id) != 36 {
		t.Errorf("expected uuid output, got %q", id)
	}
}

func TestConfirmTranscriptAndStatus(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, configPath, "confirm-transcript", "session-1", "patient reports mild headache")
	if err != nil {
		t.Fatalf("confirm-transcript: %v", err)
	}
	requireContains(t, out, "Confirmed transcript for session session-1")

	out, err = runCLI(t, configPath, "status", "session-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "transcript_confirmed")
	requireContains(t, out, "25%")
}

func TestConfirmTranscriptRejectsMissingText(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCLI(t, configPath, "confirm-transcript", "session-1"); err == nil {
		t.Fatal("expected error without text or --file")
	}
}

func TestSessionsListsStoredSessions(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, configPath, "confirm-transcript", "session-a", "text a"); err != nil {
		t.Fatalf("confirm-transcript: %v", err)
	}
	if _, err := runCLI(t, configPath, "confirm-ocr", "scan-b", "text b"); err != nil {
		t.Fatalf("confirm-ocr: %v", err)
	}

	out, err := runCLI(t, configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	requireContains(t, out, "session-a")
	requireContains(t, out, "scan-b")
}

func TestDeleteSessionRemovesArtifacts(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, configPath, "confirm-transcript", "session-1", "text"); err != nil {
		t.Fatalf("confirm-transcript: %v", err)
	}
	out, err := runCLI(t, configPath, "delete-session", "session-1")
	if err != nil {
		t.Fatalf("delete-session: %v", err)
	}
	requireContains(t, out, "Deleted session session-1")

	out, err = runCLI(t, configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	requireContains(t, out, "No sessions stored.")
}

func TestSweepEmptyStore(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCLI(t, configPath, "sweep")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	requireContains(t, out, "Removed 0 session(s)")
}

func TestAssembleIncompleteSession(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCLI(t, configPath, "assemble", "session-1"); err == nil {
		t.Fatal("expected error for incomplete session")
	}
}

func TestGenerateUnknownTemplate(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCLI(t, configPath, "generate", "session-1", "--template", "veterinary"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
