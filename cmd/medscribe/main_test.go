package main

import (
	"errors"
	"strings"
	"testing"

	"medscribe/internal/services"
)

func TestPrintErrorRetryHint(t *testing.T) {
	var out strings.Builder
	err := services.Wrap(services.ErrTimeout, "generate", "s1", "collaborator timed out", errors.New("deadline"))
	printError(&out, err)
	if !strings.Contains(out.String(), "can be retried") {
		t.Fatalf("expected retry hint, got %q", out.String())
	}
}

func TestPrintErrorNoHintForCallerFaults(t *testing.T) {
	var out strings.Builder
	err := services.Wrap(services.ErrPrerequisite, "render", "s1", "missing soap_data", nil)
	printError(&out, err)
	if strings.Contains(out.String(), "retried") {
		t.Fatalf("unexpected retry hint for prerequisite failure: %q", out.String())
	}
	if !strings.Contains(out.String(), "missing soap_data") {
		t.Fatalf("expected error text, got %q", out.String())
	}
}
