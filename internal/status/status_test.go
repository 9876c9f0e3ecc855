package status_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"medscribe/internal/artifacts"
	"medscribe/internal/soap"
	"medscribe/internal/status"
	"medscribe/internal/testsupport"
)

func TestCompletionPercentageAdvancesWithPrimaryArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	steps := []struct {
		key     artifacts.Key
		value   any
		percent int
		stage   status.Stage
	}{
		{artifacts.KeyTranscriptRaw, "uh patient has chest pain", 25, status.StageTranscribed},
		{artifacts.KeyTranscriptClean, "Patient has chest pain.", 50, status.StageTranscriptConfirmed},
		{artifacts.KeySOAPData, soap.Note{SOAP: soap.Sections{Subjective: "s", Objective: "o", Assessment: "a", Plan: "p"}}, 75, status.StageDocumentGenerated},
		{artifacts.KeyPDFPath, "/out/s1.pdf", 100, status.StageRendered},
	}

	for _, step := range steps {
		testsupport.MustStore(t, store, "s1", step.key, step.value)
		snapshot := status.Project(ctx, store, "s1")
		if snapshot.CompletionPercent != step.percent {
			t.Fatalf("after %s: expected %d%%, got %d%%", step.key, step.percent, snapshot.CompletionPercent)
		}
		if snapshot.Stage != step.stage {
			t.Fatalf("after %s: expected stage %s, got %s", step.key, step.stage, snapshot.Stage)
		}
	}
}

func TestTemplateTypeSurfacesWithoutAffectingPercentage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustStore(t, store, "s1", artifacts.KeyTemplateType, "Cardiology SOAP")
	snapshot := status.Project(ctx, store, "s1")
	if snapshot.TemplateType != "Cardiology SOAP" {
		t.Fatalf("unexpected template type: %q", snapshot.TemplateType)
	}
	if snapshot.CompletionPercent != 0 {
		t.Fatalf("template_type must not count toward completion, got %d%%", snapshot.CompletionPercent)
	}
}

func TestOCRArtifactsExcludedFromPercentage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustStore(t, store, "ocr-1", artifacts.KeyOCRRaw, "total 42.50")
	testsupport.MustStore(t, store, "ocr-1", artifacts.KeyOCRClean, "Total: 42.50")

	snapshot := status.Project(ctx, store, "ocr-1")
	if snapshot.CompletionPercent != 0 {
		t.Fatalf("OCR artifacts must not count toward completion, got %d%%", snapshot.CompletionPercent)
	}
	if !snapshot.HasOCRRaw || !snapshot.HasOCRClean {
		t.Fatal("expected OCR presence booleans to be set")
	}
	if snapshot.Stage != status.StageEmpty {
		t.Fatalf("expected empty primary stage, got %s", snapshot.Stage)
	}
}

func TestEmptySessionProjectsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	snapshot := status.Project(context.Background(), store, "missing")
	if snapshot.Stage != status.StageEmpty || snapshot.CompletionPercent != 0 {
		t.Fatalf("unexpected snapshot for missing session: %+v", snapshot)
	}
	if snapshot.Err != "" {
		t.Fatalf("missing session is not an error, got %q", snapshot.Err)
	}
}

type failingReader struct{}

func (failingReader) SessionData(context.Context, string) (map[artifacts.Key]json.RawMessage, error) {
	return nil, errors.New("database unavailable")
}

func TestProjectDegradesOnStoreError(t *testing.T) {
	snapshot := status.Project(context.Background(), failingReader{}, "s1")
	if snapshot.CompletionPercent != 0 {
		t.Fatalf("degraded snapshot must report 0%%, got %d", snapshot.CompletionPercent)
	}
	if snapshot.Err == "" {
		t.Fatal("expected explanatory error field")
	}
}
