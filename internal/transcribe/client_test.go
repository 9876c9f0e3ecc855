package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medscribe/internal/config"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Fatalf("missing audio part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"patient reports mild headache","confidence_score":0.93,"duration_seconds":42.5}`))
	}))
	defer server.Close()

	client := NewClient(config.Transcription{BaseURL: server.URL, APIKey: "test-key", TimeoutSeconds: 5})
	result, err := client.Transcribe(context.Background(), writeAudio(t, "consult.wav"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "patient reports mild headache" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Confidence != 0.93 {
		t.Errorf("unexpected confidence %v", result.Confidence)
	}
	if result.DurationSeconds == nil || *result.DurationSeconds != 42.5 {
		t.Errorf("unexpected duration %v", result.DurationSeconds)
	}
}

func TestTranscribeUnsupportedFormat(t *testing.T) {
	client := NewClient(config.Transcription{BaseURL: "http://unused"})
	_, err := client.Transcribe(context.Background(), writeAudio(t, "consult.txt"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported audio format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := NewClient(config.Transcription{BaseURL: "http://unused"})
	if _, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTranscribeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.Transcription{BaseURL: server.URL})
	_, err := client.Transcribe(context.Background(), writeAudio(t, "consult.mp3"))
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "http 503") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"  ","confidence_score":0.1}`))
	}))
	defer server.Close()

	client := NewClient(config.Transcription{BaseURL: server.URL})
	if _, err := client.Transcribe(context.Background(), writeAudio(t, "consult.flac")); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
