package ocr

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

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("\x89PNG fake image"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestRecognizeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/recognize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"City Pharmacy\nTotal $42.10","confidence":0.88}`))
	}))
	defer server.Close()

	client := NewClient(config.OCR{BaseURL: server.URL, TimeoutSeconds: 5})
	result, err := client.Recognize(context.Background(), writeImage(t, "bill.png"))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if !strings.Contains(result.Text, "City Pharmacy") {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Confidence != 0.88 {
		t.Errorf("unexpected confidence %v", result.Confidence)
	}
}

func TestRecognizeUnsupportedFormat(t *testing.T) {
	client := NewClient(config.OCR{BaseURL: "http://unused"})
	if _, err := client.Recognize(context.Background(), writeImage(t, "bill.gif")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRecognizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine offline", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(config.OCR{BaseURL: server.URL})
	_, err := client.Recognize(context.Background(), writeImage(t, "bill.jpg"))
	if err == nil || !strings.Contains(err.Error(), "http 502") {
		t.Fatalf("expected 502 error, got %v", err)
	}
}

func TestRecognizeEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"","confidence":0.5}`))
	}))
	defer server.Close()

	client := NewClient(config.OCR{BaseURL: server.URL})
	if _, err := client.Recognize(context.Background(), writeImage(t, "bill.webp")); err == nil {
		t.Fatal("expected error for empty text")
	}
}
