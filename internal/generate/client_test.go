package generate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"medscribe/internal/config"
	"medscribe/internal/soap"
)

func testTemplate(t *testing.T) soap.Template {
	t.Helper()
	template, ok := soap.ParseTemplate("general_practice")
	if !ok {
		t.Fatal("ParseTemplate: unknown template")
	}
	return template
}

func completionBody(content string) string {
	encoded := strings.ReplaceAll(content, `"`, `\"`)
	encoded = strings.ReplaceAll(encoded, "\n", `\n`)
	return `{"choices":[{"message":{"content":"` + encoded + `"},"finish_reason":"stop"}]}`
}

func TestGenerateRawSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"ok":true}`)))
	}))
	defer server.Close()

	client := NewClient(config.Generation{APIKey: "test-key", Model: "test-model"}, WithBaseURL(server.URL))
	content, err := client.GenerateRaw(context.Background(), testTemplate(t), "patient presents with cough")
	if err != nil {
		t.Fatalf("GenerateRaw: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("unexpected content %q", content)
	}
}

func TestGenerateRawRequiresTranscript(t *testing.T) {
	client := NewClient(config.Generation{APIKey: "key"}, WithBaseURL("http://unused"))
	if _, err := client.GenerateRaw(context.Background(), testTemplate(t), "   "); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestGenerateRawRequiresAPIKey(t *testing.T) {
	client := NewClient(config.Generation{}, WithBaseURL("http://unused"))
	if _, err := client.GenerateRaw(context.Background(), testTemplate(t), "transcript"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGenerateRawRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, "try later", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody(`{"ok":true}`)))
	}))
	defer server.Close()

	client := NewClient(
		config.Generation{APIKey: "key", Model: "m"},
		WithBaseURL(server.URL),
		WithRetryBackoff(0, time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
	content, err := client.GenerateRaw(context.Background(), testTemplate(t), "transcript text")
	if err != nil {
		t.Fatalf("GenerateRaw: %v", err)
	}
	if content != `{"ok":true}` {
		t.Errorf("unexpected content %q", content)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestGenerateRawDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		config.Generation{APIKey: "key", Model: "m"},
		WithBaseURL(server.URL),
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.GenerateRaw(context.Background(), testTemplate(t), "transcript"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestExtractJSONStripsCodeFences(t *testing.T) {
	got, err := ExtractJSON("```json\n{\"summary\":\"ok\"}\n```")
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Errorf("unexpected result %q", got)
	}
}

func TestExtractJSONLeadingProse(t *testing.T) {
	got, err := ExtractJSON(`Here is the note: {"summary":"ok"}`)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Errorf("unexpected result %q", got)
	}
}

func TestExtractJSONRejectsNonJSON(t *testing.T) {
	if _, err := ExtractJSON("not a payload at all"); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := DecodeModelJSON("```json\n{\"summary\":\"stable\"}\n```", &parsed); err != nil {
		t.Fatalf("DecodeModelJSON: %v", err)
	}
	if parsed.Summary != "stable" {
		t.Errorf("unexpected summary %q", parsed.Summary)
	}
}
