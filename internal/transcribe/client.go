package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"medscribe/internal/config"
)

const defaultHTTPTimeout = 120 * time.Second

// supportedExtensions are the audio containers the service accepts. The
// check runs client-side so an unsupported recording fails before upload.
var supportedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".flac": {},
}

// Result is the transcription service response.
type Result struct {
	Text            string   `json:"text"`
	Confidence      float64  `json:"confidence_score"`
	DurationSeconds *float64 `json:"duration_seconds"`
}

// Client wraps the speech-to-text HTTP service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured service base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a transcription client from configuration.
func NewClient(cfg config.Transcription, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Transcribe uploads an audio recording and returns the recognized text with
// its confidence score. Unreadable files and unsupported formats fail before
// any network call.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	var empty Result

	ext := strings.ToLower(filepath.Ext(audioPath))
	if _, ok := supportedExtensions[ext]; !ok {
		return empty, fmt.Errorf("transcribe: unsupported audio format %q", ext)
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return empty, fmt.Errorf("transcribe: read audio: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return empty, fmt.Errorf("transcribe: build request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return empty, fmt.Errorf("transcribe: build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return empty, fmt.Errorf("transcribe: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcriptions", &body)
	if err != nil {
		return empty, fmt.Errorf("transcribe: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("transcribe: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("transcribe: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, fmt.Errorf("transcribe: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return empty, fmt.Errorf("transcribe: decode response: %w", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return empty, errors.New("transcribe: service returned empty text")
	}
	return result, nil
}
