package ocr

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

const defaultHTTPTimeout = 60 * time.Second

var supportedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tiff": {},
	".bmp":  {},
	".webp": {},
}

// Result is the recognition service response for a scanned document.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Client wraps the image recognition HTTP service used for bills and
// referral scans.
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

// WithBaseURL overrides the configured service base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a recognition client from configuration.
func NewClient(cfg config.OCR, opts ...Option) *Client {
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

// Recognize uploads a document image and returns the extracted text with a
// confidence score. Unreadable files and unsupported formats fail before any
// network call.
func (c *Client) Recognize(ctx context.Context, imagePath string) (Result, error) {
	var empty Result

	ext := strings.ToLower(filepath.Ext(imagePath))
	if _, ok := supportedExtensions[ext]; !ok {
		return empty, fmt.Errorf("ocr: unsupported image format %q", ext)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return empty, fmt.Errorf("ocr: read image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return empty, fmt.Errorf("ocr: build request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return empty, fmt.Errorf("ocr: build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return empty, fmt.Errorf("ocr: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/recognize", &body)
	if err != nil {
		return empty, fmt.Errorf("ocr: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("ocr: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("ocr: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, fmt.Errorf("ocr: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return empty, fmt.Errorf("ocr: decode response: %w", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return empty, errors.New("ocr: service returned empty text")
	}
	return result, nil
}
