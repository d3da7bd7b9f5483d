// Package ocr extracts text from images by delegating to an external OCR
// engine over HTTP (a tesseract-server style sidecar).
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gazekit/go-gaze/internal/httpc"
)

// Client talks to the OCR engine.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client for the engine at url.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		// OCR on large pages can be slow; allow more than the shared default.
		client: httpc.NewClient(60 * time.Second),
	}
}

// request is the engine wire format.
type request struct {
	ImageBase64 string `json:"image_base64"`
	Lang        string `json:"lang,omitempty"`
}

type response struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExtractText sends the image to the engine and returns the recognized
// text. lang is an optional language hint (e.g. "jpn"); empty means the
// engine default. Engine failures are surfaced verbatim as *APIError.
func (c *Client) ExtractText(ctx context.Context, image []byte, lang string) (string, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}

	payload, err := json.Marshal(request{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		Lang:        lang,
	})
	if err != nil {
		return "", fmt.Errorf("ocr: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: engine request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: truncate(string(body), 300)}
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return "", fmt.Errorf("ocr: decode response: %w (body: %s)", err, truncate(string(body), 200))
	}
	if r.Error != "" {
		return "", &APIError{StatusCode: resp.StatusCode, Message: r.Error}
	}

	return r.Text, nil
}

// truncate shortens s for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
