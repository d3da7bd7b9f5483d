package ocr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ocr package.
var (
	// ErrNoImage is returned when the image payload is empty.
	ErrNoImage = errors.New("ocr: empty image")

	// ErrBadPayload is returned when the base64 image payload cannot
	// be decoded.
	ErrBadPayload = errors.New("ocr: malformed image payload")
)

// APIError represents an error response from the OCR engine.
type APIError struct {
	// StatusCode is the HTTP status returned by the engine.
	StatusCode int

	// Message is the engine's error text, passed through verbatim.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("ocr: engine error (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsServerError returns true for engine-side failures (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
