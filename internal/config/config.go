// Package config provides configuration helpers for go-gaze commands.
package config

import (
	"os"
	"strconv"
)

// Default service configuration.
const (
	DefaultPort     = "8200"
	DefaultCameraID = 0
	DefaultMeshURL  = "http://127.0.0.1:9100/mesh"
	DefaultOCRURL   = "http://127.0.0.1:9200/ocr"
)

// Port returns the HTTP listen port from GAZE_PORT.
func Port() string {
	if p := os.Getenv("GAZE_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// CameraID returns the capture device index from GAZE_CAMERA.
// Falls back to device 0, the default webcam.
func CameraID() int {
	if v := os.Getenv("GAZE_CAMERA"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return DefaultCameraID
}

// MeshURL returns the face-mesh detector sidecar URL from GAZE_MESH_URL.
func MeshURL() string {
	if u := os.Getenv("GAZE_MESH_URL"); u != "" {
		return u
	}
	return DefaultMeshURL
}

// OCRURL returns the OCR engine URL from GAZE_OCR_URL.
func OCRURL() string {
	if u := os.Getenv("GAZE_OCR_URL"); u != "" {
		return u
	}
	return DefaultOCRURL
}

// LogLevel returns the log level from GAZE_LOG_LEVEL, default "info".
func LogLevel() string {
	if l := os.Getenv("GAZE_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}
